package sheetfeed

import "errors"

// ErrUnavailable indicates the spreadsheet document is unreachable or not
// published to the web. It is a configuration/connectivity failure, not a
// data condition: an existing-but-empty table is not an error.
var ErrUnavailable = errors.New("sheet feed unavailable")
