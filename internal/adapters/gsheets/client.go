package gsheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hq-recovery/member-portal-api/internal/platform/config"
	"github.com/hq-recovery/member-portal-api/internal/ports/out/sheetfeed"
)

// The gviz export wraps its JSON payload in a fixed-length callback shim:
// 47 bytes of prefix ("/*O_o*/\ngoogle.visualization.Query.setResponse(")
// and a 2-byte ");" suffix. Both are sliced off at fixed offsets.
const (
	wrapperPrefixLen = 47
	wrapperSuffixLen = 2
)

// Client reads the three logical tables from one published spreadsheet via
// the visualization-API JSON export. It performs no retries and holds no
// state between calls.
type Client struct {
	client  *http.Client
	baseURL string
	sheetID string

	memberSheet        string
	notificationsSheet string
	sessionsSheet      string
}

func NewClient(cfg config.PortalConfig) *Client {
	return NewClientWithOptions(cfg, nil)
}

func NewClientWithOptions(cfg config.PortalConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Client{
		client:             httpClient,
		baseURL:            strings.TrimRight(cfg.SheetBaseURL, "/"),
		sheetID:            cfg.SheetID,
		memberSheet:        cfg.MemberSheet,
		notificationsSheet: cfg.NotificationsSheet,
		sessionsSheet:      cfg.SessionsSheet,
	}
}

// MemberRows fetches the member table. Unlike the other tables this cannot
// degrade: a failed fetch or unreadable body is a configuration error
// (wrapping sheetfeed.ErrUnavailable). An invalid-query marker means the
// sheet itself is missing; that parses to zero rows and surfaces downstream
// as member-not-found, not as an error.
func (c *Client) MemberRows(ctx context.Context) ([]sheetfeed.Row, error) {
	body, status, err := c.get(ctx, c.memberSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: member sheet: %v", sheetfeed.ErrUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: member sheet: status=%d", sheetfeed.ErrUnavailable, status)
	}
	if hasInvalidQueryMarker(body) {
		return []sheetfeed.Row{}, nil
	}
	rows, err := decodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("%w: member sheet: %v", sheetfeed.ErrUnavailable, err)
	}
	return rows, nil
}

// NotificationRows fetches the notifications table, degrading to an empty
// row set when the sheet is unreachable or unpublished.
func (c *Client) NotificationRows(ctx context.Context) ([]sheetfeed.Row, error) {
	return c.optionalRows(ctx, c.notificationsSheet)
}

// SessionRows fetches the session log, degrading to an empty row set when
// the sheet is unreachable or unpublished.
func (c *Client) SessionRows(ctx context.Context) ([]sheetfeed.Row, error) {
	return c.optionalRows(ctx, c.sessionsSheet)
}

func (c *Client) optionalRows(ctx context.Context, sheet string) ([]sheetfeed.Row, error) {
	body, status, err := c.get(ctx, sheet)
	if err != nil {
		return []sheetfeed.Row{}, nil
	}
	if status < 200 || status >= 300 {
		return []sheetfeed.Row{}, nil
	}
	if hasInvalidQueryMarker(body) {
		return []sheetfeed.Row{}, nil
	}
	rows, err := decodeRows(body)
	if err != nil {
		return []sheetfeed.Row{}, nil
	}
	return rows, nil
}

func (c *Client) get(ctx context.Context, sheet string) ([]byte, int, error) {
	u := fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		c.baseURL, url.PathEscape(c.sheetID), url.QueryEscape(sheet))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// hasInvalidQueryMarker detects the gviz error emitted for a sheet name
// that does not exist or is not published.
func hasInvalidQueryMarker(body []byte) bool {
	s := string(body)
	return strings.Contains(s, "Invalid query") || strings.Contains(s, "INVALID_QUERY")
}

type gvizPayload struct {
	Table struct {
		Rows []gvizRow `json:"rows"`
	} `json:"table"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any     `json:"v"`
	F *string `json:"f"`
}

func decodeRows(body []byte) ([]sheetfeed.Row, error) {
	if len(body) < wrapperPrefixLen+wrapperSuffixLen {
		return nil, fmt.Errorf("gviz body too short (%d bytes)", len(body))
	}
	jsonText := body[wrapperPrefixLen : len(body)-wrapperSuffixLen]

	var p gvizPayload
	if err := json.Unmarshal(jsonText, &p); err != nil {
		return nil, fmt.Errorf("gviz payload: %w", err)
	}

	rows := make([]sheetfeed.Row, 0, len(p.Table.Rows))
	for _, r := range p.Table.Rows {
		if r.C == nil {
			// Malformed row: preserved so the normalizer can count the skip.
			rows = append(rows, sheetfeed.Row{})
			continue
		}
		cells := make([]*sheetfeed.Cell, len(r.C))
		for i, cell := range r.C {
			if cell == nil {
				continue
			}
			out := &sheetfeed.Cell{V: cell.V}
			if cell.F != nil {
				out.F = *cell.F
			}
			cells[i] = out
		}
		rows = append(rows, sheetfeed.Row{Cells: cells})
	}
	return rows, nil
}
