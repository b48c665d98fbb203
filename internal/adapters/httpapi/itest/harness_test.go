package itest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hq-recovery/member-portal-api/internal/adapters/gsheets"
	"github.com/hq-recovery/member-portal-api/internal/adapters/httpapi"
	memclock "github.com/hq-recovery/member-portal-api/internal/adapters/memory/clock"
	memfeed "github.com/hq-recovery/member-portal-api/internal/adapters/memory/sheetfeed"
	memsnapshots "github.com/hq-recovery/member-portal-api/internal/adapters/memory/snapshots"
	"github.com/hq-recovery/member-portal-api/internal/app/portal"
	"github.com/hq-recovery/member-portal-api/internal/platform/config"
	sheetfeedport "github.com/hq-recovery/member-portal-api/internal/ports/out/sheetfeed"
)

type backend string

const (
	backendMemory backend = "memory"
	backendGviz   backend = "gviz"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "all":
		return []backend{backendMemory, backendGviz}
	case "memory":
		return []backend{backendMemory}
	case "gviz":
		return []backend{backendGviz}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|gviz|all)")
		return nil
	}
}

func cell(v any) *sheetfeedport.Cell            { return &sheetfeedport.Cell{V: v} }
func fcell(v any, f string) *sheetfeedport.Cell { return &sheetfeedport.Cell{V: v, F: f} }
func feedRow(cs ...*sheetfeedport.Cell) sheetfeedport.Row {
	return sheetfeedport.Row{Cells: cs}
}

// seedTables is the shared fixture served by both backends.
type seedTables struct {
	members       []sheetfeedport.Row
	notifications []sheetfeedport.Row
	sessions      []sheetfeedport.Row
}

func defaultSeed() seedTables {
	return seedTables{
		members: []sheetfeedport.Row{
			feedRow(cell("Jane Doe"), cell("555-0100"), cell("jane@example.com"),
				cell("5"), cell("0"), cell("2"), cell("Active"), fcell(nil, "15/01/2024")),
		},
		notifications: []sheetfeedport.Row{
			feedRow(cell("n1"), cell("Holiday hours"), cell("Closed Monday"), cell("Active")),
			feedRow(cell("n2"), cell("Stale"), cell("Hidden"), cell("inactive")),
		},
		sessions: []sheetfeedport.Row{
			feedRow(cell("Jane"), cell("jane@example.com"), cell("555-0100"),
				fcell(nil, "01/01/2030"), fcell(nil, "10:00"), cell("Recovery"), cell("s1"), cell("Confirmed")),
			feedRow(cell("Jane"), cell("jane@example.com"), cell("555-0100"),
				fcell(nil, "15/06/2020"), fcell(nil, "09:30"), cell("PT"), cell("s2"), cell("Showed")),
		},
	}
}

// gvizBody wraps a table payload in the callback shim the real export emits.
func gvizBody(t *testing.T, rows []sheetfeedport.Row) []byte {
	t.Helper()

	type jsonCell struct {
		V any     `json:"v"`
		F *string `json:"f,omitempty"`
	}
	type jsonRow struct {
		C []*jsonCell `json:"c"`
	}
	var payload struct {
		Status string `json:"status"`
		Table  struct {
			Rows []jsonRow `json:"rows"`
		} `json:"table"`
	}
	payload.Status = "ok"
	for _, r := range rows {
		var jr jsonRow
		for _, c := range r.Cells {
			if c == nil {
				jr.C = append(jr.C, nil)
				continue
			}
			jc := &jsonCell{V: c.V}
			if c.F != "" {
				f := c.F
				jc.F = &f
			}
			jr.C = append(jr.C, jc)
		}
		payload.Table.Rows = append(payload.Table.Rows, jr)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal gviz payload: %v", err)
	}
	body := append([]byte("/*O_o*/\ngoogle.visualization.Query.setResponse("), b...)
	return append(body, ");"...)
}

func newGvizFeed(t *testing.T, seed seedTables) sheetfeedport.Source {
	t.Helper()

	tables := map[string][]sheetfeedport.Row{
		"Sheet1": seed.members,
		"Sheet2": seed.notifications,
		"Sheet3": seed.sessions,
	}
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows, ok := tables[r.URL.Query().Get("sheet")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(gvizBody(t, rows))
	}))
	t.Cleanup(stub.Close)

	return gsheets.NewClientWithOptions(config.PortalConfig{
		SheetBaseURL:       stub.URL,
		SheetID:            "itest-sheet",
		MemberSheet:        "Sheet1",
		NotificationsSheet: "Sheet2",
		SessionsSheet:      "Sheet3",
		HTTPTimeout:        2 * time.Second,
	}, nil)
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	seed := defaultSeed()
	var feed sheetfeedport.Source
	switch b {
	case backendGviz:
		feed = newGvizFeed(t, seed)
	case backendMemory:
		src := memfeed.NewSource()
		src.SetMemberRows(seed.members)
		src.SetNotificationRows(seed.notifications)
		src.SetSessionRows(seed.sessions)
		feed = src
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	clk := memclock.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := portal.NewService(feed, memsnapshots.NewHolder(), clk)

	cfg := config.PortalConfig{
		DefaultLocation:  "HQ Recovery Center",
		AttendedStatuses: []string{"showed", "attended"},
		BookingURL:       "https://example.com/book",
		PurchaseURL:      "https://example.com/buy",
		Links:            config.DefaultLinks(),
	}
	api := httpapi.NewServer(svc, cfg)

	// Integration tests use the dev auth middleware to stay fully local and
	// deterministic. We pass an empty default email to ensure requests MUST
	// provide X-Debug-Email, allowing auth-failure coverage.
	handler := httpapi.NewRouter(api, httpapi.NewDevAuthMiddleware(""))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) get(t *testing.T, path string, email string) (int, []byte, http.Header) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, s.url(path), nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if email != "" {
		req.Header.Set("X-Debug-Email", email)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
