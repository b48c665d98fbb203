package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/hq-recovery/member-portal-api/internal/adapters/memory/clock"
	memfeed "github.com/hq-recovery/member-portal-api/internal/adapters/memory/sheetfeed"
	memsnapshots "github.com/hq-recovery/member-portal-api/internal/adapters/memory/snapshots"
	"github.com/hq-recovery/member-portal-api/internal/app/portal"
	"github.com/hq-recovery/member-portal-api/internal/platform/auth/jwks_testutil"
	"github.com/hq-recovery/member-portal-api/internal/platform/auth/jwtverifier"
	"github.com/hq-recovery/member-portal-api/internal/platform/config"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// newTestAuthRouter wires the JWKS-backed verifier in front of the real
// router; the mint function signs tokens with the server's current key.
func newTestAuthRouter(t *testing.T) (http.Handler, func(claims map[string]any) string) {
	t.Helper()

	jwksSrv, setKeys := jwks_testutil.NewRotatingJWKSServer()
	t.Cleanup(jwksSrv.Close)

	kp, err := jwks_testutil.GenerateRSAKeypair("kid-1")
	if err != nil {
		t.Fatalf("GenerateRSAKeypair: %v", err)
	}
	setKeys([]jwks_testutil.Keypair{kp})

	cfg := config.JWTConfig{
		Issuer:                 "test-iss",
		Audience:               "test-aud",
		JWKSURL:                jwksSrv.URL,
		ClockSkew:              0,
		JWKSRefreshInterval:    10 * time.Minute,
		JWKSMinRefreshInterval: 0,
		HTTPTimeout:            2 * time.Second,
	}

	now := time.Unix(1700000000, 0)
	v := jwtverifier.NewWithOptions(cfg, nil, fixedClock{t: now})

	mint := func(claims map[string]any) string {
		jwt, err := jwks_testutil.MintRS256JWT(kp, cfg.Issuer, cfg.Audience, "member-123", now, 5*time.Minute, nil, claims)
		if err != nil {
			t.Fatalf("MintRS256JWT: %v", err)
		}
		return jwt
	}

	svc := portal.NewService(memfeed.NewSource(), memsnapshots.NewHolder(), memclock.NewManualClock(now))
	h := NewRouter(NewServer(svc, testPortalConfig()), NewAuthMiddleware(v))
	return h, mint
}

func getWithAuth(h http.Handler, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	rec := getWithAuth(h, "/portal/links", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	var er errorResponse
	decodeBody(t, rec, &er)
	if er.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
	if !er.Error.RequestId.IsSpecified() || er.Error.RequestId.IsNull() {
		t.Fatalf("expected requestId to be set")
	}
	if rid, err := er.Error.RequestId.Get(); err != nil || rid == "" {
		t.Fatalf("expected requestId to be a non-empty string")
	}
}

func TestAuthMiddleware_MalformedHeader_401(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	rec := getWithAuth(h, "/portal/links", "Basic abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ValidToken_AllowsRequest(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	rec := getWithAuth(h, "/portal/links", "Bearer "+mint(map[string]any{"email": "jane@example.com"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestAuthMiddleware_TokenWithoutEmail_401(t *testing.T) {
	t.Parallel()

	h, mint := newTestAuthRouter(t)
	rec := getWithAuth(h, "/portal/links", "Bearer "+mint(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want %d body=%s", rec.Code, http.StatusUnauthorized, rec.Body.String())
	}
	var er errorResponse
	decodeBody(t, rec, &er)
	if er.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("code: got %q", er.Error.Code)
	}
}

func TestAuthMiddleware_HealthzBypassesAuth(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthRouter(t)
	rec := getWithAuth(h, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want %d", rec.Code, http.StatusOK)
	}
}
