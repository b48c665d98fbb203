package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hq-recovery/member-portal-api/internal/adapters/gsheets"
	"github.com/hq-recovery/member-portal-api/internal/adapters/httpapi"
	memsnapshots "github.com/hq-recovery/member-portal-api/internal/adapters/memory/snapshots"
	"github.com/hq-recovery/member-portal-api/internal/app/portal"
	"github.com/hq-recovery/member-portal-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/hq-recovery/member-portal-api/internal/platform/clock"
	"github.com/hq-recovery/member-portal-api/internal/platform/config"
)

func main() {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	port := getenv("PORT", "8080")

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Email
	authMode := getenv("AUTH_MODE", "jwt")
	var authMW func(http.Handler) http.Handler
	switch authMode {
	case "dev":
		authMW = httpapi.NewDevAuthMiddleware(getenv("DEV_EMAIL", ""))
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatalf("invalid auth config: %v", err)
		}
		verifier := jwtverifier.New(jwtCfg)
		authMW = httpapi.NewAuthMiddleware(verifier)
	}

	portalCfg, err := config.LoadPortalConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid portal config: %v", err)
	}

	feed := gsheets.NewClient(portalCfg)
	holder := memsnapshots.NewHolder()
	clk := platformclock.NewSystemClock()

	svc := portal.NewService(feed, holder, clk)
	svc.DefaultLocation = portalCfg.DefaultLocation
	svc.AttendedStatuses = portalCfg.AttendedStatuses

	api := httpapi.NewServer(svc, portalCfg)
	handler := httpapi.NewRouter(api, authMW)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s (sheet=%s)", port, portalCfg.SheetID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
