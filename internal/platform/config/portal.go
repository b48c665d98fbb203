package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// PortalConfig configures the spreadsheet feed and the derived-view
// defaults. The spreadsheet must be published to the web; only the document
// ID is deployment-specific.
type PortalConfig struct {
	// SheetBaseURL exists so tests can point the client at a local server.
	SheetBaseURL string
	SheetID      string

	MemberSheet        string
	NotificationsSheet string
	SessionsSheet      string

	HTTPTimeout time.Duration

	// DefaultLocation is stamped onto every session record; the sheet has
	// no location column.
	DefaultLocation string

	// AttendedStatuses is the synonym set counted as an attended session
	// (case-insensitive). Applied uniformly to the attendance aggregate,
	// the last-visit aggregate, and status display.
	AttendedStatuses []string

	// External widget links surfaced to the client; booking and
	// cancellation are third-party flows, not API endpoints.
	BookingURL  string
	PurchaseURL string
	Links       []Link
}

// Link is an external action rendered by the portal client.
type Link struct {
	Title       string
	Description string
	URL         string
}

func LoadPortalConfigFromEnv() (PortalConfig, error) {
	sheetID := strings.TrimSpace(os.Getenv("PORTAL_SHEET_ID"))
	if sheetID == "" {
		return PortalConfig{}, fmt.Errorf("missing required env var: PORTAL_SHEET_ID")
	}

	cfg := PortalConfig{
		SheetBaseURL:       "https://docs.google.com",
		SheetID:            sheetID,
		MemberSheet:        "Sheet1",
		NotificationsSheet: "Sheet2",
		SessionsSheet:      "Sheet3",
		HTTPTimeout:        10 * time.Second,
		DefaultLocation:    "HQ Recovery Center",
		AttendedStatuses:   []string{"showed", "attended"},
		BookingURL:         "https://link.apisystem.tech/widget/survey/RbAQ3IK1JAYihuWJZjKw",
		PurchaseURL:        "https://link.apisystem.tech/widget/survey/hA4CVbI02UAADyL19KjZ",
		Links:              DefaultLinks(),
	}

	if v := strings.TrimSpace(os.Getenv("PORTAL_SHEET_BASE_URL")); v != "" {
		cfg.SheetBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_MEMBER_SHEET")); v != "" {
		cfg.MemberSheet = v
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_NOTIFICATIONS_SHEET")); v != "" {
		cfg.NotificationsSheet = v
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_SESSIONS_SHEET")); v != "" {
		cfg.SessionsSheet = v
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return PortalConfig{}, fmt.Errorf("PORTAL_HTTP_TIMEOUT must be a duration (e.g. 10s): %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_DEFAULT_LOCATION")); v != "" {
		cfg.DefaultLocation = v
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_ATTENDED_STATUSES")); v != "" {
		statuses := make([]string, 0, 2)
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
		if len(statuses) == 0 {
			return PortalConfig{}, fmt.Errorf("PORTAL_ATTENDED_STATUSES must name at least one status")
		}
		cfg.AttendedStatuses = statuses
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_BOOKING_URL")); v != "" {
		cfg.BookingURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PORTAL_PURCHASE_URL")); v != "" {
		cfg.PurchaseURL = v
	}

	return cfg, nil
}

// DefaultLinks is the fixed set of external widget actions offered by the
// portal beyond booking and purchasing.
func DefaultLinks() []Link {
	return []Link{
		{
			Title:       "Cancel Session",
			Description: "Cancel your current booking",
			URL:         "https://link.apisystem.tech/widget/survey/BclWcIH3io6poSqZnHSG",
		},
		{
			Title:       "Check Session Availability",
			Description: "View available time slots",
			URL:         "https://api.leadconnectorhq.com/widget/booking/wBVwTDYR3QnwAR20GNYC",
		},
		{
			Title:       "Give Feedback",
			Description: "Share your experience",
			URL:         "https://link.apisystem.tech/widget/survey/l1Q1Kh90pZvI0HyOpIOg",
		},
		{
			Title:       "Update Profile",
			Description: "Edit your contact details",
			URL:         "https://link.apisystem.tech/widget/form/XNFVgmm2ApHSi8UisLZQ",
		},
		{
			Title:       "Contact Support",
			Description: "Get help from our team",
			URL:         "https://link.apisystem.tech/widget/survey/eyJsJkseRgLR5Cl5GHqe",
		},
	}
}
