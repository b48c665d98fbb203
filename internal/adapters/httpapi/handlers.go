package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/hq-recovery/member-portal-api/internal/app/portal"
	"github.com/hq-recovery/member-portal-api/internal/domain"
	"github.com/hq-recovery/member-portal-api/internal/platform/config"
)

// Server is the real HTTP adapter implementation. Every portal endpoint is a
// read over one refresh cycle: fetch, normalize, aggregate, respond. The
// snapshot ID of the cycle that produced a response is exposed via the
// X-Snapshot-Id header.
type Server struct {
	Portal *portal.Service
	Cfg    config.PortalConfig
}

func NewServer(portalSvc *portal.Service, cfg config.PortalConfig) *Server {
	return &Server{Portal: portalSvc, Cfg: cfg}
}

type memberProfile struct {
	Name             string              `json:"name"`
	FirstName        string              `json:"firstName"`
	LastName         string              `json:"lastName"`
	Phone            string              `json:"phone"`
	Email            openapi_types.Email `json:"email"`
	RecoveryBalance  int                 `json:"recoveryBalance"`
	PtBalance        int                 `json:"ptBalance"`
	TeamBalance      int                 `json:"teamBalance"`
	TotalBalance     int                 `json:"totalBalance"`
	MembershipStatus string              `json:"membershipStatus"`
	JoiningDate      string              `json:"joiningDate"`
}

type sessionView struct {
	SessionId   string `json:"sessionId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ServiceType string `json:"serviceType"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
}

type notificationView struct {
	NotificationId string `json:"notificationId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
}

type dashboardResponse struct {
	Member                memberProfile              `json:"member"`
	UpcomingSessions      []sessionView              `json:"upcomingSessions"`
	PastSessions          []sessionView              `json:"pastSessions"`
	Notifications         []notificationView         `json:"notifications"`
	TotalSessionsAttended int                        `json:"totalSessionsAttended"`
	LastVisit             string                     `json:"lastVisit"`
	NextSession           nullable.Nullable[string]  `json:"nextSession,omitempty"`
	MotivationalMessage   string                     `json:"motivationalMessage"`
	FetchedAt             time.Time                  `json:"fetchedAt"`
}

type sessionsResponse struct {
	UpcomingSessions []sessionView `json:"upcomingSessions"`
	PastSessions     []sessionView `json:"pastSessions"`
}

type notificationsResponse struct {
	Notifications []notificationView `json:"notifications"`
}

type externalLink struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Url         string `json:"url"`
}

type linksResponse struct {
	BookingUrl  string         `json:"bookingUrl"`
	PurchaseUrl string         `json:"purchaseUrl"`
	Links       []externalLink `json:"links"`
}

func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.refresh(w, r)
	if !ok {
		return
	}
	resp := dashboardResponse{
		Member:                memberProfileFromDomain(d),
		UpcomingSessions:      sessionViewsFromDomain(d.Upcoming),
		PastSessions:          sessionViewsFromDomain(d.Past),
		Notifications:         notificationViewsFromDomain(d.Notifications),
		TotalSessionsAttended: d.TotalSessionsAttended,
		LastVisit:             d.LastVisit,
		MotivationalMessage:   d.MotivationalMessage,
		FetchedAt:             d.FetchedAt,
	}
	if d.NextSession != "" {
		resp.NextSession = nullable.NewNullableWithValue(d.NextSession)
	}
	writeJSON(w, d.SnapshotID, resp)
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	d, ok := s.refresh(w, r)
	if !ok {
		return
	}
	writeJSON(w, d.SnapshotID, struct {
		Member memberProfile `json:"member"`
	}{Member: memberProfileFromDomain(d)})
}

func (s *Server) GetSessions(w http.ResponseWriter, r *http.Request) {
	d, ok := s.refresh(w, r)
	if !ok {
		return
	}
	writeJSON(w, d.SnapshotID, sessionsResponse{
		UpcomingSessions: sessionViewsFromDomain(d.Upcoming),
		PastSessions:     sessionViewsFromDomain(d.Past),
	})
}

func (s *Server) GetNotifications(w http.ResponseWriter, r *http.Request) {
	d, ok := s.refresh(w, r)
	if !ok {
		return
	}
	writeJSON(w, d.SnapshotID, notificationsResponse{
		Notifications: notificationViewsFromDomain(d.Notifications),
	})
}

// GetLinks serves the configured external widget links. Booking and
// cancellation are third-party flows; the API only hands out the URLs.
func (s *Server) GetLinks(w http.ResponseWriter, r *http.Request) {
	if _, ok := IdentityFromContext(r.Context()); !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return
	}
	resp := linksResponse{
		BookingUrl:  s.Cfg.BookingURL,
		PurchaseUrl: s.Cfg.PurchaseURL,
		Links:       make([]externalLink, 0, len(s.Cfg.Links)),
	}
	for _, l := range s.Cfg.Links {
		resp.Links = append(resp.Links, externalLink{
			Title:       l.Title,
			Description: l.Description,
			Url:         l.URL,
		})
	}
	writeJSON(w, "", resp)
}

// refresh runs one fetch-refresh cycle for the authenticated email and maps
// service errors onto the wire envelope. ok=false means the response has
// already been written.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) (domain.Dashboard, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity", nil)
		return domain.Dashboard{}, false
	}

	d, err := s.Portal.Refresh(r.Context(), id.Email)
	if err != nil {
		if ae := (*portal.Error)(nil); errors.As(err, &ae) {
			writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
			return domain.Dashboard{}, false
		}
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return domain.Dashboard{}, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, snapshotID string, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if snapshotID != "" {
		w.Header().Set("X-Snapshot-Id", snapshotID)
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

func memberProfileFromDomain(d domain.Dashboard) memberProfile {
	m := d.Member
	return memberProfile{
		Name:             m.Name,
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Phone:            m.Phone,
		Email:            openapi_types.Email(m.Email),
		RecoveryBalance:  m.RecoveryBalance,
		PtBalance:        m.PTBalance,
		TeamBalance:      m.TeamBalance,
		TotalBalance:     m.TotalBalance(),
		MembershipStatus: m.MembershipStatus,
		JoiningDate:      m.JoiningDate,
	}
}

func sessionViewsFromDomain(ss []domain.Session) []sessionView {
	out := make([]sessionView, 0, len(ss))
	for _, s := range ss {
		out = append(out, sessionView{
			SessionId:   s.ID,
			Date:        s.Date,
			Time:        s.Time,
			ServiceType: s.ServiceType,
			Status:      s.Status,
			Location:    s.Location,
			Notes:       s.Notes,
		})
	}
	return out
}

func notificationViewsFromDomain(ns []domain.Notification) []notificationView {
	out := make([]notificationView, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationView{
			NotificationId: n.ID,
			Title:          n.Title,
			Description:    n.Description,
		})
	}
	return out
}
