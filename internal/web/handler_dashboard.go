package web

import (
	"net/http"

	"github.com/mygreenscore/greenscore/internal/dashboard"
	"github.com/mygreenscore/greenscore/internal/format"
	"github.com/mygreenscore/greenscore/internal/store"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	view, err := dashboard.Load(r.Context(), s.client, sess.BearerToken, s.logger)
	if err != nil {
		s.logger.Error("dashboard load failed", "error", err)
		s.renderError(w, r,
			"Dashboard unavailable",
			"We could not load your footprint data right now.",
			"/dashboard")
		return
	}

	data := map[string]any{
		"ActiveNav": "dashboard",
		"View":      view,
		"Earths":    format.Earths(view.Stats.TotalCO2eKg),
		"TrendDays": dashboard.TrendDays,
	}
	if err := s.renderPage(w, r, data, "base.html", "pages/dashboard.html", "partials/tips.html"); err != nil {
		s.logger.Error("render dashboard", "error", err)
	}
}
