package web

import "net/http"

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"ActiveNav": "home"}
	if err := s.renderPage(w, r, data, "base.html", "pages/home.html"); err != nil {
		s.logger.Error("render home", "error", err)
	}
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"ActiveNav": "about"}
	if err := s.renderPage(w, r, data, "base.html", "pages/about.html"); err != nil {
		s.logger.Error("render about", "error", err)
	}
}

func (s *Server) handleClimateAction(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"ActiveNav": "climate-action"}
	if err := s.renderPage(w, r, data, "base.html", "pages/climate_action.html"); err != nil {
		s.logger.Error("render climate action", "error", err)
	}
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"ActiveNav": "resources"}
	if err := s.renderPage(w, r, data, "base.html", "pages/resources.html"); err != nil {
		s.logger.Error("render resources", "error", err)
	}
}

// handleHealth reports whether the backend API is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Health(r.Context()); err != nil {
		s.logger.Warn("backend health check failed", "error", err)
		http.Error(w, "backend unreachable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// renderError shows the standalone error page used when a page load
// cannot proceed at all.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, title, msg, retry string) {
	w.WriteHeader(http.StatusBadGateway)
	data := map[string]any{
		"Title":   title,
		"Message": msg,
		"Retry":   retry,
	}
	if err := s.renderPage(w, r, data, "base.html", "pages/error.html"); err != nil {
		s.logger.Error("render error page", "error", err)
	}
}
