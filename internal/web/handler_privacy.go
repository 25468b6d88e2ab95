package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mygreenscore/greenscore/internal/store"
)

func (s *Server) handlePrivacyPage(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	data := map[string]any{"ActiveNav": "privacy"}
	if err := s.renderPage(w, r, data, "base.html", "pages/privacy.html"); err != nil {
		s.logger.Error("render privacy", "error", err)
	}
}

// handlePrivacyExport streams the user's complete data export as a
// JSON download.
func (s *Server) handlePrivacyExport(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	export, err := s.client.ExportData(r.Context(), sess.BearerToken)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		redirectWithError(w, r, "/privacy", "Could not export your data. Please try again.")
		return
	}

	filename := fmt.Sprintf("greenscore-data-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		s.logger.Error("write export", "error", err)
	}
}

// handlePrivacyDelete erases all backend data for the user. The typed
// confirmation matches exactly; anything else is refused without a
// backend call.
func (s *Server) handlePrivacyDelete(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	if strings.TrimSpace(r.PostFormValue("confirm")) != "DELETE" {
		redirectWithError(w, r, "/privacy", `Type "DELETE" to confirm erasure`)
		return
	}

	ack, err := s.client.DeleteData(r.Context(), sess.BearerToken)
	if err != nil {
		s.logger.Error("delete data failed", "error", err)
		redirectWithError(w, r, "/privacy", "Could not delete your data. Please try again.")
		return
	}
	s.logger.Info("user data deleted", "user_id", sess.UserID, "status", ack.Status)

	// Local state refers to data that no longer exists.
	s.dropState(sess.ID)
	redirectWithNotice(w, r, "/privacy", "All your data has been deleted")
}
