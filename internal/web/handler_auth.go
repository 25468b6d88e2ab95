package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/mygreenscore/greenscore/internal/auth"
)

func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	data := map[string]any{"ActiveNav": "signin", "SignedIn": false}
	if err := s.renderPage(w, r, data, "base.html", "pages/signin.html"); err != nil {
		s.logger.Error("render signin", "error", err)
	}
}

// handleSignIn accepts a backend-issued bearer token, inspects it for
// the user id, and exchanges it for a signed session cookie. The
// bearer itself never leaves the server after this point.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.PostFormValue("token"))
	if token == "" {
		redirectWithError(w, r, "/signin", "Please paste an access token")
		return
	}

	claims, err := auth.PeekBearer(token)
	if err != nil {
		s.logger.Info("rejected sign-in token", "error", err)
		redirectWithError(w, r, "/signin", "That token is not valid or has expired")
		return
	}

	sess, err := s.sessions.Create(r.Context(), claims.Subject, token, s.signer.TTL())
	if err != nil {
		s.logger.Error("create session", "error", err)
		redirectWithError(w, r, "/signin", "Could not start a session, please try again")
		return
	}

	signed, err := s.signer.Sign(sess.ID)
	if err != nil {
		s.logger.Error("sign session cookie", "error", err)
		redirectWithError(w, r, "/signin", "Could not start a session, please try again")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  time.Now().Add(s.signer.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if sess := s.currentSession(r); sess != nil {
		s.dropState(sess.ID)
		if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
			s.logger.Error("delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	redirectWithNotice(w, r, "/", "You have been signed out")
}
