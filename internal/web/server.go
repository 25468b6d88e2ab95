// Package web is the HTTP front end: server-rendered pages over the
// backend API, session handling, and the per-session form and flow
// state machines.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mygreenscore/greenscore/internal/assessment"
	"github.com/mygreenscore/greenscore/internal/auth"
	"github.com/mygreenscore/greenscore/internal/backend"
	"github.com/mygreenscore/greenscore/internal/format"
	"github.com/mygreenscore/greenscore/internal/onboarding"
	"github.com/mygreenscore/greenscore/internal/store"
)

//go:embed static
var staticFS embed.FS

const sessionCookie = "greenscore_session"

type Server struct {
	client    *backend.Client
	sessions  *store.SessionStore
	signer    *auth.SessionSigner
	catalog   *assessment.Catalog
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger

	mu    sync.Mutex
	forms map[string]*assessment.Form
	flows map[string]*onboarding.Flow
}

func NewServer(
	client *backend.Client,
	sessions *store.SessionStore,
	signer *auth.SessionSigner,
	catalog *assessment.Catalog,
	tmpl embed.FS,
	logger *slog.Logger,
) *Server {
	s := &Server{
		client:    client,
		sessions:  sessions,
		signer:    signer,
		catalog:   catalog,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		forms:     make(map[string]*assessment.Form),
		flows:     make(map[string]*onboarding.Flow),
		tmplFuncs: template.FuncMap{
			"formatCO2e":   format.CO2e,
			"formatNumber": format.Number,
			"formatDate":   format.Date,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /about", s.handleAbout)
	s.mux.HandleFunc("GET /climate-action", s.handleClimateAction)
	s.mux.HandleFunc("GET /resources", s.handleResources)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /signin", s.handleSignInPage)
	s.mux.HandleFunc("POST /signin", s.handleSignIn)
	s.mux.HandleFunc("POST /signout", s.handleSignOut)

	s.mux.HandleFunc("GET /assess", s.requireSession(s.handleAssessPage, true))
	s.mux.HandleFunc("POST /assess/items", s.requireSession(s.handleAssessAddItem, false))
	s.mux.HandleFunc("POST /assess/templates", s.requireSession(s.handleAssessAddTemplate, false))
	s.mux.HandleFunc("POST /assess/items/{index}/delete", s.requireSession(s.handleAssessRemoveItem, false))
	s.mux.HandleFunc("POST /assess/submit", s.requireSession(s.handleAssessSubmit, false))
	s.mux.HandleFunc("POST /assess/reset", s.requireSession(s.handleAssessReset, false))

	s.mux.HandleFunc("GET /dashboard", s.requireSession(s.handleDashboard, true))

	s.mux.HandleFunc("GET /goals", s.requireSession(s.handleGoalsPage, true))
	s.mux.HandleFunc("POST /goals", s.requireSession(s.handleGoalsSubmit, false))

	s.mux.HandleFunc("GET /onboarding", s.requireSession(s.handleOnboardingPage, false))
	s.mux.HandleFunc("POST /onboarding/next", s.requireSession(s.handleOnboardingNext, false))
	s.mux.HandleFunc("POST /onboarding/back", s.requireSession(s.handleOnboardingBack, false))
	s.mux.HandleFunc("POST /onboarding/finish", s.requireSession(s.handleOnboardingFinish, false))

	s.mux.HandleFunc("GET /privacy", s.requireSession(s.handlePrivacyPage, true))
	s.mux.HandleFunc("GET /privacy/export", s.requireSession(s.handlePrivacyExport, false))
	s.mux.HandleFunc("POST /privacy/delete", s.requireSession(s.handlePrivacyDelete, false))

	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.Handle("GET /static/", http.FileServerFS(staticFS))
}

// sessionHandler is a handler that needs the resolved session.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *store.Session)

// requireSession resolves the session cookie and rejects unsigned-in
// requests with a redirect to the sign-in page. When gated is set the
// onboarding gate also runs: users who have not finished onboarding
// are sent there first. Gate lookups that fail are logged and ignored;
// a flaky backend must not lock users out of the whole site.
func (s *Server) requireSession(next sessionHandler, gated bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.currentSession(r)
		if sess == nil {
			redirectWithError(w, r, "/signin", "Please sign in to continue")
			return
		}

		if gated && !s.client.DemoMode() {
			profile, err := s.client.Me(r.Context(), sess.BearerToken)
			switch {
			case err != nil:
				s.logger.Warn("onboarding gate check failed", "error", err)
			case !profile.OnboardingCompleted:
				http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
				return
			}
		}

		next(w, r, sess)
	}
}

// currentSession resolves the request's session, or nil. In demo mode
// every request gets a synthetic session with an empty bearer token;
// the client embeds the demo user id in request bodies instead.
func (s *Server) currentSession(r *http.Request) *store.Session {
	if s.client.DemoMode() {
		return &store.Session{ID: "demo", UserID: "demo"}
	}

	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	id, err := s.signer.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return nil
	}
	return sess
}

// formFor returns the session's assessment form, creating it on first
// use.
func (s *Server) formFor(sess *store.Session) *assessment.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[sess.ID]
	if !ok {
		f = assessment.NewForm(s.client, s.catalog)
		s.forms[sess.ID] = f
	}
	return f
}

// flowFor returns the session's onboarding flow, creating it on first
// use.
func (s *Server) flowFor(sess *store.Session) *onboarding.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[sess.ID]
	if !ok {
		f = onboarding.NewFlow(s.client)
		s.flows[sess.ID] = f
	}
	return f
}

// dropState discards the session's in-memory form and flow. Any
// submission still in flight for the old form resolves against a dead
// epoch and is discarded.
func (s *Server) dropState(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.forms[sessionID]; ok {
		f.Reset()
		delete(s.forms, sessionID)
	}
	delete(s.flows, sessionID)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(httpMetrics(s.mux))).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set. Flash
// messages travel on the query string across redirects; they are
// injected here so every page gets them for free.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any, files ...string) error {
	if _, ok := data["Error"]; !ok {
		data["Error"] = r.URL.Query().Get("error")
	}
	if _, ok := data["Notice"]; !ok {
		data["Notice"] = r.URL.Query().Get("notice")
	}
	if _, ok := data["SignedIn"]; !ok {
		data["SignedIn"] = s.currentSession(r) != nil
	}
	if _, ok := data["ActiveNav"]; !ok {
		data["ActiveNav"] = ""
	}

	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(msg), http.StatusSeeOther)
}
