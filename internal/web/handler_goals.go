package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mygreenscore/greenscore/internal/dashboard"
	"github.com/mygreenscore/greenscore/internal/domain"
	"github.com/mygreenscore/greenscore/internal/store"
)

func (s *Server) handleGoalsPage(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	view, err := dashboard.LoadGoals(r.Context(), s.client, sess.BearerToken)
	if err != nil {
		s.logger.Error("goals load failed", "error", err)
		s.renderError(w, r,
			"Goals unavailable",
			"We could not load your goal data right now.",
			"/goals")
		return
	}

	target := ""
	period := domain.PeriodMonthly
	if view.Goal != nil {
		target = strconv.FormatFloat(view.Goal.TargetCO2e, 'f', -1, 64)
		period = view.Goal.Period
	}

	data := map[string]any{
		"ActiveNav": "goals",
		"View":      view,
		"Periods":   domain.GoalPeriods,
		"Target":    target,
		"Period":    period,
	}
	if err := s.renderPage(w, r, data, "base.html", "pages/goals.html"); err != nil {
		s.logger.Error("render goals", "error", err)
	}
}

func (s *Server) handleGoalsSubmit(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	target, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("target_co2e")), 64)
	if err != nil || target <= 0 {
		redirectWithError(w, r, "/goals", "Target must be a number greater than zero")
		return
	}
	period := domain.GoalPeriod(r.PostFormValue("period"))
	if !domain.ValidGoalPeriod(period) {
		redirectWithError(w, r, "/goals", "Pick a goal period")
		return
	}

	if _, err := s.client.SetGoal(r.Context(), sess.BearerToken, target, period); err != nil {
		s.logger.Error("set goal failed", "error", err)
		redirectWithError(w, r, "/goals", "Could not save your goal. Please try again.")
		return
	}
	redirectWithNotice(w, r, "/goals", "Goal saved")
}
