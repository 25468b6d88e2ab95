// Package dashboard assembles the read-only views over the backend's
// aggregate endpoints: the charts page and the goal progress page.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mygreenscore/greenscore/internal/domain"
)

// TrendDays is the history window the dashboard requests.
const TrendDays = 30

// statsReader is the subset of the backend client the dashboard needs.
type statsReader interface {
	DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error)
	Trends(ctx context.Context, token string, days int) (*domain.TrendsResponse, error)
	DailyQuote(ctx context.Context, token string) (*domain.DailyQuote, error)
}

// goalReader is the subset of the backend client the goals view needs.
type goalReader interface {
	ActiveGoal(ctx context.Context, token string) (*domain.Goal, error)
	DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error)
}

// fallbackQuote is shown when the quote endpoint is unavailable; a
// missing inspiration card must not fail the dashboard.
var fallbackQuote = domain.DailyQuote{
	Quote:  "The greatest threat to our planet is the belief that someone else will save it.",
	Author: "Robert Swan",
	Tip:    "Reduce, Reuse, Recycle.",
}

// View is everything the dashboard page renders.
type View struct {
	Stats  *domain.DashboardStats
	Trends []domain.TrendPoint
	Quote  domain.DailyQuote
}

// Load fetches stats and trends concurrently. Either failure fails the
// whole load; the page never renders partial data. The daily quote is
// best-effort: on failure the static fallback is used and the error is
// only logged.
func Load(ctx context.Context, backend statsReader, token string, logger *slog.Logger) (*View, error) {
	view := &View{Quote: fallbackQuote}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := backend.DashboardStats(gctx, token)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		view.Stats = stats
		return nil
	})
	g.Go(func() error {
		trends, err := backend.Trends(gctx, token, TrendDays)
		if err != nil {
			return fmt.Errorf("load trends: %w", err)
		}
		view.Trends = trends.Trends
		return nil
	})
	g.Go(func() error {
		quote, err := backend.DailyQuote(gctx, token)
		if err != nil {
			logger.Warn("daily quote unavailable, using fallback", "error", err)
			return nil
		}
		view.Quote = *quote
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// Progress is a goal's completion state against current emissions.
type Progress struct {
	// Percent is emissions over target, clamped to 100.
	Percent float64
	// OnTrack is true while emissions stay at or under the target.
	OnTrack bool
}

// GoalProgress computes progress toward a reduction goal. A
// non-positive target yields zero progress and off-track, matching the
// "no meaningful goal" rendering.
func GoalProgress(currentEmissions, target float64) Progress {
	if target <= 0 {
		return Progress{}
	}
	pct := currentEmissions / target * 100
	if pct > 100 {
		pct = 100
	}
	return Progress{
		Percent: pct,
		OnTrack: currentEmissions <= target,
	}
}

// GoalView is everything the goals page renders.
type GoalView struct {
	// Goal is nil when the user has no active goal; that is a
	// distinguished state, not an error.
	Goal             *domain.Goal
	CurrentEmissions float64
	Progress         Progress
}

// LoadGoals fetches the active goal and current emissions
// concurrently, all-or-nothing like the dashboard load.
func LoadGoals(ctx context.Context, backend goalReader, token string) (*GoalView, error) {
	view := &GoalView{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		goal, err := backend.ActiveGoal(gctx, token)
		if err != nil {
			return fmt.Errorf("load active goal: %w", err)
		}
		view.Goal = goal
		return nil
	})
	g.Go(func() error {
		stats, err := backend.DashboardStats(gctx, token)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		view.CurrentEmissions = stats.TotalCO2eKg
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if view.Goal != nil {
		view.Progress = GoalProgress(view.CurrentEmissions, view.Goal.TargetCO2e)
	}
	return view, nil
}
