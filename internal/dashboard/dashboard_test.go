package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygreenscore/greenscore/internal/domain"
)

type fakeReader struct {
	stats     *domain.DashboardStats
	statsErr  error
	trends    *domain.TrendsResponse
	trendsErr error
	quote     *domain.DailyQuote
	quoteErr  error
	goal      *domain.Goal
	goalErr   error
}

func (f *fakeReader) DashboardStats(context.Context, string) (*domain.DashboardStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeReader) Trends(context.Context, string, int) (*domain.TrendsResponse, error) {
	return f.trends, f.trendsErr
}

func (f *fakeReader) DailyQuote(context.Context, string) (*domain.DailyQuote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeReader) ActiveGoal(context.Context, string) (*domain.Goal, error) {
	return f.goal, f.goalErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadHappyPath(t *testing.T) {
	fake := &fakeReader{
		stats:  &domain.DashboardStats{TotalCO2eKg: 350, ByCategory: map[string]float64{"transport": 300}},
		trends: &domain.TrendsResponse{Trends: []domain.TrendPoint{{Date: "2026-08-28", CO2eKg: 12}}},
		quote:  &domain.DailyQuote{Quote: "q", Author: "a", Tip: "t"},
	}

	view, err := Load(context.Background(), fake, "tok", discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 350.0, view.Stats.TotalCO2eKg)
	require.Len(t, view.Trends, 1)
	assert.Equal(t, "q", view.Quote.Quote)
}

func TestLoadTrendsFailureFailsWholeLoad(t *testing.T) {
	fake := &fakeReader{
		stats:     &domain.DashboardStats{TotalCO2eKg: 350},
		trendsErr: errors.New("trends down"),
		quote:     &domain.DailyQuote{},
	}

	view, err := Load(context.Background(), fake, "tok", discardLogger())
	require.Error(t, err)
	assert.Nil(t, view, "no partial stats may be rendered")
}

func TestLoadStatsFailureFailsWholeLoad(t *testing.T) {
	fake := &fakeReader{
		statsErr: errors.New("stats down"),
		trends:   &domain.TrendsResponse{},
		quote:    &domain.DailyQuote{},
	}

	view, err := Load(context.Background(), fake, "tok", discardLogger())
	require.Error(t, err)
	assert.Nil(t, view)
}

func TestLoadQuoteFailureUsesFallback(t *testing.T) {
	fake := &fakeReader{
		stats:    &domain.DashboardStats{},
		trends:   &domain.TrendsResponse{},
		quoteErr: errors.New("quotes down"),
	}

	view, err := Load(context.Background(), fake, "tok", discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "Robert Swan", view.Quote.Author)
	assert.NotEmpty(t, view.Quote.Tip)
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name        string
		current     float64
		target      float64
		wantPercent float64
		wantOnTrack bool
	}{
		{"over target clamps to 100", 150, 100, 100, false},
		{"under target", 50, 100, 50, true},
		{"exactly on target", 100, 100, 100, true},
		{"zero emissions", 0, 100, 0, true},
		{"non-positive target", 10, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GoalProgress(tt.current, tt.target)
			assert.InDelta(t, tt.wantPercent, p.Percent, 1e-9)
			assert.Equal(t, tt.wantOnTrack, p.OnTrack)
		})
	}
}

func TestLoadGoalsWithActiveGoal(t *testing.T) {
	fake := &fakeReader{
		goal:  &domain.Goal{ID: 1, TargetCO2e: 100, Period: domain.PeriodMonthly},
		stats: &domain.DashboardStats{TotalCO2eKg: 150},
	}

	view, err := LoadGoals(context.Background(), fake, "tok")
	require.NoError(t, err)
	require.NotNil(t, view.Goal)
	assert.Equal(t, 150.0, view.CurrentEmissions)
	assert.Equal(t, 100.0, view.Progress.Percent)
	assert.False(t, view.Progress.OnTrack)
}

func TestLoadGoalsNoActiveGoal(t *testing.T) {
	fake := &fakeReader{
		goal:  nil,
		stats: &domain.DashboardStats{TotalCO2eKg: 20},
	}

	view, err := LoadGoals(context.Background(), fake, "tok")
	require.NoError(t, err)
	assert.Nil(t, view.Goal)
	assert.Zero(t, view.Progress.Percent)
}

func TestLoadGoalsPartialFailureFailsWholeLoad(t *testing.T) {
	fake := &fakeReader{
		goal:     &domain.Goal{TargetCO2e: 100},
		statsErr: errors.New("stats down"),
	}

	view, err := LoadGoals(context.Background(), fake, "tok")
	require.Error(t, err)
	assert.Nil(t, view)
}
