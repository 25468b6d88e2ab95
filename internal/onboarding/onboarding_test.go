package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygreenscore/greenscore/internal/domain"
)

type fakeBackend struct {
	assessCalls   int
	completeCalls int
	gotItems      []domain.LineItem
	assessErr     error
	completeErr   error
}

func (f *fakeBackend) Assess(_ context.Context, _ string, items []domain.LineItem) (*domain.AssessResponse, error) {
	f.assessCalls++
	f.gotItems = items
	if f.assessErr != nil {
		return nil, f.assessErr
	}
	return &domain.AssessResponse{}, nil
}

func (f *fakeBackend) CompleteOnboarding(context.Context, string) error {
	f.completeCalls++
	return f.completeErr
}

func TestSynthesizeItemsDefaultProfile(t *testing.T) {
	items := SynthesizeItems(Profile{
		CarType:        "petrol",
		KmDriven:       10000,
		Flights:        1,
		HouseSize:      "medium",
		EnergySource:   "grid",
		DietType:       "average",
		ShoppingHabits: "average",
	})

	require.Len(t, items, 5)
	assert.Contains(t, items, domain.LineItem{ItemName: "petrol car driving", Quantity: 10000, Unit: domain.UnitKM})
	assert.Contains(t, items, domain.LineItem{ItemName: "Short haul flight", Quantity: 1000, Unit: domain.UnitKM})
	assert.Contains(t, items, domain.LineItem{ItemName: "grid electricity", Quantity: 4000, Unit: domain.UnitKWH})
	assert.Contains(t, items, domain.LineItem{ItemName: "average diet", Quantity: 365, Unit: domain.UnitDays})
	assert.Contains(t, items, domain.LineItem{ItemName: "average consumer lifestyle", Quantity: 1, Unit: domain.UnitYear})
}

func TestSynthesizeItemsHouseSizeLookup(t *testing.T) {
	tests := []struct {
		size string
		want float64
	}{
		{"small", 2000},
		{"medium", 4000},
		{"large", 6000},
		{"castle", 4000}, // unknown sizes fall back to medium
	}
	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			p := DefaultProfile()
			p.HouseSize = tt.size
			items := SynthesizeItems(p)
			found := false
			for _, item := range items {
				if item.Unit == domain.UnitKWH {
					found = true
					assert.Equal(t, tt.want, item.Quantity)
				}
			}
			assert.True(t, found)
		})
	}
}

func TestSynthesizeItemsDropsNonPositiveQuantities(t *testing.T) {
	p := DefaultProfile()
	p.Flights = 0
	p.KmDriven = 0

	items := SynthesizeItems(p)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Positive(t, item.Quantity)
	}
}

func TestFlowTraversal(t *testing.T) {
	f := NewFlow(&fakeBackend{})

	assert.Equal(t, StepWelcome, f.Step())
	f.Back() // nothing before welcome
	assert.Equal(t, StepWelcome, f.Step())

	f.Next()
	assert.Equal(t, StepTransport, f.Step())
	f.Next()
	f.Next()
	f.Next()
	assert.Equal(t, StepLifestyle, f.Step())

	// Next never enters processing on its own; that is Finish's job.
	f.Next()
	assert.Equal(t, StepLifestyle, f.Step())

	f.Back()
	assert.Equal(t, StepFood, f.Step())
}

func TestFinishSuccess(t *testing.T) {
	fake := &fakeBackend{}
	f := NewFlow(fake)

	require.NoError(t, f.Finish(context.Background(), "tok"))
	assert.Equal(t, StepProcessing, f.Step())
	assert.Equal(t, 1, fake.assessCalls)
	assert.Equal(t, 1, fake.completeCalls)
	assert.Len(t, fake.gotItems, 5)
}

func TestFinishAssessFailureSnapsBackToLifestyle(t *testing.T) {
	fake := &fakeBackend{assessErr: errors.New("backend down")}
	f := NewFlow(fake)

	err := f.Finish(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, StepLifestyle, f.Step())
	assert.Equal(t, 0, fake.completeCalls, "the completion flag must not be set after a failed assessment")
}

func TestFinishCompletionFailureFailsWholeFlow(t *testing.T) {
	fake := &fakeBackend{completeErr: errors.New("flag write failed")}
	f := NewFlow(fake)

	err := f.Finish(context.Background(), "tok")
	require.Error(t, err)
	// The assessment itself succeeded, but onboarding is not done
	// until the flag call succeeds too.
	assert.Equal(t, 1, fake.assessCalls)
	assert.Equal(t, StepLifestyle, f.Step())
}

func TestFinishNeverFallsBackToWelcome(t *testing.T) {
	fake := &fakeBackend{assessErr: errors.New("x")}
	f := NewFlow(fake)

	_ = f.Finish(context.Background(), "tok")
	f.Back()
	f.Back()
	f.Back()
	f.Back()
	f.Back()
	assert.Equal(t, StepWelcome, f.Step(), "manual back-navigation still bottoms out at welcome")
}
