// Package onboarding implements the guided first-run flow: a fixed
// sequence of questionnaire steps whose answers are synthesized into
// line items and funneled through the same assessment path as the
// manual form.
package onboarding

import (
	"context"
	"fmt"
	"sync"

	"github.com/mygreenscore/greenscore/internal/domain"
)

// Step is one screen of the guided flow.
type Step string

const (
	StepWelcome    Step = "welcome"
	StepTransport  Step = "transport"
	StepEnergy     Step = "energy"
	StepFood       Step = "food"
	StepLifestyle  Step = "lifestyle"
	StepProcessing Step = "processing"
)

// Steps is the fixed forward order of the flow.
var Steps = []Step{StepWelcome, StepTransport, StepEnergy, StepFood, StepLifestyle, StepProcessing}

// Profile captures the questionnaire answers. Every field has a fixed
// default so the flow can be completed without changing anything.
type Profile struct {
	CarType          string
	KmDriven         float64
	Flights          int
	HouseSize        string
	HouseholdMembers int
	EnergySource     string
	DietType         string
	ShoppingHabits   string
}

// DefaultProfile returns the pre-selected answers.
func DefaultProfile() Profile {
	return Profile{
		CarType:          "petrol",
		KmDriven:         10000,
		Flights:          1,
		HouseSize:        "medium",
		HouseholdMembers: 2,
		EnergySource:     "grid",
		DietType:         "average",
		ShoppingHabits:   "average",
	}
}

// houseKWH is the fixed annual electricity estimate by house size.
var houseKWH = map[string]float64{
	"small":  2000,
	"medium": 4000,
	"large":  6000,
}

// perFlightKM approximates one short-haul flight.
const perFlightKM = 1000

// SynthesizeItems converts a profile into assessable line items. The
// mapping is a deterministic, total function; items whose quantity
// comes out non-positive (a zero-flights answer, for example) are
// dropped before submission.
func SynthesizeItems(p Profile) []domain.LineItem {
	kwh, ok := houseKWH[p.HouseSize]
	if !ok {
		kwh = houseKWH["medium"]
	}

	candidates := []domain.LineItem{
		{ItemName: fmt.Sprintf("%s car driving", p.CarType), Quantity: p.KmDriven, Unit: domain.UnitKM},
		{ItemName: "Short haul flight", Quantity: float64(p.Flights) * perFlightKM, Unit: domain.UnitKM},
		{ItemName: fmt.Sprintf("%s electricity", p.EnergySource), Quantity: kwh, Unit: domain.UnitKWH},
		{ItemName: fmt.Sprintf("%s diet", p.DietType), Quantity: 365, Unit: domain.UnitDays},
		{ItemName: fmt.Sprintf("%s consumer lifestyle", p.ShoppingHabits), Quantity: 1, Unit: domain.UnitYear},
	}

	items := make([]domain.LineItem, 0, len(candidates))
	for _, item := range candidates {
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	return items
}

// completer is the subset of the backend client Finish requires.
type completer interface {
	Assess(ctx context.Context, token string, items []domain.LineItem) (*domain.AssessResponse, error)
	CompleteOnboarding(ctx context.Context, token string) error
}

// Flow is one user's traversal of the guided steps.
type Flow struct {
	mu      sync.Mutex
	step    Step
	profile Profile
	backend completer
}

// NewFlow starts a flow at the welcome step with default answers.
func NewFlow(backend completer) *Flow {
	return &Flow{
		step:    StepWelcome,
		profile: DefaultProfile(),
		backend: backend,
	}
}

// Step returns the current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Profile returns a copy of the current answers.
func (f *Flow) Profile() Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile
}

// SetProfile replaces the answers. Handlers call this after parsing a
// step's form fields.
func (f *Flow) SetProfile(p Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = p
}

// Next advances one step. It stops at lifestyle: processing is entered
// only through Finish.
func (f *Flow) Next() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range Steps {
		if s == f.step && i < len(Steps)-2 {
			f.step = Steps[i+1]
			return
		}
	}
}

// Back moves one step back. Welcome has nothing before it, and
// processing is one-way; both are no-ops.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepProcessing {
		return
	}
	for i, s := range Steps {
		if s == f.step && i > 0 {
			f.step = Steps[i-1]
			return
		}
	}
}

// Finish enters processing and runs the completion sequence: submit
// the synthesized items, then flip the backend onboarding flag. The
// flow is not done until both calls succeed; any failure snaps back
// to the lifestyle step (never to welcome) so the user can retry.
func (f *Flow) Finish(ctx context.Context, token string) error {
	f.mu.Lock()
	f.step = StepProcessing
	profile := f.profile
	f.mu.Unlock()

	items := SynthesizeItems(profile)

	fail := func(err error) error {
		f.mu.Lock()
		f.step = StepLifestyle
		f.mu.Unlock()
		return err
	}

	if _, err := f.backend.Assess(ctx, token, items); err != nil {
		return fail(fmt.Errorf("onboarding: baseline assessment: %w", err))
	}
	if err := f.backend.CompleteOnboarding(ctx, token); err != nil {
		return fail(fmt.Errorf("onboarding: completion flag: %w", err))
	}
	return nil
}
