package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mygreenscore/greenscore/internal/onboarding"
	"github.com/mygreenscore/greenscore/internal/store"
)

var (
	carTypes        = []string{"petrol", "diesel", "hybrid", "electric", "none"}
	houseSizes      = []string{"small", "medium", "large"}
	energySources   = []string{"grid", "green", "gas", "solar"}
	dietTypes       = []string{"meat-heavy", "average", "vegetarian", "vegan"}
	shoppingHabits  = []string{"minimalist", "average", "frequent"}
	onboardingSteps = map[onboarding.Step]int{
		onboarding.StepTransport: 1,
		onboarding.StepEnergy:    2,
		onboarding.StepFood:      3,
		onboarding.StepLifestyle: 4,
	}
)

func (s *Server) handleOnboardingPage(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	flow := s.flowFor(sess)
	step := flow.Step()

	progress := 0
	if n, ok := onboardingSteps[step]; ok {
		progress = n * 100 / len(onboardingSteps)
	}

	data := map[string]any{
		"ActiveNav":      "onboarding",
		"Step":           string(step),
		"Profile":        flow.Profile(),
		"ProgressPct":    progress,
		"CarTypes":       carTypes,
		"HouseSizes":     houseSizes,
		"EnergySources":  energySources,
		"DietTypes":      dietTypes,
		"ShoppingHabits": shoppingHabits,
	}
	if err := s.renderPage(w, r, data, "base.html", "pages/onboarding.html"); err != nil {
		s.logger.Error("render onboarding", "error", err)
	}
}

// applyProfileForm folds whichever answer fields this post carries
// into the profile. Fields the current step does not show are absent
// from the post and keep their existing values.
func applyProfileForm(r *http.Request, p onboarding.Profile) onboarding.Profile {
	if v := r.PostFormValue("car_type"); v != "" {
		p.CarType = v
	}
	if v := r.PostFormValue("km_driven"); v != "" {
		if km, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && km >= 0 {
			p.KmDriven = km
		}
	}
	if v := r.PostFormValue("flights"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			p.Flights = n
		}
	}
	if v := r.PostFormValue("house_size"); v != "" {
		p.HouseSize = v
	}
	if v := r.PostFormValue("household_members"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			p.HouseholdMembers = n
		}
	}
	if v := r.PostFormValue("energy_source"); v != "" {
		p.EnergySource = v
	}
	if v := r.PostFormValue("diet_type"); v != "" {
		p.DietType = v
	}
	if v := r.PostFormValue("shopping_habits"); v != "" {
		p.ShoppingHabits = v
	}
	return p
}

func (s *Server) handleOnboardingNext(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	flow := s.flowFor(sess)
	flow.SetProfile(applyProfileForm(r, flow.Profile()))
	flow.Next()
	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (s *Server) handleOnboardingBack(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	flow := s.flowFor(sess)
	flow.SetProfile(applyProfileForm(r, flow.Profile()))
	flow.Back()
	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (s *Server) handleOnboardingFinish(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	flow := s.flowFor(sess)
	flow.SetProfile(applyProfileForm(r, flow.Profile()))

	if err := flow.Finish(r.Context(), sess.BearerToken); err != nil {
		s.logger.Error("onboarding finish failed", "error", err)
		redirectWithError(w, r, "/onboarding", "We could not create your profile. Please try again.")
		return
	}
	redirectWithNotice(w, r, "/dashboard", "Your baseline footprint is ready")
}
