package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mygreenscore/greenscore/internal/assessment"
	"github.com/mygreenscore/greenscore/internal/domain"
	"github.com/mygreenscore/greenscore/internal/store"
)

func (s *Server) handleAssessPage(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	form := s.formFor(sess)
	data := map[string]any{
		"ActiveNav":  "assess",
		"Items":      form.Items(),
		"Submitting": form.State() == assessment.StateSubmitting,
		"Results":    form.Results(),
		"Units":      domain.Units,
		"Catalog":    s.catalog,
	}
	if err := s.renderPage(w, r, data, "base.html", "pages/assess.html"); err != nil {
		s.logger.Error("render assess", "error", err)
	}
}

// syncFormItems copies the posted item rows into the session form so
// edits made in the browser survive add, remove and submit round
// trips. Rows the post does not cover are left alone.
func syncFormItems(r *http.Request, form *assessment.Form) {
	names := r.Form["item_name"]
	quantities := r.Form["quantity"]
	units := r.Form["unit"]
	for i, name := range names {
		form.UpdateItem(i, assessment.FieldName, name)
		if i < len(quantities) {
			form.UpdateItem(i, assessment.FieldQuantity, quantities[i])
		}
		if i < len(units) {
			form.UpdateItem(i, assessment.FieldUnit, units[i])
		}
	}
}

func (s *Server) handleAssessAddItem(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	form := s.formFor(sess)
	r.ParseForm()
	syncFormItems(r, form)
	form.AddItem()
	http.Redirect(w, r, "/assess", http.StatusSeeOther)
}

func (s *Server) handleAssessAddTemplate(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	form := s.formFor(sess)
	r.ParseForm()
	syncFormItems(r, form)
	if err := form.AddTemplateItem(r.PostFormValue("template")); err != nil {
		redirectWithError(w, r, "/assess", "That catalog entry is not available")
		return
	}
	http.Redirect(w, r, "/assess", http.StatusSeeOther)
}

func (s *Server) handleAssessRemoveItem(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	form := s.formFor(sess)
	r.ParseForm()
	syncFormItems(r, form)
	if idx, err := strconv.Atoi(r.PathValue("index")); err == nil {
		form.RemoveItem(idx)
	}
	http.Redirect(w, r, "/assess", http.StatusSeeOther)
}

func (s *Server) handleAssessSubmit(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	form := s.formFor(sess)
	r.ParseForm()
	syncFormItems(r, form)

	_, err := form.Submit(r.Context(), sess.BearerToken)
	switch {
	case err == nil:
		http.Redirect(w, r, "/assess", http.StatusSeeOther)
	case errors.Is(err, assessment.ErrNoItems):
		redirectWithError(w, r, "/assess", "Add at least one item with a name before calculating")
	case errors.Is(err, assessment.ErrSubmissionInFlight):
		redirectWithError(w, r, "/assess", "A calculation is already running")
	case errors.Is(err, assessment.ErrStaleResponse):
		http.Redirect(w, r, "/assess", http.StatusSeeOther)
	default:
		var qerr *assessment.QuantityError
		if errors.As(err, &qerr) {
			redirectWithError(w, r, "/assess",
				fmt.Sprintf("%q needs a quantity greater than zero", qerr.ItemName))
			return
		}
		s.logger.Error("assessment failed", "error", err)
		redirectWithError(w, r, "/assess", "Failed to assess items. Please try again.")
	}
}

func (s *Server) handleAssessReset(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	s.formFor(sess).Reset()
	http.Redirect(w, r, "/assess", http.StatusSeeOther)
}
