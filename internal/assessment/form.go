// Package assessment implements the footprint assessment workflow: an
// editable ordered list of line items, its validation and submission
// state machine, and the quick-add template catalog.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mygreenscore/greenscore/internal/domain"
)

// State names the form's position in its submission lifecycle.
// Submitting is entered only from Editing and only after validation
// passes; every attempt ends back in Editing.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
)

var (
	// ErrNoItems means no item had a non-empty name; the backend is
	// never called.
	ErrNoItems = errors.New("assessment: add at least one item")
	// ErrSubmissionInFlight means a submit attempt overlapped another.
	ErrSubmissionInFlight = errors.New("assessment: a submission is already in flight")
	// ErrStaleResponse means the form was reset or torn down while the
	// request was in flight; the response was discarded.
	ErrStaleResponse = errors.New("assessment: response discarded, form was reset")
	// ErrUnknownTemplate means the quick-add id is not in the catalog.
	ErrUnknownTemplate = errors.New("assessment: unknown template")
)

// QuantityError reports an item whose quantity did not parse as a
// positive number at submit time.
type QuantityError struct {
	ItemName string
	Raw      string
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("assessment: item %q has invalid quantity %q", e.ItemName, e.Raw)
}

// DraftItem is a line item as it exists while editing. Quantity stays
// a raw string so partially typed values survive re-renders; it is
// parsed only at submit time.
type DraftItem struct {
	Name     string
	Quantity string
	Unit     domain.Unit
}

func blankItem() DraftItem {
	return DraftItem{Quantity: "1", Unit: domain.UnitKilograms}
}

// Field names an editable DraftItem field for UpdateItem.
type Field string

const (
	FieldName     Field = "name"
	FieldQuantity Field = "quantity"
	FieldUnit     Field = "unit"
)

// assessor is the subset of the backend client the form requires.
type assessor interface {
	Assess(ctx context.Context, token string, items []domain.LineItem) (*domain.AssessResponse, error)
}

// Form is one assessment form instance. It guards itself with a mutex
// because handler goroutines for the same session may overlap; at most
// one submission is in flight at a time.
type Form struct {
	mu      sync.Mutex
	items   []DraftItem
	state   State
	epoch   uuid.UUID
	results *domain.AssessResponse

	catalog *Catalog
	backend assessor
}

// NewForm creates a form with a single blank item.
func NewForm(backend assessor, catalog *Catalog) *Form {
	return &Form{
		items:   []DraftItem{blankItem()},
		state:   StateEditing,
		epoch:   uuid.New(),
		catalog: catalog,
		backend: backend,
	}
}

// AddItem appends a blank item.
func (f *Form) AddItem() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, blankItem())
}

// AddTemplateItem appends a pre-filled item from the catalog. It never
// replaces existing items.
func (f *Form) AddTemplateItem(id string) error {
	tpl, ok := f.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, DraftItem{
		Name:     tpl.Name,
		Quantity: strconv.FormatFloat(tpl.Quantity, 'f', -1, 64),
		Unit:     tpl.Unit,
	})
	return nil
}

// UpdateItem replaces one field of the item at index. Out-of-bounds
// indexes are ignored; they can only come from a stale render.
func (f *Form) UpdateItem(index int, field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.items) {
		return
	}
	switch field {
	case FieldName:
		f.items[index].Name = value
	case FieldQuantity:
		f.items[index].Quantity = value
	case FieldUnit:
		if u := domain.Unit(value); domain.ValidUnit(u) {
			f.items[index].Unit = u
		}
	}
}

// RemoveItem removes the item at index. The list never becomes empty:
// removing the last remaining item is a no-op.
func (f *Form) RemoveItem(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) <= 1 || index < 0 || index >= len(f.items) {
		return
	}
	f.items = append(f.items[:index], f.items[index+1:]...)
}

// Items returns a copy of the draft list for rendering.
func (f *Form) Items() []DraftItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]DraftItem, len(f.items))
	copy(out, f.items)
	return out
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Results returns the last successful response, or nil.
func (f *Form) Results() *domain.AssessResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results
}

// Epoch identifies the current form generation. It changes on Reset so
// late responses from a previous generation can be recognized.
func (f *Form) Epoch() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

// Submit validates the draft list and sends it to the backend.
// Validation failures block the network call entirely. On success the
// results replace any prior set; on failure prior results are kept.
// The in-flight flag is cleared on every path.
func (f *Form) Submit(ctx context.Context, token string) (*domain.AssessResponse, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	valid, err := validateDrafts(f.items)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.state = StateSubmitting
	epoch := f.epoch
	f.mu.Unlock()

	resp, err := f.backend.Assess(ctx, token, valid)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateEditing
	if f.epoch != epoch {
		// The form was reset while the request was in flight.
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	f.results = resp
	return resp, nil
}

// Reset clears results and reinitializes the list to a single blank
// item, starting a new epoch.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = []DraftItem{blankItem()}
	f.results = nil
	f.epoch = uuid.New()
}

// validateDrafts filters to items with non-empty trimmed names and
// parses their quantities. An empty valid set fails with ErrNoItems;
// a non-positive or unparseable quantity on a named item fails with a
// QuantityError.
func validateDrafts(drafts []DraftItem) ([]domain.LineItem, error) {
	var items []domain.LineItem
	for _, d := range drafts {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(d.Quantity), 64)
		if err != nil || qty <= 0 {
			return nil, &QuantityError{ItemName: name, Raw: d.Quantity}
		}
		items = append(items, domain.LineItem{ItemName: name, Quantity: qty, Unit: d.Unit})
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}
