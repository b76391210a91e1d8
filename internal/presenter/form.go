package presenter

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/nao1215/depobs/internal/model"
)

var (
	// ErrFormDisabled is returned when input is given to a disabled field group.
	ErrFormDisabled = errors.New("form is disabled")

	// ErrUnknownField is returned for a field that belongs to no group.
	ErrUnknownField = errors.New("unknown form field")
)

// FieldGroup is a set of form fields that are enabled or disabled together.
type FieldGroup struct {
	Name     string
	Fields   []string
	Disabled bool
}

// Form is the package report search form.
type Form struct {
	mu     sync.RWMutex
	groups []*FieldGroup
	values url.Values
}

// NewForm returns the package report form with its two field groups:
// the package name/version inputs and the rescan option.
func NewForm() *Form {
	return &Form{
		groups: []*FieldGroup{
			{Name: "package", Fields: []string{model.FieldPackageName, model.FieldPackageVersion}},
			{Name: "options", Fields: []string{model.FieldForceRescan}},
		},
		values: url.Values{},
	}
}

// Set stores a field value. Disabled groups reject input.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	g := f.groupOf(field)
	if g == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if g.Disabled {
		return fmt.Errorf("%w: cannot set %s", ErrFormDisabled, field)
	}
	f.values.Set(field, value)
	return nil
}

// Fill sets every field from values, stopping at the first error.
func (f *Form) Fill(values url.Values) error {
	for field := range values {
		if err := f.Set(field, values.Get(field)); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot captures the current values as submission fields.
func (f *Form) Snapshot() model.SubmissionFields {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cp := make(url.Values, len(f.values))
	for k, vs := range f.values {
		cp[k] = append([]string(nil), vs...)
	}
	return model.NewSubmissionFields(cp)
}

// Groups returns a copy of the field groups.
func (f *Form) Groups() []FieldGroup {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]FieldGroup, len(f.groups))
	for i, g := range f.groups {
		out[i] = FieldGroup{Name: g.Name, Fields: append([]string(nil), g.Fields...), Disabled: g.Disabled}
	}
	return out
}

// setDisabled toggles every field group.
func (f *Form) setDisabled(disabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, g := range f.groups {
		g.Disabled = disabled
	}
}

func (f *Form) groupOf(field string) *FieldGroup {
	for _, g := range f.groups {
		for _, name := range g.Fields {
			if name == field {
				return g
			}
		}
	}
	return nil
}
