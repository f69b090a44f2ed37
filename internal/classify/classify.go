// Package classify resolves the wrapper kind of a simple property.
//
// Resolution order: a rule for (property, owning variant), then a rule for
// the property name alone, then the generic string kind of the base kind.
package classify

import (
	"errors"
	"fmt"
	"sync"

	"oval-editor/internal/models"
)

// ErrInvalidRule is returned by Add for a rule the table cannot hold.
var ErrInvalidRule = errors.New("invalid classification rule")

// Rule maps a property, optionally restricted to owning variants, to a kind.
type Rule struct {
	Kind     models.BaseKind    `yaml:"kind" json:"kind"`
	Property string             `yaml:"property" json:"property"`
	Variants []string           `yaml:"variants,omitempty" json:"variants,omitempty"`
	Wrapper  models.WrapperKind `yaml:"wrapper" json:"wrapper"`
}

type nameKey struct {
	kind     models.BaseKind
	property string
}

type variantKey struct {
	nameKey
	variant string
}

// Table is safe for concurrent reads; Add takes a write lock.
type Table struct {
	mu        sync.RWMutex
	overrides map[variantKey]models.WrapperKind
	names     map[nameKey]models.WrapperKind
}

// New returns a table loaded with DefaultRules.
func New() *Table {
	t := &Table{
		overrides: map[variantKey]models.WrapperKind{},
		names:     map[nameKey]models.WrapperKind{},
	}
	for _, r := range DefaultRules() {
		if err := t.Add(r); err != nil {
			panic(err)
		}
	}
	return t
}

// Add inserts a rule. A later rule for the same key replaces the earlier one.
func (t *Table) Add(r Rule) error {
	if r.Kind != models.KindObject && r.Kind != models.KindState {
		return fmt.Errorf("%w: kind %q", ErrInvalidRule, r.Kind)
	}
	if r.Property == "" {
		return fmt.Errorf("%w: missing property", ErrInvalidRule)
	}
	info := r.Wrapper.Info()
	if !r.Wrapper.Known() || info.Role != r.Kind {
		return fmt.Errorf("%w: %s is not a %s wrapper", ErrInvalidRule, r.Wrapper, r.Kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	nk := nameKey{kind: r.Kind, property: r.Property}
	if len(r.Variants) == 0 {
		t.names[nk] = r.Wrapper
		return nil
	}
	for _, v := range r.Variants {
		t.overrides[variantKey{nameKey: nk, variant: v}] = r.Wrapper
	}
	return nil
}

// Classify always returns a kind.
func (t *Table) Classify(property, variant string, kind models.BaseKind) models.WrapperKind {
	t.mu.RLock()
	defer t.mu.RUnlock()

	nk := nameKey{kind: kind, property: property}
	if w, ok := t.overrides[variantKey{nameKey: nk, variant: variant}]; ok {
		return w
	}
	if w, ok := t.names[nk]; ok {
		return w
	}
	return Fallback(kind)
}

// Fallback is the wrapper kind of a property no rule names.
func Fallback(kind models.BaseKind) models.WrapperKind {
	if kind == models.KindState {
		return models.StateString
	}
	return models.ObjectString
}
