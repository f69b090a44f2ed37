package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

type Generator struct {
	ProductName    string    `json:"product_name"`
	ProductVersion string    `json:"product_version"`
	SchemaVersion  string    `json:"schema_version"`
	Timestamp      time.Time `json:"timestamp"`
}

// Document owns the ordered containers of one OVAL definitions document.
// It is not safe for concurrent use.
type Document struct {
	Generator   Generator     `json:"generator"`
	Definitions []*Definition `json:"definitions"`
	Tests       []*Test       `json:"tests"`
	Objects     []*Object     `json:"objects"`
	States      []*State      `json:"states"`
	Variables   []*Variable   `json:"variables"`
}

func NewDocument(gen Generator) *Document {
	return &Document{Generator: gen}
}

func indexOf[T Entity](list []T, id string) int {
	for i, e := range list {
		if e.Base().ID == id {
			return i
		}
	}
	return -1
}

// Add appends the entity to its container. Ids are unique per kind.
func (d *Document) Add(e Entity) error {
	id := e.Base().ID
	if _, ok := d.Lookup(e.Kind(), id); ok {
		return fmt.Errorf("%w: %s %s", ErrDuplicateID, e.Kind(), id)
	}
	switch v := e.(type) {
	case *Test:
		d.Tests = append(d.Tests, v)
	case *Object:
		d.Objects = append(d.Objects, v)
	case *State:
		d.States = append(d.States, v)
	case *Variable:
		d.Variables = append(d.Variables, v)
	default:
		return fmt.Errorf("unsupported entity %T", e)
	}
	return nil
}

func (d *Document) Remove(kind BaseKind, id string) error {
	removed := false
	switch kind {
	case KindTest:
		d.Tests, removed = removeAt(d.Tests, indexOf(d.Tests, id))
	case KindObject:
		d.Objects, removed = removeAt(d.Objects, indexOf(d.Objects, id))
	case KindState:
		d.States, removed = removeAt(d.States, indexOf(d.States, id))
	case KindVariable:
		d.Variables, removed = removeAt(d.Variables, indexOf(d.Variables, id))
	}
	if !removed {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

func removeAt[T any](list []T, i int) ([]T, bool) {
	if i < 0 {
		return list, false
	}
	return append(list[:i], list[i+1:]...), true
}

// Lookup scans the container of kind for id.
func (d *Document) Lookup(kind BaseKind, id string) (Entity, bool) {
	switch kind {
	case KindTest:
		if i := indexOf(d.Tests, id); i >= 0 {
			return d.Tests[i], true
		}
	case KindObject:
		if i := indexOf(d.Objects, id); i >= 0 {
			return d.Objects[i], true
		}
	case KindState:
		if i := indexOf(d.States, id); i >= 0 {
			return d.States[i], true
		}
	case KindVariable:
		if i := indexOf(d.Variables, id); i >= 0 {
			return d.Variables[i], true
		}
	}
	return nil, false
}

// Entities returns the container of kind in insertion order.
func (d *Document) Entities(kind BaseKind) []Entity {
	var out []Entity
	switch kind {
	case KindTest:
		for _, e := range d.Tests {
			out = append(out, e)
		}
	case KindObject:
		for _, e := range d.Objects {
			out = append(out, e)
		}
	case KindState:
		for _, e := range d.States {
			out = append(out, e)
		}
	case KindVariable:
		for _, e := range d.Variables {
			out = append(out, e)
		}
	}
	return out
}

func (d *Document) AddDefinition(def *Definition) error {
	if _, ok := d.Definition(def.ID); ok {
		return fmt.Errorf("%w: definition %s", ErrDuplicateID, def.ID)
	}
	d.Definitions = append(d.Definitions, def)
	return nil
}

func (d *Document) Definition(id string) (*Definition, bool) {
	for _, def := range d.Definitions {
		if def.ID == id {
			return def, true
		}
	}
	return nil, false
}

func (d *Document) RemoveDefinition(id string) error {
	for i, def := range d.Definitions {
		if def.ID == id {
			d.Definitions = append(d.Definitions[:i], d.Definitions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: definition %s", ErrNotFound, id)
}

// Index is a point-in-time id lookup over a document.
type Index struct {
	Definitions map[string]*Definition
	Entities    map[BaseKind]map[string]Entity
}

func (d *Document) Index() Index {
	idx := Index{
		Definitions: make(map[string]*Definition, len(d.Definitions)),
		Entities:    make(map[BaseKind]map[string]Entity, len(BaseKinds)),
	}
	for _, def := range d.Definitions {
		idx.Definitions[def.ID] = def
	}
	for _, kind := range BaseKinds {
		m := map[string]Entity{}
		for _, e := range d.Entities(kind) {
			m[e.Base().ID] = e
		}
		idx.Entities[kind] = m
	}
	return idx
}

func (idx Index) Has(kind BaseKind, id string) bool {
	_, ok := idx.Entities[kind][id]
	return ok
}

// NextID returns oval:<prefix>:<tag>:<n> with n one past the highest numeric
// suffix already used for that tag. tag is "def" or a BaseKind.IDTag().
func (d *Document) NextID(prefix, tag string) string {
	var ids []string
	if tag == "def" {
		for _, def := range d.Definitions {
			ids = append(ids, def.ID)
		}
	} else {
		for _, kind := range BaseKinds {
			if kind.IDTag() != tag {
				continue
			}
			for _, e := range d.Entities(kind) {
				ids = append(ids, e.Base().ID)
			}
		}
	}

	head := fmt.Sprintf("oval:%s:%s:", prefix, tag)
	next := 1
	for _, id := range ids {
		if !strings.HasPrefix(id, head) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(id, head)); err == nil && n >= next {
			next = n + 1
		}
	}
	return head + strconv.Itoa(next)
}
