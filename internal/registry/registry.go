package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"oval-editor/internal/classify"
	"oval-editor/internal/models"
)

var ErrInvalidVariant = errors.New("invalid variant")

// excludedProperties never become simple properties: they are attributes or
// complex elements of the entity itself.
var excludedProperties = map[string]bool{
	"set_":       true,
	"Signature":  true,
	"deprecated": true,
	"notes":      true,
	"operator":   true,
	"version":    true,
	"comment":    true,
	"behaviors":  true,
	"filter":     true,
	"id":         true,
}

type PropertySpec struct {
	Name     string          `json:"name" yaml:"name"`
	Datatype models.Datatype `json:"datatype" yaml:"datatype"`
}

// Variant is one concrete entity type, such as file_object.
type Variant struct {
	Name       string          `json:"name" yaml:"name"`
	Kind       models.BaseKind `json:"kind" yaml:"kind"`
	Family     models.Family   `json:"family" yaml:"family"`
	Properties []PropertySpec  `json:"properties,omitempty" yaml:"properties"`
	Behaviors  bool            `json:"behaviors,omitempty" yaml:"behaviors"`
	Deprecated bool            `json:"deprecated,omitempty" yaml:"deprecated"`
}

// Supports reports whether the variant has a simple property named prop.
func (v *Variant) Supports(prop string) bool {
	return v.Rank(prop) < len(v.Properties)
}

// Rank is the position of prop in schema order, or len(Properties) when absent.
func (v *Variant) Rank(prop string) int {
	for i, p := range v.Properties {
		if p.Name == prop {
			return i
		}
	}
	return len(v.Properties)
}

// TypeName strips the kind suffix: file_object -> file.
func (v *Variant) TypeName() string {
	return strings.TrimSuffix(v.Name, "_"+string(v.Kind))
}

// FriendlyName turns textfilecontent54_test into "Textfilecontent54 Test".
func (v *Variant) FriendlyName() string {
	words := strings.Split(v.Name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type Registry struct {
	variants map[string]*Variant
	order    []string
}

// New returns a registry holding the built-in variants.
func New() *Registry {
	r := &Registry{variants: map[string]*Variant{}}
	for _, pt := range platformTypes {
		r.add(&Variant{Name: pt.name + "_test", Kind: models.KindTest, Family: pt.family, Deprecated: pt.deprecated})
		if pt.testOnly {
			continue
		}
		r.add(&Variant{
			Name:       pt.name + "_object",
			Kind:       models.KindObject,
			Family:     pt.family,
			Properties: specs(pt.object),
			Behaviors:  pt.behaviors,
			Deprecated: pt.deprecated,
		})
		if pt.noState {
			continue
		}
		r.add(&Variant{
			Name:       pt.name + "_state",
			Kind:       models.KindState,
			Family:     pt.family,
			Properties: specs(pt.state),
			Deprecated: pt.deprecated,
		})
	}
	for _, name := range coreVariables {
		r.add(&Variant{Name: name, Kind: models.KindVariable, Family: models.FamilyCore})
	}
	return r
}

func specs(list string) []PropertySpec {
	names := strings.Fields(list)
	out := make([]PropertySpec, 0, len(names))
	for _, n := range names {
		out = append(out, PropertySpec{Name: n, Datatype: DefaultDatatype(n)})
	}
	return out
}

func (r *Registry) add(v *Variant) {
	if _, ok := r.variants[v.Name]; !ok {
		r.order = append(r.order, v.Name)
	}
	r.variants[v.Name] = v
}

// DefaultDatatype is the datatype offered for a property when none is chosen.
func DefaultDatatype(prop string) models.Datatype {
	if dt, ok := defaultDatatypes[models.ElementName(prop)]; ok {
		return dt
	}
	return models.DatatypeString
}

// Register adds or replaces a variant. Excluded property names are dropped.
func (r *Registry) Register(v Variant) error {
	if v.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidVariant)
	}
	if _, ok := models.ParseBaseKind(string(v.Kind)); !ok {
		return fmt.Errorf("%w: %s has kind %q", ErrInvalidVariant, v.Name, v.Kind)
	}
	if _, ok := models.ParseFamily(string(v.Family)); !ok {
		return fmt.Errorf("%w: %s has family %q", ErrInvalidVariant, v.Name, v.Family)
	}
	if (v.Kind == models.KindVariable) != (v.Family == models.FamilyCore) {
		return fmt.Errorf("%w: %s: only variables belong to the core family", ErrInvalidVariant, v.Name)
	}
	if v.Kind == models.KindVariable {
		if _, ok := models.VariableKindFor(v.Name); !ok {
			return fmt.Errorf("%w: %s is not a constant, external or local variable", ErrInvalidVariant, v.Name)
		}
	}

	props := make([]PropertySpec, 0, len(v.Properties))
	for _, p := range v.Properties {
		if p.Name == "" || excludedProperties[p.Name] {
			continue
		}
		if p.Datatype == "" {
			p.Datatype = DefaultDatatype(p.Name)
		}
		props = append(props, p)
	}
	v.Properties = props
	r.add(&v)
	return nil
}

func (r *Registry) Lookup(name string) (*Variant, bool) {
	v, ok := r.variants[name]
	return v, ok
}

// Variants returns every variant of kind, deprecated ones included, in
// registration order.
func (r *Registry) Variants(kind models.BaseKind) []*Variant {
	var out []*Variant
	for _, name := range r.order {
		if v := r.variants[name]; v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// Available lists the non-deprecated variants of kind per family, sorted by name.
func (r *Registry) Available(kind models.BaseKind) map[models.Family][]*Variant {
	out := map[models.Family][]*Variant{}
	for _, v := range r.Variants(kind) {
		if v.Deprecated {
			continue
		}
		out[v.Family] = append(out[v.Family], v)
	}
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return out
}

// Counterpart maps a test variant to the object or state variant it checks:
// file_test -> file_object.
func (r *Registry) Counterpart(testVariant string, kind models.BaseKind) (*Variant, bool) {
	if !strings.HasSuffix(testVariant, "_test") {
		return nil, false
	}
	v, ok := r.variants[strings.TrimSuffix(testVariant, "_test")+"_"+string(kind)]
	if !ok || v.Kind != kind {
		return nil, false
	}
	return v, true
}

// Extensions is the optional YAML file that adds variants and classification
// rules without rebuilding.
type Extensions struct {
	Variants       []Variant       `yaml:"variants"`
	Classification []classify.Rule `yaml:"classification"`
}

func LoadExtensions(path string) (*Extensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ext Extensions
	if err := yaml.NewDecoder(f).Decode(&ext); err != nil {
		return nil, fmt.Errorf("decode extensions: %w", err)
	}
	return &ext, nil
}

// Apply registers the extension variants and classification rules.
func (e *Extensions) Apply(r *Registry, t *classify.Table) error {
	for _, v := range e.Variants {
		if err := r.Register(v); err != nil {
			return err
		}
	}
	for _, rule := range e.Classification {
		if err := t.Add(rule); err != nil {
			return err
		}
	}
	return nil
}

// MatchingIDs lists, in document order, the ids of entities of kind that a
// test of testVariant can reference.
func (r *Registry) MatchingIDs(doc *models.Document, testVariant string, kind models.BaseKind) []string {
	want, ok := r.Counterpart(testVariant, kind)
	if !ok {
		return nil
	}
	var ids []string
	for _, e := range doc.Entities(kind) {
		if e.Base().Variant == want.Name {
			ids = append(ids, e.Base().ID)
		}
	}
	return ids
}
