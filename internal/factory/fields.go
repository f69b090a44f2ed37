package factory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"oval-editor/internal/component"
	"oval-editor/internal/wrapper"
)

// Field keys with a fixed meaning. Every other object-valued key is a
// simple property.
const (
	keyID                  = "id"
	keyVersion             = "version"
	keyComment             = "comment"
	keyCheck               = "check"
	keyCheckExistence      = "check_existence"
	keyStateOperator       = "state_operator"
	keyObjectRef           = "object_ref"
	keyStateRef            = "state_ref"
	keyOperator            = "operator"
	keyDatatype            = "datatype"
	keyBehaviors           = "behaviors"
	keyFilter              = "filter"
	keyValue               = "value"
	keyPossibleValue       = "possible_value"
	keyPossibleRestriction = "possible_restriction"
	keyComponentType       = "component_type"
	keyLiteralValue        = "literal_value"
	keyVarRef              = "var_ref"
	keyItemField           = "item_field"
	keyRecordField         = "record_field"
	keyComponentsData      = "components_data"
	keyClass               = "class"
	keyTitle               = "title"
	keyDescription         = "description"
	keyDeprecated          = "deprecated"
)

type FilterInput struct {
	Action  string `json:"action"`
	StateID string `json:"state_id"`
}

type PossibleValueInput struct {
	Hint  string `json:"hint"`
	Value string `json:"value"`
}

type RestrictionInput struct {
	Operation string `json:"operation"`
	Value     string `json:"value"`
}

type PossibleRestrictionInput struct {
	Hint         string             `json:"hint"`
	Operator     string             `json:"operator"`
	Restrictions []RestrictionInput `json:"restrictions"`
}

// Fields is the keyed record the editor submits for one entity. A nil map
// or slice means the key was not given.
type Fields struct {
	Scalars              map[string]string
	Properties           map[string]*wrapper.Input
	Behaviors            map[string]string
	Filter               *FilterInput
	Values               []string
	PossibleValues       []PossibleValueInput
	PossibleRestrictions []PossibleRestrictionInput
	Components           []component.Input
}

func (f Fields) IsEmpty() bool {
	return len(f.Scalars) == 0 && len(f.Properties) == 0 && f.Behaviors == nil && f.Filter == nil &&
		f.Values == nil && f.PossibleValues == nil && f.PossibleRestrictions == nil && f.Components == nil
}

func (f Fields) Has(key string) bool {
	_, ok := f.Scalars[key]
	return ok
}

// String returns the scalar for key, or "" when absent.
func (f Fields) String(key string) string {
	return f.Scalars[key]
}

// UnmarshalJSON reads the flat form used on the wire:
//
//	{"id": "oval:x:obj:1", "path": {"value": "/etc"}, "behaviors": {...}}
func (f *Fields) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = Fields{}

	for key, msg := range raw {
		msg = bytes.TrimSpace(msg)
		var err error
		switch {
		case key == keyBehaviors:
			var attrs map[string]wrapper.Scalar
			if err = json.Unmarshal(msg, &attrs); err == nil {
				f.Behaviors = make(map[string]string, len(attrs))
				for k, v := range attrs {
					f.Behaviors[k] = string(v)
				}
			}
		case key == keyFilter:
			err = json.Unmarshal(msg, &f.Filter)
		case key == keyPossibleValue:
			f.PossibleValues = []PossibleValueInput{}
			err = json.Unmarshal(msg, &f.PossibleValues)
		case key == keyPossibleRestriction:
			f.PossibleRestrictions = []PossibleRestrictionInput{}
			err = json.Unmarshal(msg, &f.PossibleRestrictions)
		case key == keyComponentsData:
			f.Components = []component.Input{}
			err = json.Unmarshal(msg, &f.Components)
		case key == keyValue && len(msg) > 0 && msg[0] == '[':
			f.Values = []string{}
			err = json.Unmarshal(msg, &f.Values)
		case len(msg) > 0 && msg[0] == '{':
			var in wrapper.Input
			if err = json.Unmarshal(msg, &in); err == nil {
				if f.Properties == nil {
					f.Properties = map[string]*wrapper.Input{}
				}
				f.Properties[key] = &in
			}
		case len(msg) > 0 && msg[0] == '[':
			// no other list-valued keys exist
		default:
			var s wrapper.Scalar
			if err = json.Unmarshal(msg, &s); err == nil {
				if f.Scalars == nil {
					f.Scalars = map[string]string{}
				}
				f.Scalars[key] = strings.TrimSpace(string(s))
			}
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}
