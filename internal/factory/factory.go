// Package factory creates and updates tests, objects, states and variables
// from the flat field records the editor submits.
package factory

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"oval-editor/internal/classify"
	"oval-editor/internal/component"
	"oval-editor/internal/models"
	"oval-editor/internal/registry"
	"oval-editor/internal/wrapper"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrKindMismatch   = errors.New("variant does not belong to kind")
	ErrMissingInput   = errors.New("missing input")
	ErrInvalidInput   = errors.New("invalid input")
)

type Factory struct {
	Registry *registry.Registry
	Table    *classify.Table
}

func New(reg *registry.Registry, table *classify.Table) *Factory {
	return &Factory{Registry: reg, Table: table}
}

// Create builds a new entity of variant from fields.
func (f *Factory) Create(variant string, fields Fields, kind models.BaseKind) (models.Entity, error) {
	v, err := f.variant(variant, kind)
	if err != nil {
		return nil, err
	}
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields for %s", ErrMissingInput, variant)
	}

	common := models.Common{Variant: v.Name, Family: v.Family, Version: 1, Deprecated: v.Deprecated}
	if err := setCommon(&common, fields); err != nil {
		return nil, err
	}

	switch kind {
	case models.KindTest:
		t := &models.Test{
			Common:         common,
			Check:          models.CheckAll,
			CheckExistence: models.ExistenceAtLeastOneExists,
			StateOperator:  models.OperatorAND,
		}
		if err := applyTest(t, fields, true); err != nil {
			return nil, err
		}
		return t, nil

	case models.KindObject:
		o := &models.Object{Common: common}
		if err := f.applyObject(o, v, fields, true); err != nil {
			return nil, err
		}
		return o, nil

	case models.KindState:
		s := &models.State{Common: common, Operator: models.OperatorAND}
		if err := f.applyState(s, v, fields, true); err != nil {
			return nil, err
		}
		return s, nil

	case models.KindVariable:
		if !fields.Has(keyDatatype) {
			return nil, fmt.Errorf("%w: variable %s needs a datatype", ErrMissingInput, variant)
		}
		vr := &models.Variable{Common: common}
		if err := applyVariable(vr, fields, true); err != nil {
			return nil, err
		}
		return vr, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKindMismatch, kind)
}

// Update merges fields into e. Wrapped properties are merged, not replaced.
func (f *Factory) Update(e models.Entity, fields Fields, kind models.BaseKind) error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrMissingInput)
	}
	if e.Kind() != kind {
		return fmt.Errorf("%w: %s is a %s, not a %s", ErrKindMismatch, e.Base().Variant, e.Kind(), kind)
	}
	if fields.IsEmpty() {
		return nil
	}
	v, err := f.variant(e.Base().Variant, kind)
	if err != nil {
		return err
	}

	// nothing is written until every input is known to be good
	if err := f.check(e, v, fields); err != nil {
		return err
	}
	if err := setCommon(e.Base(), fields); err != nil {
		return err
	}
	switch ent := e.(type) {
	case *models.Test:
		return applyTest(ent, fields, false)
	case *models.Object:
		return f.applyObject(ent, v, fields, false)
	case *models.State:
		return f.applyState(ent, v, fields, false)
	case *models.Variable:
		return applyVariable(ent, fields, false)
	}
	return fmt.Errorf("%w: %T", ErrKindMismatch, e)
}

// check rejects fields that would fail part way through an update.
func (f *Factory) check(e models.Entity, v *registry.Variant, fields Fields) error {
	if fields.Has(keyVersion) {
		if n, err := strconv.Atoi(fields.String(keyVersion)); err != nil || n < 1 {
			return fmt.Errorf("%w: version %q is not a positive integer", ErrInvalidInput, fields.String(keyVersion))
		}
	}

	switch ent := e.(type) {
	case *models.Test:
		return validateTest(fields)
	case *models.Object:
		if fields.Filter != nil && fields.Filter.StateID != "" {
			if _, err := filterAction(fields.Filter.Action); err != nil {
				return err
			}
		}
		return checkProperties(v, fields)
	case *models.State:
		if fields.Has(keyOperator) {
			if _, ok := models.ParseOperator(fields.String(keyOperator)); !ok {
				return fmt.Errorf("%w: operator %q", ErrInvalidInput, fields.String(keyOperator))
			}
		}
		return checkProperties(v, fields)
	case *models.Variable:
		if fields.Has(keyDatatype) {
			if _, ok := models.ParseDatatype(fields.String(keyDatatype)); !ok {
				return fmt.Errorf("%w: datatype %q", ErrInvalidInput, fields.String(keyDatatype))
			}
		}
		sub, ok := models.VariableKindFor(ent.Variant)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVariant, ent.Variant)
		}
		switch sub {
		case models.ExternalVariable:
			_, err := buildExternal(fields)
			return err
		case models.LocalVariable:
			if fields.Has(keyComponentType) {
				_, err := buildLocalComponent(fields)
				return err
			}
		}
	}
	return nil
}

func checkProperties(v *registry.Variant, fields Fields) error {
	for _, name := range sortedKeys(fields.Properties) {
		if !v.Supports(name) {
			continue
		}
		if err := wrapper.Check(fields.Properties[name]); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
	}
	return nil
}

func (f *Factory) variant(name string, kind models.BaseKind) (*registry.Variant, error) {
	v, ok := f.Registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	if v.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", ErrKindMismatch, name, v.Kind, kind)
	}
	return v, nil
}

func setCommon(c *models.Common, fields Fields) error {
	if fields.Has(keyVersion) {
		n, err := strconv.Atoi(fields.String(keyVersion))
		if err != nil || n < 1 {
			return fmt.Errorf("%w: version %q is not a positive integer", ErrInvalidInput, fields.String(keyVersion))
		}
		c.Version = n
	}
	if fields.Has(keyID) {
		c.ID = fields.String(keyID)
	}
	if fields.Has(keyComment) {
		c.Comment = fields.String(keyComment)
	}
	return nil
}

func validateTest(fields Fields) error {
	if fields.Has(keyCheck) {
		if _, ok := models.ParseCheck(fields.String(keyCheck)); !ok {
			return fmt.Errorf("%w: check %q", ErrInvalidInput, fields.String(keyCheck))
		}
	}
	if fields.Has(keyCheckExistence) {
		if _, ok := models.ParseExistence(fields.String(keyCheckExistence)); !ok {
			return fmt.Errorf("%w: check_existence %q", ErrInvalidInput, fields.String(keyCheckExistence))
		}
	}
	if fields.Has(keyStateOperator) {
		if _, ok := models.ParseOperator(fields.String(keyStateOperator)); !ok {
			return fmt.Errorf("%w: state_operator %q", ErrInvalidInput, fields.String(keyStateOperator))
		}
	}
	return nil
}

func applyTest(t *models.Test, fields Fields, creating bool) error {
	if err := validateTest(fields); err != nil {
		return err
	}
	if fields.Has(keyCheck) {
		t.Check, _ = models.ParseCheck(fields.String(keyCheck))
	}
	if fields.Has(keyCheckExistence) {
		t.CheckExistence, _ = models.ParseExistence(fields.String(keyCheckExistence))
	}
	if fields.Has(keyStateOperator) {
		t.StateOperator, _ = models.ParseOperator(fields.String(keyStateOperator))
	}

	if ref := fields.String(keyObjectRef); ref != "" || (!creating && fields.Has(keyObjectRef)) {
		t.ObjectRef = ref
	}
	if fields.Has(keyStateRef) {
		if ref := fields.String(keyStateRef); ref != "" {
			t.StateRefs = []string{ref}
		} else {
			t.StateRefs = nil
		}
	}
	return nil
}

func (f *Factory) applyObject(o *models.Object, v *registry.Variant, fields Fields, creating bool) error {
	if fields.Filter != nil {
		if err := applyFilter(o, fields.Filter, creating); err != nil {
			return err
		}
	}
	if fields.Behaviors != nil {
		applyBehaviors(o, v, fields.Behaviors)
	}
	return f.applyProperties(&o.Properties, v, fields, creating)
}

func applyBehaviors(o *models.Object, v *registry.Variant, attrs map[string]string) {
	if !v.Behaviors {
		slog.Debug("ignoring behaviors on variant without behaviors", "variant", v.Name)
		return
	}
	b := o.Behaviors
	if b == nil {
		b = models.NewBehaviors(models.BehaviorsShapeFor(v.Name))
	}
	for _, key := range sortedKeys(attrs) {
		value := attrs[key]
		if !b.Shape.Allows(key) {
			slog.Debug("ignoring unsupported behavior", "variant", v.Name, "behavior", key)
			continue
		}
		if value == "" {
			delete(b.Attrs, key)
			continue
		}
		b.Set(key, value)
	}
	// only materialize behaviors once at least one attribute is set
	if len(b.Attrs) == 0 {
		o.Behaviors = nil
		return
	}
	o.Behaviors = b
}

func applyFilter(o *models.Object, in *FilterInput, creating bool) error {
	if in.StateID == "" {
		if !creating {
			o.Filters = nil
		}
		return nil
	}
	action, err := filterAction(in.Action)
	if err != nil {
		return err
	}

	if creating || len(o.Filters) == 0 {
		o.Filters = append(o.Filters, models.Filter{Action: action, StateRef: in.StateID})
		return nil
	}
	o.Filters[0] = models.Filter{Action: action, StateRef: in.StateID}
	return nil
}

func filterAction(raw string) (models.FilterAction, error) {
	a := models.FilterAction(strings.ToLower(strings.TrimSpace(raw)))
	switch a {
	case "":
		return models.FilterInclude, nil
	case models.FilterInclude, models.FilterExclude:
		return a, nil
	}
	return "", fmt.Errorf("%w: filter action %q", ErrInvalidInput, raw)
}

func (f *Factory) applyState(s *models.State, v *registry.Variant, fields Fields, creating bool) error {
	if fields.Has(keyOperator) {
		op, ok := models.ParseOperator(fields.String(keyOperator))
		if !ok {
			return fmt.Errorf("%w: operator %q", ErrInvalidInput, fields.String(keyOperator))
		}
		s.Operator = op
	}
	return f.applyProperties(&s.Properties, v, fields, creating)
}

// applyProperties builds (on create) or merges (on update) every supported
// property in fields. Unsupported keys are skipped.
func (f *Factory) applyProperties(set *models.PropertySet, v *registry.Variant, fields Fields, creating bool) error {
	for _, name := range sortedKeys(fields.Properties) {
		in := fields.Properties[name]
		if !v.Supports(name) {
			slog.Debug("ignoring unsupported property", "variant", v.Name, "property", name)
			continue
		}
		kind := f.Table.Classify(name, v.Name, v.Kind)

		if creating {
			p, err := wrapper.Build(name, kind, in)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
			}
			if p != nil {
				set.Put(p, v.Rank)
			}
			continue
		}

		p, err := wrapper.Update(set.Get(name), name, kind, in)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
		if p == nil {
			set.Remove(name)
			continue
		}
		set.Put(p, v.Rank)
	}
	return nil
}

func applyVariable(vr *models.Variable, fields Fields, creating bool) error {
	if fields.Has(keyDatatype) {
		dt, ok := models.ParseDatatype(fields.String(keyDatatype))
		if !ok {
			return fmt.Errorf("%w: datatype %q", ErrInvalidInput, fields.String(keyDatatype))
		}
		vr.Datatype = dt
	}

	sub, ok := models.VariableKindFor(vr.Variant)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, vr.Variant)
	}

	switch sub {
	case models.ConstantVariable:
		body, _ := vr.Body.(*models.ConstantBody)
		if body == nil {
			body = &models.ConstantBody{}
		}
		if fields.Values != nil {
			body.Values = append([]string(nil), fields.Values...)
		}
		vr.Body = body

	case models.ExternalVariable:
		if !creating && fields.PossibleValues == nil && fields.PossibleRestrictions == nil {
			return nil
		}
		body, err := buildExternal(fields)
		if err != nil {
			return err
		}
		vr.Body = body

	case models.LocalVariable:
		if !creating && !fields.Has(keyComponentType) {
			return nil
		}
		c, err := buildLocalComponent(fields)
		if err != nil {
			return err
		}
		vr.Body = &models.LocalBody{Component: c}
	}
	return nil
}

// buildExternal always starts from empty lists: the editor submits the full set.
func buildExternal(fields Fields) (*models.ExternalBody, error) {
	body := &models.ExternalBody{}
	for _, pv := range fields.PossibleValues {
		body.PossibleValues = append(body.PossibleValues, models.PossibleValue{Hint: pv.Hint, Value: pv.Value})
	}
	for _, pr := range fields.PossibleRestrictions {
		op := models.OperatorAND
		if pr.Operator != "" {
			parsed, ok := models.ParseOperator(pr.Operator)
			if !ok {
				return nil, fmt.Errorf("%w: restriction operator %q", ErrInvalidInput, pr.Operator)
			}
			op = parsed
		}
		group := models.PossibleRestriction{Hint: pr.Hint, Operator: op}
		for _, r := range pr.Restrictions {
			group.Restrictions = append(group.Restrictions, models.Restriction{
				Operation: wrapper.NormalizeOperation(r.Operation),
				Value:     r.Value,
			})
		}
		body.PossibleRestrictions = append(body.PossibleRestrictions, group)
	}
	return body, nil
}

// buildLocalComponent returns the single component of a local variable. An
// absent component_type leaves the variable without one.
func buildLocalComponent(fields Fields) (models.Component, error) {
	switch t := strings.ToLower(fields.String(keyComponentType)); t {
	case "":
		return nil, nil
	case "literal":
		return &models.LiteralComponent{Value: fields.String(keyLiteralValue)}, nil
	case "variable":
		return &models.VariableComponent{VarRef: fields.String(keyVarRef)}, nil
	case "object":
		return &models.ObjectComponent{
			ObjectRef:   fields.String(keyObjectRef),
			ItemField:   fields.String(keyItemField),
			RecordField: fields.String(keyRecordField),
		}, nil
	case "function":
		fn, err := component.BuildFunction(functionInput(fields))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return &models.FunctionGroup{Function: fn}, nil
	default:
		return nil, fmt.Errorf("%w: component_type %q", ErrInvalidInput, t)
	}
}

func functionInput(fields Fields) component.FunctionInput {
	return component.FunctionInput{
		FunctionType:    fields.String("function_type"),
		ArithmeticOp:    fields.String("arithmetic_op"),
		Character:       fields.String("character"),
		Delimiter:       fields.String("delimiter"),
		Pattern:         fields.String("pattern"),
		GlobNoescape:    wrapper.Scalar(fields.String("glob_noescape")),
		SubstringStart:  wrapper.Scalar(fields.String("substring_start")),
		SubstringLength: wrapper.Scalar(fields.String("substring_length")),
		Format1:         fields.String("format_1"),
		Format2:         fields.String("format_2"),
		Components:      fields.Components,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
