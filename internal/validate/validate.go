package validate

import (
	"slices"
	"strconv"
	"strings"

	"oval-editor/internal/component"
	"oval-editor/internal/criteria"
	"oval-editor/internal/models"
	"oval-editor/internal/registry"
)

var (
	recurseValues          = []string{"directories", "symlinks", "symlinks and directories"}
	recurseDirectionValues = []string{"none", "up", "down"}
	recurseFSValues        = []string{"all", "local", "defined"}
	windowsViewValues      = []string{"32_bit", "64_bit"}
	arithmeticOperations   = []string{"add", "multiply"}
	booleanValues          = []string{"true", "false"}
)

// Validator checks documents against the registry they were built with.
type Validator struct {
	Registry *registry.Registry
}

func New(reg *registry.Registry) *Validator {
	return &Validator{Registry: reg}
}

type checker struct {
	reg    *registry.Registry
	idx    models.Index
	report Report
}

func (c *checker) add(i Issue) {
	c.report = append(c.report, i)
}

// Document returns every issue found in doc. An empty report means the
// document is consistent.
func (v *Validator) Document(doc *models.Document) Report {
	c := &checker{reg: v.Registry, idx: doc.Index()}

	c.duplicates(doc)
	for _, def := range doc.Definitions {
		c.definition(def)
	}
	for _, t := range doc.Tests {
		c.test(t)
	}
	for _, o := range doc.Objects {
		c.object(o)
	}
	for _, s := range doc.States {
		c.state(s)
	}
	for _, vr := range doc.Variables {
		c.variable(vr)
	}
	return c.report
}

func entityPath(kind models.BaseKind, id string) string {
	return string(kind) + "s/" + id
}

func (c *checker) duplicates(doc *models.Document) {
	seen := map[string]bool{}
	for _, def := range doc.Definitions {
		if seen[def.ID] {
			c.add(errorf(CodeDuplicateID, "definitions/"+def.ID, "definition id %s is used more than once", def.ID))
		}
		seen[def.ID] = true
	}
	for _, kind := range models.BaseKinds {
		seen := map[string]bool{}
		for _, e := range doc.Entities(kind) {
			id := e.Base().ID
			if seen[id] {
				c.add(errorf(CodeDuplicateID, entityPath(kind, id), "%s id %s is used more than once", kind, id))
			}
			seen[id] = true
		}
	}
}

func (c *checker) reference(kind models.BaseKind, id, path string) bool {
	if c.idx.Has(kind, id) {
		return true
	}
	c.add(Issue{
		Code:     CodeInvalidReference,
		Severity: SeverityError,
		Message:  "reference does not resolve to a " + string(kind),
		Path:     path,
		Actual:   id,
	})
	return false
}

func (c *checker) definition(def *models.Definition) {
	path := "definitions/" + def.ID
	if def.Criteria == nil || len(def.Criteria.Children) == 0 {
		c.add(warnf(CodeEmptyCriteria, path+"/criteria", "definition has no criteria"))
		return
	}
	tree := criteria.NewTree(def.Criteria)
	for v := range tree.Walk() {
		nodePath := path + "/criteria/" + v.Path.String()
		switch n := v.Node.(type) {
		case *models.Criteria:
			if n != tree.Root && len(n.Children) == 0 {
				c.add(warnf(CodeEmptyCriteria, nodePath, "criteria has no children"))
			}
		case *models.Criterion:
			if n.TestRef == "" {
				c.add(errorf(CodeMissingReference, nodePath, "criterion has no test_ref"))
				continue
			}
			c.reference(models.KindTest, n.TestRef, nodePath)
		case *models.ExtendDefinition:
			switch {
			case n.DefinitionRef == "":
				c.add(errorf(CodeMissingReference, nodePath, "extend_definition has no definition_ref"))
			case n.DefinitionRef == def.ID:
				c.add(errorf(CodeInvalidReference, nodePath, "definition extends itself"))
			case c.idx.Definitions[n.DefinitionRef] == nil:
				c.add(Issue{Code: CodeInvalidReference, Severity: SeverityError,
					Message: "reference does not resolve to a definition", Path: nodePath, Actual: n.DefinitionRef})
			}
		}
	}
}

func (c *checker) test(t *models.Test) {
	path := entityPath(models.KindTest, t.ID)
	if t.ObjectRef == "" {
		// unknown_test checks nothing
		if _, ok := c.reg.Counterpart(t.Variant, models.KindObject); ok {
			c.add(errorf(CodeMissingReference, path+"/object_ref", "test has no object_ref"))
		}
	} else if c.reference(models.KindObject, t.ObjectRef, path+"/object_ref") {
		c.pairing(t, models.KindObject, t.ObjectRef, path+"/object_ref")
	}
	for i, ref := range t.StateRefs {
		refPath := path + "/state_ref/" + strconv.Itoa(i)
		if c.reference(models.KindState, ref, refPath) {
			c.pairing(t, models.KindState, ref, refPath)
		}
	}
}

// pairing warns when a test points at an entity of another type, e.g. a
// file_test referencing a process_object.
func (c *checker) pairing(t *models.Test, kind models.BaseKind, id, path string) {
	want, ok := c.reg.Counterpart(t.Variant, kind)
	if !ok {
		return
	}
	got := c.idx.Entities[kind][id].Base().Variant
	if got != want.Name {
		i := warnf(CodeVariantMismatch, path, "%s cannot check a %s", t.Variant, got)
		i.Expected = []string{want.Name}
		i.Actual = got
		c.add(i)
	}
}

func (c *checker) object(o *models.Object) {
	path := entityPath(models.KindObject, o.ID)
	for i, f := range o.Filters {
		c.reference(models.KindState, f.StateRef, path+"/filter/"+strconv.Itoa(i))
	}
	if o.Behaviors != nil {
		c.behaviors(o.Behaviors, path+"/behaviors")
	}
	c.properties(&o.Properties, path)
}

func (c *checker) state(s *models.State) {
	c.properties(&s.Properties, entityPath(models.KindState, s.ID))
}

func (c *checker) behaviors(b *models.Behaviors, path string) {
	for _, key := range b.Shape.Keys() {
		value, ok := b.Get(key)
		if !ok {
			continue
		}
		var allowed []string
		switch key {
		case "max_depth":
			if n, err := strconv.Atoi(value); err != nil || n < -1 {
				i := errorf(CodeInvalidBehavior, path+"/"+key, "max_depth must be an integer of at least -1")
				i.Actual = value
				c.add(i)
			}
			continue
		case "recurse":
			allowed = recurseValues
		case "recurse_direction":
			allowed = recurseDirectionValues
		case "recurse_file_system":
			allowed = recurseFSValues
		case "windows_view":
			allowed = windowsViewValues
		default:
			allowed = booleanValues
		}
		if !slices.Contains(allowed, strings.ToLower(value)) {
			c.add(Issue{Code: CodeInvalidBehavior, Severity: SeverityError, Message: "unsupported " + key,
				Path: path + "/" + key, Actual: value, Expected: allowed})
		}
	}
}

func (c *checker) properties(set *models.PropertySet, owner string) {
	for _, p := range set.All() {
		path := owner + "/" + p.Name
		info := p.Kind.Info()
		dt := p.EffectiveDatatype()

		if _, ok := models.ParseDatatype(string(dt)); !ok {
			c.add(Issue{Code: CodeIllegalDatatype, Severity: SeverityError, Message: "unknown datatype",
				Path: path, Actual: string(dt)})
			continue
		}
		if len(info.Datatypes) > 0 && !slices.Contains(info.Datatypes, dt) {
			c.add(Issue{Code: CodeIllegalDatatype, Severity: SeverityError,
				Message: string(p.Kind) + " does not accept this datatype",
				Path:    path, Actual: string(dt), Expected: datatypeNames(info.Datatypes)})
		}
		if !models.OperationAllowed(dt, p.Operation) {
			c.add(Issue{Code: CodeIllegalOperation, Severity: SeverityError,
				Message: "operation is not defined for " + string(dt),
				Path:    path, Actual: string(p.Operation), Expected: operationNames(models.LegalOperations(dt))})
		}
		if p.VarRef != "" {
			c.reference(models.KindVariable, p.VarRef, path+"/var_ref")
		} else if len(info.Values) > 0 && p.EffectiveOperation() != models.OpPatternMatch &&
			!slices.Contains(info.Values, p.Value) {
			c.add(Issue{Code: CodeInvalidValue, Severity: SeverityError, Message: "value is not in the enumeration",
				Path: path, Actual: p.Value, Expected: info.Values})
		}
	}
}

func (c *checker) variable(vr *models.Variable) {
	path := entityPath(models.KindVariable, vr.ID)
	if _, ok := models.ParseDatatype(string(vr.Datatype)); !ok {
		c.add(Issue{Code: CodeIllegalDatatype, Severity: SeverityError, Message: "unknown datatype",
			Path: path + "/datatype", Actual: string(vr.Datatype)})
	}

	switch body := vr.Body.(type) {
	case *models.ConstantBody:
		if len(body.Values) == 0 {
			c.add(warnf(CodeEmptyVariable, path, "constant variable has no values"))
		}
	case *models.ExternalBody:
		for gi, group := range body.PossibleRestrictions {
			for ri, r := range group.Restrictions {
				if !models.OperationAllowed(vr.Datatype, r.Operation) {
					c.add(Issue{Code: CodeIllegalOperation, Severity: SeverityError,
						Message: "operation is not defined for " + string(vr.Datatype),
						Path:    path + "/possible_restriction/" + strconv.Itoa(gi) + "/" + strconv.Itoa(ri),
						Actual:  string(r.Operation)})
				}
			}
		}
	case *models.LocalBody:
		if body.Component == nil {
			c.add(errorf(CodeMissingComponent, path, "local variable has no component"))
			return
		}
		c.component(vr, body.Component, path+"/component")
	case nil:
		c.add(errorf(CodeMissingComponent, path, "variable has no body"))
	}
}

func (c *checker) component(vr *models.Variable, comp models.Component, path string) {
	switch n := comp.(type) {
	case *models.ObjectComponent:
		if n.ObjectRef == "" {
			c.add(errorf(CodeMissingReference, path+"/object_ref", "object_component has no object_ref"))
		} else {
			c.reference(models.KindObject, n.ObjectRef, path+"/object_ref")
		}
		if n.ItemField == "" {
			c.add(errorf(CodeMissingReference, path+"/item_field", "object_component has no item_field"))
		}
	case *models.VariableComponent:
		switch {
		case n.VarRef == "":
			c.add(errorf(CodeMissingReference, path+"/var_ref", "variable_component has no var_ref"))
		case n.VarRef == vr.ID:
			c.add(errorf(CodeInvalidReference, path+"/var_ref", "variable refers to itself"))
		default:
			c.reference(models.KindVariable, n.VarRef, path+"/var_ref")
		}
	case *models.FunctionGroup:
		if n.Function == nil {
			c.add(errorf(CodeMissingComponent, path, "function group has no function"))
			return
		}
		c.function(vr, n.Function, path+"/"+string(n.Function.Type))
	}
}

func (c *checker) function(vr *models.Variable, fn *models.Function, path string) {
	count := len(fn.Components)
	mode, _ := component.ModeOf(fn.Type)
	switch {
	case count == 0:
		c.add(errorf(CodeComponentCount, path, "%s has no components", fn.Type))
	case mode == component.AppendBounded && count > component.MaxTimeDifferenceComponents:
		c.add(errorf(CodeComponentCount, path, "%s takes at most %d components", fn.Type, component.MaxTimeDifferenceComponents))
	case mode == component.ReplaceSingle && count > 1:
		c.add(errorf(CodeComponentCount, path, "%s takes exactly one component", fn.Type))
	}
	if fn.Type == models.FunctionArithmetic && !slices.Contains(arithmeticOperations, fn.ArithmeticOperation) {
		c.add(Issue{Code: CodeInvalidValue, Severity: SeverityError, Message: "unsupported arithmetic operation",
			Path: path + "/arithmetic_operation", Actual: fn.ArithmeticOperation, Expected: arithmeticOperations})
	}
	for i, child := range fn.Components {
		c.component(vr, child, path+"/"+strconv.Itoa(i))
	}
}

func datatypeNames(list []models.Datatype) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = string(d)
	}
	return out
}

func operationNames(list []models.Operation) []string {
	out := make([]string, len(list))
	for i, op := range list {
		out[i] = string(op)
	}
	return out
}
