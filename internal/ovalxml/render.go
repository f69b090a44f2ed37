// Package ovalxml writes a document as OVAL definitions XML.
package ovalxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"oval-editor/internal/models"
)

const timestampLayout = "2006-01-02T15:04:05"

// FamilyNamespace is the schema namespace of entities in family f.
func FamilyNamespace(f models.Family) string {
	switch f {
	case models.FamilyIndependent, models.FamilyLinux, models.FamilyUnix, models.FamilySolaris:
		return NamespaceDefinitions + "#" + string(f)
	}
	return ""
}

// Build converts doc into its XML tree.
func Build(doc *models.Document) (*OvalDefinitions, error) {
	ts := doc.Generator.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	out := &OvalDefinitions{
		Xmlns:     NamespaceDefinitions,
		XmlnsOval: NamespaceCommon,
		Generator: GeneratorNode{
			ProductName:    doc.Generator.ProductName,
			ProductVersion: doc.Generator.ProductVersion,
			SchemaVersion:  doc.Generator.SchemaVersion,
			Timestamp:      ts.UTC().Format(timestampLayout),
		},
	}

	if len(doc.Definitions) > 0 {
		out.Definitions = &DefinitionList{}
		for _, def := range doc.Definitions {
			out.Definitions.Definition = append(out.Definitions.Definition, definitionNode(def))
		}
	}
	if len(doc.Tests) > 0 {
		out.Tests = &Section{}
		for _, t := range doc.Tests {
			out.Tests.Items = append(out.Tests.Items, testNode(t))
		}
	}
	if len(doc.Objects) > 0 {
		out.Objects = &Section{}
		for _, o := range doc.Objects {
			out.Objects.Items = append(out.Objects.Items, objectNode(o))
		}
	}
	if len(doc.States) > 0 {
		out.States = &Section{}
		for _, s := range doc.States {
			out.States.Items = append(out.States.Items, stateNode(s))
		}
	}
	if len(doc.Variables) > 0 {
		out.Variables = &Section{}
		for _, v := range doc.Variables {
			n, err := variableNode(v)
			if err != nil {
				return nil, err
			}
			out.Variables.Items = append(out.Variables.Items, n)
		}
	}
	return out, nil
}

// Render returns the indented XML of doc with an XML header.
func Render(doc *models.Document) ([]byte, error) {
	tree, err := Build(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("encode oval xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func definitionNode(def *models.Definition) DefinitionNode {
	n := DefinitionNode{
		ID:         def.ID,
		Version:    def.Version,
		Class:      string(def.Class),
		Deprecated: def.Deprecated,
		Metadata:   MetadataNode{Title: def.Title, Description: def.Description},
	}
	if def.Criteria != nil {
		n.Criteria = criteriaNode(def.Criteria)
	}
	return n
}

func criteriaNode(node models.CriteriaNode) *Node {
	switch c := node.(type) {
	case *models.Criteria:
		n := newNode("criteria").attr("operator", string(c.Operator)).attr("negate", boolAttr(c.Negate)).attr("comment", c.Comment)
		for _, child := range c.Children {
			n.child(criteriaNode(child))
		}
		return n
	case *models.Criterion:
		return newNode("criterion").attr("test_ref", c.TestRef).attr("negate", boolAttr(c.Negate)).attr("comment", c.Comment)
	case *models.ExtendDefinition:
		return newNode("extend_definition").attr("definition_ref", c.DefinitionRef).attr("negate", boolAttr(c.Negate)).attr("comment", c.Comment)
	}
	return newNode("criteria")
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func entityNode(c *models.Common) *Node {
	return newNode(c.Variant).
		attr("xmlns", FamilyNamespace(c.Family)).
		attr("id", c.ID).
		attr("version", strconv.Itoa(c.Version)).
		attr("comment", c.Comment).
		attr("deprecated", boolAttr(c.Deprecated))
}

func testNode(t *models.Test) *Node {
	n := entityNode(&t.Common).
		attr("check", string(t.Check)).
		attr("check_existence", string(t.CheckExistence)).
		attr("state_operator", string(t.StateOperator))
	if t.ObjectRef != "" {
		n.child(newNode("object").attr("object_ref", t.ObjectRef))
	}
	for _, ref := range t.StateRefs {
		n.child(newNode("state").attr("state_ref", ref))
	}
	return n
}

func objectNode(o *models.Object) *Node {
	n := entityNode(&o.Common)
	if o.Behaviors != nil && len(o.Behaviors.Attrs) > 0 {
		b := n.child(newNode("behaviors"))
		for _, key := range o.Behaviors.Shape.Keys() {
			if v, ok := o.Behaviors.Get(key); ok {
				b.attr(key, v)
			}
		}
	}
	for _, p := range o.Properties.All() {
		n.child(propertyNode(p))
	}
	for _, f := range o.Filters {
		fn := n.child(newNode("filter").attr("action", string(f.Action)))
		fn.Text = f.StateRef
	}
	return n
}

func stateNode(s *models.State) *Node {
	n := entityNode(&s.Common).attr("operator", string(s.Operator))
	for _, p := range s.Properties.All() {
		n.child(propertyNode(p))
	}
	return n
}

func propertyNode(p *models.Property) *Node {
	n := newNode(models.ElementName(p.Name)).
		attr("datatype", string(p.Datatype)).
		attr("operation", string(p.Operation)).
		attr("var_ref", p.VarRef)
	if p.Mask != nil {
		n.attr("mask", strconv.FormatBool(*p.Mask))
	}
	// elements bound to a variable carry no value of their own
	if p.VarRef == "" {
		n.Text = p.Value
	}
	return n
}

func variableNode(v *models.Variable) (*Node, error) {
	n := newNode(v.Variant).
		attr("id", v.ID).
		attr("version", strconv.Itoa(v.Version)).
		attr("datatype", string(v.Datatype)).
		attr("comment", v.Comment).
		attr("deprecated", boolAttr(v.Deprecated))

	switch body := v.Body.(type) {
	case *models.ConstantBody:
		for _, value := range body.Values {
			n.child(newNode("value")).Text = value
		}
	case *models.ExternalBody:
		for _, pv := range body.PossibleValues {
			n.child(newNode("possible_value").attr("hint", pv.Hint)).Text = pv.Value
		}
		for _, pr := range body.PossibleRestrictions {
			group := n.child(newNode("possible_restriction").attr("hint", pr.Hint).attr("operator", string(pr.Operator)))
			for _, r := range pr.Restrictions {
				group.child(newNode("restriction").attr("operation", string(r.Operation))).Text = r.Value
			}
		}
	case *models.LocalBody:
		if body.Component != nil {
			c, err := componentNode(body.Component)
			if err != nil {
				return nil, fmt.Errorf("variable %s: %w", v.ID, err)
			}
			n.child(c)
		}
	case nil:
	default:
		return nil, fmt.Errorf("variable %s: unsupported body %T", v.ID, v.Body)
	}
	return n, nil
}

func componentNode(c models.Component) (*Node, error) {
	switch comp := c.(type) {
	case *models.LiteralComponent:
		n := newNode("literal_component").attr("datatype", string(comp.Datatype))
		n.Text = comp.Value
		return n, nil
	case *models.ObjectComponent:
		return newNode("object_component").
			attr("object_ref", comp.ObjectRef).
			attr("item_field", comp.ItemField).
			attr("record_field", comp.RecordField), nil
	case *models.VariableComponent:
		return newNode("variable_component").attr("var_ref", comp.VarRef), nil
	case *models.FunctionGroup:
		if comp.Function == nil {
			return nil, fmt.Errorf("function group without function")
		}
		return functionNode(comp.Function)
	}
	return nil, fmt.Errorf("unsupported component %T", c)
}

func functionNode(fn *models.Function) (*Node, error) {
	n := newNode(string(fn.Type))
	switch fn.Type {
	case models.FunctionArithmetic:
		n.attr("arithmetic_operation", fn.ArithmeticOperation)
	case models.FunctionBegin, models.FunctionEnd:
		n.attr("character", fn.Character)
	case models.FunctionSplit:
		n.attr("delimiter", fn.Delimiter)
	case models.FunctionRegexCapture:
		n.attr("pattern", fn.Pattern)
	case models.FunctionGlobToRegex:
		if fn.GlobNoescape != nil {
			n.attr("glob_noescape", strconv.FormatBool(*fn.GlobNoescape))
		}
	case models.FunctionSubstring:
		n.attr("substring_start", strconv.Itoa(fn.SubstringStart)).
			attr("substring_length", strconv.Itoa(fn.SubstringLength))
	case models.FunctionTimeDifference:
		n.attr("format_1", fn.Format1).attr("format_2", fn.Format2)
	}
	for _, c := range fn.Components {
		child, err := componentNode(c)
		if err != nil {
			return nil, err
		}
		n.child(child)
	}
	return n, nil
}
