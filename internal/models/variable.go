package models

import "strings"

type VariableKind string

const (
	ConstantVariable VariableKind = "constant"
	ExternalVariable VariableKind = "external"
	LocalVariable    VariableKind = "local"
)

// VariableKindFor maps constant_variable, external_variable and
// local_variable to their sub-kind.
func VariableKindFor(variant string) (VariableKind, bool) {
	switch k := VariableKind(strings.TrimSuffix(variant, "_variable")); k {
	case ConstantVariable, ExternalVariable, LocalVariable:
		return k, true
	}
	return "", false
}

type Variable struct {
	Common
	Datatype Datatype `json:"datatype"`
	// Body is *ConstantBody, *ExternalBody or *LocalBody.
	Body VariableBody `json:"body"`
}

func (*Variable) Kind() BaseKind { return KindVariable }

type VariableBody interface {
	VariableKind() VariableKind
}

type ConstantBody struct {
	Values []string `json:"values"`
}

func (*ConstantBody) VariableKind() VariableKind { return ConstantVariable }

type PossibleValue struct {
	Hint  string `json:"hint"`
	Value string `json:"value"`
}

type Restriction struct {
	Operation Operation `json:"operation"`
	Value     string    `json:"value"`
}

type PossibleRestriction struct {
	Hint         string        `json:"hint"`
	Operator     Operator      `json:"operator"`
	Restrictions []Restriction `json:"restrictions"`
}

type ExternalBody struct {
	PossibleValues       []PossibleValue       `json:"possible_values"`
	PossibleRestrictions []PossibleRestriction `json:"possible_restrictions"`
}

func (*ExternalBody) VariableKind() VariableKind { return ExternalVariable }

// LocalBody holds exactly one component; nil while the variable is being edited.
type LocalBody struct {
	Component Component `json:"component"`
}

func (*LocalBody) VariableKind() VariableKind { return LocalVariable }

type ComponentType string

const (
	LiteralComponentType  ComponentType = "literal_component"
	ObjectComponentType   ComponentType = "object_component"
	VariableComponentType ComponentType = "variable_component"
	FunctionGroupType     ComponentType = "function_group"
)

// Component is a node of a local variable's function component tree.
type Component interface {
	ComponentType() ComponentType
}

type LiteralComponent struct {
	Value    string   `json:"value"`
	Datatype Datatype `json:"datatype,omitempty"`
}

func (*LiteralComponent) ComponentType() ComponentType { return LiteralComponentType }

type ObjectComponent struct {
	ObjectRef   string `json:"object_ref"`
	ItemField   string `json:"item_field"`
	RecordField string `json:"record_field,omitempty"`
}

func (*ObjectComponent) ComponentType() ComponentType { return ObjectComponentType }

type VariableComponent struct {
	VarRef string `json:"var_ref"`
}

func (*VariableComponent) ComponentType() ComponentType { return VariableComponentType }

// FunctionGroup places a function where a component is expected.
type FunctionGroup struct {
	Function *Function `json:"function"`
}

func (*FunctionGroup) ComponentType() ComponentType { return FunctionGroupType }

type FunctionType string

const (
	FunctionArithmetic     FunctionType = "arithmetic"
	FunctionConcat         FunctionType = "concat"
	FunctionUnique         FunctionType = "unique"
	FunctionCount          FunctionType = "count"
	FunctionEscapeRegex    FunctionType = "escape_regex"
	FunctionTimeDifference FunctionType = "time_difference"
	FunctionBegin          FunctionType = "begin"
	FunctionEnd            FunctionType = "end"
	FunctionSplit          FunctionType = "split"
	FunctionRegexCapture   FunctionType = "regex_capture"
	FunctionGlobToRegex    FunctionType = "glob_to_regex"
	FunctionSubstring      FunctionType = "substring"
)

var FunctionTypes = []FunctionType{
	FunctionArithmetic, FunctionConcat, FunctionUnique, FunctionCount, FunctionEscapeRegex,
	FunctionTimeDifference, FunctionBegin, FunctionEnd, FunctionSplit, FunctionRegexCapture,
	FunctionGlobToRegex, FunctionSubstring,
}

func ParseFunctionType(s string) (FunctionType, bool) {
	ft := FunctionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FunctionTypes {
		if ft == known {
			return ft, true
		}
	}
	return "", false
}

// Function is a computation over its components. Only the attributes of its
// Type are meaningful.
type Function struct {
	Type                FunctionType `json:"type"`
	ArithmeticOperation string       `json:"arithmetic_operation,omitempty"`
	Character           string       `json:"character,omitempty"`
	Delimiter           string       `json:"delimiter,omitempty"`
	Pattern             string       `json:"pattern,omitempty"`
	GlobNoescape        *bool        `json:"glob_noescape,omitempty"`
	SubstringStart      int          `json:"substring_start,omitempty"`
	SubstringLength     int          `json:"substring_length,omitempty"`
	Format1             string       `json:"format_1,omitempty"`
	Format2             string       `json:"format_2,omitempty"`
	Components          []Component  `json:"components"`
}
