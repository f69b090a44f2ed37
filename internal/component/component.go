// Package component builds the function component tree of local variables.
package component

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"oval-editor/internal/models"
	"oval-editor/internal/wrapper"
)

var (
	ErrTooManyComponents = errors.New("too many components")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrUnknownComponent  = errors.New("unknown component")
	ErrInvalidAttribute  = errors.New("invalid function attribute")
)

// AttachMode says what attaching a component to a function does.
type AttachMode int

const (
	// Append adds the component after the existing ones.
	Append AttachMode = iota
	// ReplaceSingle makes the component the only one.
	ReplaceSingle
	// AppendBounded appends up to MaxTimeDifferenceComponents and rejects the rest.
	AppendBounded
)

const MaxTimeDifferenceComponents = 2

var attachModes = map[models.FunctionType]AttachMode{
	models.FunctionArithmetic:     Append,
	models.FunctionConcat:         Append,
	models.FunctionUnique:         Append,
	models.FunctionCount:          Append,
	models.FunctionEscapeRegex:    Append,
	models.FunctionTimeDifference: AppendBounded,
	models.FunctionBegin:          ReplaceSingle,
	models.FunctionEnd:            ReplaceSingle,
	models.FunctionSplit:          ReplaceSingle,
	models.FunctionRegexCapture:   ReplaceSingle,
	models.FunctionGlobToRegex:    ReplaceSingle,
	models.FunctionSubstring:      ReplaceSingle,
}

// ModeOf reports how Attach treats a new component of a function of type ft.
func ModeOf(ft models.FunctionType) (AttachMode, bool) {
	m, ok := attachModes[ft]
	return m, ok
}

// New returns an empty function of type ft.
func New(ft models.FunctionType) (*models.Function, error) {
	if _, ok := attachModes[ft]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, ft)
	}
	return &models.Function{Type: ft}, nil
}

// Attach adds c to fn according to fn's attach mode. On error fn is unchanged.
func Attach(fn *models.Function, c models.Component) error {
	if c == nil {
		return fmt.Errorf("%w: nil component", ErrUnknownComponent)
	}
	mode, ok := attachModes[fn.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFunction, fn.Type)
	}
	switch mode {
	case ReplaceSingle:
		fn.Components = []models.Component{c}
	case AppendBounded:
		if len(fn.Components) >= MaxTimeDifferenceComponents {
			return fmt.Errorf("%w: %s takes at most %d", ErrTooManyComponents, fn.Type, MaxTimeDifferenceComponents)
		}
		fn.Components = append(fn.Components, c)
	default:
		fn.Components = append(fn.Components, c)
	}
	return nil
}

// FunctionInput is the raw form of a function as the editor submits it.
type FunctionInput struct {
	FunctionType    string         `json:"function_type,omitempty"`
	ArithmeticOp    string         `json:"arithmetic_op,omitempty"`
	Character       string         `json:"character,omitempty"`
	Delimiter       string         `json:"delimiter,omitempty"`
	Pattern         string         `json:"pattern,omitempty"`
	GlobNoescape    wrapper.Scalar `json:"glob_noescape,omitempty"`
	SubstringStart  wrapper.Scalar `json:"substring_start,omitempty"`
	SubstringLength wrapper.Scalar `json:"substring_length,omitempty"`
	Format1         string         `json:"format_1,omitempty"`
	Format2         string         `json:"format_2,omitempty"`
	Components      []Input        `json:"components_data,omitempty"`
}

// Input is the raw form of one component. A function_group carries its
// nested function in the embedded FunctionInput.
type Input struct {
	Type        string `json:"type"`
	Value       string `json:"value,omitempty"`
	Datatype    string `json:"datatype,omitempty"`
	ObjectRef   string `json:"object_ref,omitempty"`
	ItemField   string `json:"item_field,omitempty"`
	RecordField string `json:"record_field,omitempty"`
	VarRef      string `json:"var_ref,omitempty"`
	FunctionInput
}

// Build turns one component input into a component, recursing into
// function groups.
func Build(in Input) (models.Component, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(in.Type)), "_component") {
	case "literal":
		c := &models.LiteralComponent{Value: in.Value}
		if in.Datatype != "" {
			c.Datatype = wrapper.NormalizeDatatype(in.Datatype)
		}
		return c, nil
	case "object":
		return &models.ObjectComponent{ObjectRef: in.ObjectRef, ItemField: in.ItemField, RecordField: in.RecordField}, nil
	case "variable":
		return &models.VariableComponent{VarRef: in.VarRef}, nil
	case "function_group", "function":
		fn, err := BuildFunction(in.FunctionInput)
		if err != nil {
			return nil, err
		}
		return &models.FunctionGroup{Function: fn}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, in.Type)
}

// BuildFunction builds a function with its attributes and attaches every
// component in order.
func BuildFunction(in FunctionInput) (*models.Function, error) {
	ft, ok := models.ParseFunctionType(in.FunctionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, in.FunctionType)
	}
	fn, err := New(ft)
	if err != nil {
		return nil, err
	}

	switch ft {
	case models.FunctionArithmetic:
		fn.ArithmeticOperation = in.ArithmeticOp
	case models.FunctionBegin, models.FunctionEnd:
		fn.Character = in.Character
	case models.FunctionSplit:
		fn.Delimiter = in.Delimiter
	case models.FunctionRegexCapture:
		fn.Pattern = in.Pattern
	case models.FunctionGlobToRegex:
		if s := strings.TrimSpace(string(in.GlobNoescape)); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("%w: glob_noescape %q", ErrInvalidAttribute, s)
			}
			fn.GlobNoescape = &v
		}
	case models.FunctionSubstring:
		if fn.SubstringStart, err = atoi("substring_start", in.SubstringStart); err != nil {
			return nil, err
		}
		if fn.SubstringLength, err = atoi("substring_length", in.SubstringLength); err != nil {
			return nil, err
		}
	case models.FunctionTimeDifference:
		fn.Format1 = in.Format1
		fn.Format2 = in.Format2
	}

	for i, ci := range in.Components {
		c, err := Build(ci)
		if err != nil {
			return nil, fmt.Errorf("component %d of %s: %w", i, ft, err)
		}
		if err := Attach(fn, c); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

func atoi(field string, s wrapper.Scalar) (int, error) {
	trimmed := strings.TrimSpace(string(s))
	if trimmed == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidAttribute, field, trimmed)
	}
	return n, nil
}
