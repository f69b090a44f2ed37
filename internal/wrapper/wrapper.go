// Package wrapper builds and merges wrapped simple properties.
package wrapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"oval-editor/internal/models"
)

var ErrInvalidMask = errors.New("invalid mask")

// Scalar is a text input that may also arrive as a JSON bool or number.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*s = Scalar(text)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("scalar: %w", err)
	}
	switch v.(type) {
	case bool, float64:
		*s = Scalar(raw)
		return nil
	}
	return fmt.Errorf("scalar: unexpected %s", raw)
}

// Input is the raw form of one wrapped property as the editor submits it.
// Empty strings mean "not given".
type Input struct {
	Value     string `json:"value"`
	Datatype  string `json:"datatype,omitempty"`
	Operation string `json:"operation,omitempty"`
	Mask      Scalar `json:"mask,omitempty"`
	VarRef    string `json:"var_ref,omitempty"`
}

// Build returns nil when the input carries no value, whatever else it sets.
func Build(name string, kind models.WrapperKind, in *Input) (*models.Property, error) {
	if in == nil || in.Value == "" {
		return nil, nil
	}
	p := &models.Property{Name: name, Kind: kind, Value: in.Value}
	if err := apply(p, in); err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges in into existing. An input without a value removes the
// property (nil result); a nil input leaves existing untouched. Attributes the
// input leaves empty keep their current values.
func Update(existing *models.Property, name string, kind models.WrapperKind, in *Input) (*models.Property, error) {
	if in == nil {
		return existing, nil
	}
	if in.Value == "" {
		return nil, nil
	}
	if existing == nil {
		return Build(name, kind, in)
	}

	if err := Check(in); err != nil {
		return nil, err
	}
	existing.Value = in.Value
	if err := apply(existing, in); err != nil {
		return nil, err
	}
	return existing, nil
}

// Check reports whether Build or Update would reject in. A nil input is valid.
func Check(in *Input) error {
	if in == nil {
		return nil
	}
	_, err := parseMask(in.Mask)
	return err
}

func apply(p *models.Property, in *Input) error {
	mask, err := parseMask(in.Mask)
	if err != nil {
		return err
	}
	if in.Datatype != "" {
		p.Datatype = NormalizeDatatype(in.Datatype)
	}
	if in.Operation != "" {
		p.Operation = NormalizeOperation(in.Operation)
	}
	if mask != nil {
		p.Mask = mask
	}
	if in.VarRef != "" {
		p.VarRef = in.VarRef
	}
	return nil
}

func parseMask(f Scalar) (*bool, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMask, s)
	}
	return &v, nil
}

// NormalizeDatatype maps known spellings to the schema value. Unknown
// spellings are kept verbatim so validation can report them.
func NormalizeDatatype(s string) models.Datatype {
	if dt, ok := models.ParseDatatype(s); ok {
		return dt
	}
	return models.Datatype(s)
}

func NormalizeOperation(s string) models.Operation {
	if op, ok := models.ParseOperation(s); ok {
		return op
	}
	return models.Operation(s)
}
