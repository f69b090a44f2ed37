// Package validate checks a document for problems the editor cannot rule out
// while entities are built one at a time: dangling references, operations the
// datatype does not support, values outside an enumeration and so on.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of problem an Issue reports.
type Code string

const (
	CodeInvalidReference Code = "invalid_reference"
	CodeMissingReference Code = "missing_reference"
	CodeVariantMismatch  Code = "variant_mismatch"
	CodeDuplicateID      Code = "duplicate_id"
	CodeIllegalOperation Code = "illegal_operation"
	CodeIllegalDatatype  Code = "illegal_datatype"
	CodeInvalidValue     Code = "invalid_value"
	CodeInvalidBehavior  Code = "invalid_behavior"
	CodeComponentCount   Code = "component_count"
	CodeMissingComponent Code = "missing_component"
	CodeEmptyVariable    Code = "empty_variable"
	CodeEmptyCriteria    Code = "empty_criteria"
	CodeUnsupported      Code = "unsupported_field"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding. Path locates it, e.g. "tests/oval:x:tst:1/object_ref".
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Expected []string `json:"expected,omitempty"`
}

func (i Issue) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", i.Code, i.Message)
	if i.Path != "" {
		fmt.Fprintf(&b, " at %s", i.Path)
	}
	if len(i.Expected) > 0 {
		fmt.Fprintf(&b, " (expected: %s)", strings.Join(i.Expected, ", "))
	}
	if i.Actual != "" {
		fmt.Fprintf(&b, " (actual: %s)", i.Actual)
	}
	return b.String()
}

// Report lists issues in document order.
type Report []Issue

func (r Report) Error() string {
	switch len(r) {
	case 0:
		return "no validation issues"
	case 1:
		return r[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", r[0].Error(), len(r)-1)
	}
}

// Errors drops the warnings.
func (r Report) Errors() Report {
	var out Report
	for _, i := range r {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Err returns the error-severity issues as an error, or nil when there are none.
func (r Report) Err() error {
	if errs := r.Errors(); len(errs) > 0 {
		return errs
	}
	return nil
}

// Has reports whether any issue carries code.
func (r Report) Has(code Code) bool {
	for _, i := range r {
		if i.Code == code {
			return true
		}
	}
	return false
}

// AsReport extracts a Report from err.
func AsReport(err error) (Report, bool) {
	var r Report
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

func errorf(code Code, path, format string, args ...any) Issue {
	return Issue{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...), Path: path}
}

func warnf(code Code, path, format string, args ...any) Issue {
	return Issue{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Path: path}
}
