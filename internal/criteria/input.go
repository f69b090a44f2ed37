package criteria

import (
	"fmt"
	"strings"

	"oval-editor/internal/models"
)

// NodeInput is the raw form of a criteria node. Nil pointers mean "not given".
type NodeInput struct {
	Type          string  `json:"type"`
	Operator      string  `json:"operator,omitempty"`
	Negate        *bool   `json:"negate,omitempty"`
	Comment       *string `json:"comment,omitempty"`
	TestRef       string  `json:"test_ref,omitempty"`
	DefinitionRef string  `json:"definition_ref,omitempty"`
}

// Build creates a new node. A criterion needs a test_ref and an
// extend_definition needs a definition_ref.
func Build(in NodeInput) (models.CriteriaNode, error) {
	var n models.CriteriaNode
	switch models.NodeType(strings.ToLower(strings.TrimSpace(in.Type))) {
	case models.NodeCriteria:
		n = NewCriteria(models.OperatorAND, false)
	case models.NodeCriterion:
		if in.TestRef == "" {
			return nil, fmt.Errorf("%w: criterion requires a test_ref", ErrInvalidNode)
		}
		n = NewCriterion("", false)
	case models.NodeExtendDefinition:
		if in.DefinitionRef == "" {
			return nil, fmt.Errorf("%w: extend_definition requires a definition_ref", ErrInvalidNode)
		}
		n = NewExtendDefinition("", false)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrInvalidNode, in.Type)
	}
	if err := Edit(n, in); err != nil {
		return nil, err
	}
	return n, nil
}

// Edit applies the given fields that make sense for the node's type.
func Edit(n models.CriteriaNode, in NodeInput) error {
	switch node := n.(type) {
	case *models.Criteria:
		if in.Operator != "" {
			op, ok := models.ParseOperator(in.Operator)
			if !ok {
				return fmt.Errorf("%w: operator %q", ErrInvalidNode, in.Operator)
			}
			node.Operator = op
		}
		setCommon(&node.Negate, &node.Comment, in)
	case *models.Criterion:
		if in.TestRef != "" {
			node.TestRef = in.TestRef
		}
		setCommon(&node.Negate, &node.Comment, in)
	case *models.ExtendDefinition:
		if in.DefinitionRef != "" {
			node.DefinitionRef = in.DefinitionRef
		}
		setCommon(&node.Negate, &node.Comment, in)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidNode, n)
	}
	return nil
}

func setCommon(negate *bool, comment *string, in NodeInput) {
	if in.Negate != nil {
		*negate = *in.Negate
	}
	if in.Comment != nil {
		*comment = *in.Comment
	}
}
