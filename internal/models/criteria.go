package models

type NodeType string

const (
	NodeCriteria         NodeType = "criteria"
	NodeCriterion        NodeType = "criterion"
	NodeExtendDefinition NodeType = "extend_definition"
)

// CriteriaNode is *Criteria, *Criterion or *ExtendDefinition.
type CriteriaNode interface {
	NodeType() NodeType
}

type Criteria struct {
	Operator Operator       `json:"operator"`
	Negate   bool           `json:"negate,omitempty"`
	Comment  string         `json:"comment,omitempty"`
	Children []CriteriaNode `json:"children"`
}

func (*Criteria) NodeType() NodeType { return NodeCriteria }

type Criterion struct {
	TestRef string `json:"test_ref"`
	Negate  bool   `json:"negate,omitempty"`
	Comment string `json:"comment,omitempty"`
}

func (*Criterion) NodeType() NodeType { return NodeCriterion }

type ExtendDefinition struct {
	DefinitionRef string `json:"definition_ref"`
	Negate        bool   `json:"negate,omitempty"`
	Comment       string `json:"comment,omitempty"`
}

func (*ExtendDefinition) NodeType() NodeType { return NodeExtendDefinition }

type Definition struct {
	ID          string          `json:"id"`
	Version     int             `json:"version"`
	Class       DefinitionClass `json:"class"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Deprecated  bool            `json:"deprecated,omitempty"`
	Criteria    *Criteria       `json:"criteria"`
}
