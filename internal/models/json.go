package models

import "encoding/json"

// Union members carry their tag so clients can tell them apart.

func (s PropertySet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

func (c *Criteria) MarshalJSON() ([]byte, error) {
	type alias Criteria
	return json.Marshal(struct {
		Type NodeType `json:"type"`
		*alias
	}{NodeCriteria, (*alias)(c)})
}

func (c *Criterion) MarshalJSON() ([]byte, error) {
	type alias Criterion
	return json.Marshal(struct {
		Type NodeType `json:"type"`
		*alias
	}{NodeCriterion, (*alias)(c)})
}

func (e *ExtendDefinition) MarshalJSON() ([]byte, error) {
	type alias ExtendDefinition
	return json.Marshal(struct {
		Type NodeType `json:"type"`
		*alias
	}{NodeExtendDefinition, (*alias)(e)})
}

func (c *LiteralComponent) MarshalJSON() ([]byte, error) {
	type alias LiteralComponent
	return json.Marshal(struct {
		Type ComponentType `json:"type"`
		*alias
	}{LiteralComponentType, (*alias)(c)})
}

func (c *ObjectComponent) MarshalJSON() ([]byte, error) {
	type alias ObjectComponent
	return json.Marshal(struct {
		Type ComponentType `json:"type"`
		*alias
	}{ObjectComponentType, (*alias)(c)})
}

func (c *VariableComponent) MarshalJSON() ([]byte, error) {
	type alias VariableComponent
	return json.Marshal(struct {
		Type ComponentType `json:"type"`
		*alias
	}{VariableComponentType, (*alias)(c)})
}

func (c *FunctionGroup) MarshalJSON() ([]byte, error) {
	type alias FunctionGroup
	return json.Marshal(struct {
		Type ComponentType `json:"type"`
		*alias
	}{FunctionGroupType, (*alias)(c)})
}

func (b *ConstantBody) MarshalJSON() ([]byte, error) {
	type alias ConstantBody
	return json.Marshal(struct {
		Kind VariableKind `json:"kind"`
		*alias
	}{ConstantVariable, (*alias)(b)})
}

func (b *ExternalBody) MarshalJSON() ([]byte, error) {
	type alias ExternalBody
	return json.Marshal(struct {
		Kind VariableKind `json:"kind"`
		*alias
	}{ExternalVariable, (*alias)(b)})
}

func (b *LocalBody) MarshalJSON() ([]byte, error) {
	type alias LocalBody
	return json.Marshal(struct {
		Kind VariableKind `json:"kind"`
		*alias
	}{LocalVariable, (*alias)(b)})
}
