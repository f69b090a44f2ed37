// Package criteria edits the boolean criteria tree of a definition.
package criteria

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"oval-editor/internal/models"
)

var (
	ErrRootNotRemovable = errors.New("cannot remove the root criteria element")
	ErrNodeNotFound     = errors.New("criteria node not found")
	ErrNotCriteria      = errors.New("node is not a criteria")
	ErrCycle            = errors.New("criteria would contain itself")
	ErrInvalidNode      = errors.New("invalid criteria node")
)

// Tree wraps the root criteria of one definition. The root is never removed,
// only edited in place.
type Tree struct {
	Root *models.Criteria
}

func NewTree(root *models.Criteria) *Tree {
	if root == nil {
		root = NewCriteria(models.OperatorAND, false)
	}
	return &Tree{Root: root}
}

func NewCriteria(op models.Operator, negate bool) *models.Criteria {
	if op == "" {
		op = models.OperatorAND
	}
	return &models.Criteria{Operator: op, Negate: negate}
}

func NewCriterion(testRef string, negate bool) *models.Criterion {
	return &models.Criterion{TestRef: testRef, Negate: negate}
}

func NewExtendDefinition(definitionRef string, negate bool) *models.ExtendDefinition {
	return &models.ExtendDefinition{DefinitionRef: definitionRef, Negate: negate}
}

// AddChild appends child to parent.
func (t *Tree) AddChild(parent *models.Criteria, child models.CriteriaNode) error {
	if parent == nil {
		return ErrNotCriteria
	}
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidNode)
	}
	if c, ok := child.(*models.Criteria); ok && (c == t.Root || contains(c, parent)) {
		return ErrCycle
	}
	parent.Children = append(parent.Children, child)
	return nil
}

// Replace swaps old for replacement in parent's children, keeping its position.
func (t *Tree) Replace(parent *models.Criteria, old, replacement models.CriteriaNode) error {
	if parent == nil {
		return ErrNotCriteria
	}
	if replacement == nil {
		return fmt.Errorf("%w: nil replacement", ErrInvalidNode)
	}
	i := childIndex(parent, old)
	if i < 0 {
		return ErrNodeNotFound
	}
	if c, ok := replacement.(*models.Criteria); ok && (c == t.Root || contains(c, parent)) {
		return ErrCycle
	}
	parent.Children[i] = replacement
	return nil
}

// Remove detaches target from parent. A nil parent means "wherever target is".
// Removing the root fails and leaves the tree untouched.
func (t *Tree) Remove(parent *models.Criteria, target models.CriteriaNode) error {
	if c, ok := target.(*models.Criteria); ok && c == t.Root {
		return ErrRootNotRemovable
	}
	if parent == nil {
		p, ok := t.Parent(target)
		if !ok {
			return ErrNodeNotFound
		}
		parent = p
	}
	i := childIndex(parent, target)
	if i < 0 {
		return ErrNodeNotFound
	}
	parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	return nil
}

// Parent finds the criteria that directly holds target.
func (t *Tree) Parent(target models.CriteriaNode) (*models.Criteria, bool) {
	for v := range t.Walk() {
		if v.Node == target {
			return v.Parent, v.Parent != nil
		}
	}
	return nil, false
}

// Visit is one step of a walk. Parent is nil for the root.
type Visit struct {
	Node   models.CriteriaNode
	Parent *models.Criteria
	Depth  int
	Path   Path
}

// Walk yields the tree in pre-order. Each range over the result starts again
// from the root.
func (t *Tree) Walk() iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		walk(t.Root, nil, 0, nil, yield)
	}
}

func walk(n models.CriteriaNode, parent *models.Criteria, depth int, path Path, yield func(Visit) bool) bool {
	if !yield(Visit{Node: n, Parent: parent, Depth: depth, Path: path}) {
		return false
	}
	c, ok := n.(*models.Criteria)
	if !ok {
		return true
	}
	for i, child := range c.Children {
		childPath := make(Path, len(path)+1)
		copy(childPath, path)
		childPath[len(path)] = i
		if !walk(child, c, depth+1, childPath, yield) {
			return false
		}
	}
	return true
}

// At resolves a path to a node and its parent.
func (t *Tree) At(path Path) (models.CriteriaNode, *models.Criteria, error) {
	var node models.CriteriaNode = t.Root
	var parent *models.Criteria
	for _, i := range path {
		c, ok := node.(*models.Criteria)
		if !ok {
			return nil, nil, ErrNotCriteria
		}
		if i < 0 || i >= len(c.Children) {
			return nil, nil, ErrNodeNotFound
		}
		parent = c
		node = c.Children[i]
	}
	return node, parent, nil
}

// Path addresses a node by child indexes from the root; empty is the root.
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "/")
}

func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/ ")
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad path segment %q", ErrNodeNotFound, part)
		}
		p[i] = n
	}
	return p, nil
}

func childIndex(parent *models.Criteria, target models.CriteriaNode) int {
	for i, c := range parent.Children {
		if c == target {
			return i
		}
	}
	return -1
}

// contains reports whether needle is c or below it.
func contains(c *models.Criteria, needle *models.Criteria) bool {
	if c == needle {
		return true
	}
	for _, child := range c.Children {
		if cc, ok := child.(*models.Criteria); ok && contains(cc, needle) {
			return true
		}
	}
	return false
}
