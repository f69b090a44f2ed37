package ovalxml

import "encoding/xml"

const (
	NamespaceDefinitions = "http://oval.mitre.org/XMLSchema/oval-definitions-5"
	NamespaceCommon      = "http://oval.mitre.org/XMLSchema/oval-common-5"
)

type OvalDefinitions struct {
	XMLName     xml.Name        `xml:"oval_definitions"`
	Xmlns       string          `xml:"xmlns,attr"`
	XmlnsOval   string          `xml:"xmlns:oval,attr"`
	Generator   GeneratorNode   `xml:"generator"`
	Definitions *DefinitionList `xml:"definitions,omitempty"`
	Tests       *Section        `xml:"tests,omitempty"`
	Objects     *Section        `xml:"objects,omitempty"`
	States      *Section        `xml:"states,omitempty"`
	Variables   *Section        `xml:"variables,omitempty"`
}

type GeneratorNode struct {
	ProductName    string `xml:"oval:product_name,omitempty"`
	ProductVersion string `xml:"oval:product_version,omitempty"`
	SchemaVersion  string `xml:"oval:schema_version"`
	Timestamp      string `xml:"oval:timestamp"`
}

type DefinitionList struct {
	Definition []DefinitionNode `xml:"definition"`
}

type DefinitionNode struct {
	ID         string       `xml:"id,attr"`
	Version    int          `xml:"version,attr"`
	Class      string       `xml:"class,attr"`
	Deprecated bool         `xml:"deprecated,attr,omitempty"`
	Metadata   MetadataNode `xml:"metadata"`
	Criteria   *Node        `xml:"criteria,omitempty"`
}

type MetadataNode struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
}

// Section holds entities whose element names depend on their variant.
type Section struct {
	Items []*Node `xml:",any"`
}

// Node is a generic element: tests, objects, states, variables, their
// properties and the criteria tree are all written through it.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

func newNode(name string) *Node {
	return &Node{XMLName: xml.Name{Local: name}}
}

// attr appends an attribute unless value is empty.
func (n *Node) attr(name, value string) *Node {
	if value != "" {
		n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	}
	return n
}

func (n *Node) child(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}
