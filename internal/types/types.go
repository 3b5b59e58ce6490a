// Package types defines every cross‑package data structure used by the repotree CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandStructure = "structure"
	CommandTree      = "tree"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"

	// UnlimitedDepth disables the depth limit of an extraction.
	UnlimitedDepth = -1
)

// TreeNode is one retained filesystem entry of an extracted structure.
// Children is omitted whenever the node has no retained children, which covers
// files, empty directories, unreadable directories and directories at the depth limit.
type TreeNode struct {
	XMLName  xml.Name    `json:"-" xml:"node" yaml:"-"`
	Name     string      `json:"name" xml:"name,attr" yaml:"name"`
	Type     string      `json:"type" xml:"type,attr" yaml:"type"`
	Children []*TreeNode `json:"children,omitempty" xml:"children>node,omitempty" yaml:"children,omitempty"`
}

// IsDirectory reports whether the node describes a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Type == NodeTypeDirectory
}

// Child returns the direct child with the provided name, or nil.
func (node *TreeNode) Child(name string) *TreeNode {
	if node == nil {
		return nil
	}
	for _, child := range node.Children {
		if child != nil && child.Name == name {
			return child
		}
	}
	return nil
}

// Walk visits the node and all of its descendants depth first. The depth of
// the receiver is zero.
func (node *TreeNode) Walk(visit func(current *TreeNode, depth int)) {
	walkTreeNode(node, 0, visit)
}

func walkTreeNode(node *TreeNode, depth int, visit func(current *TreeNode, depth int)) {
	if node == nil || visit == nil {
		return
	}
	visit(node, depth)
	for _, child := range node.Children {
		walkTreeNode(child, depth+1, visit)
	}
}
