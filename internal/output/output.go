// Package output renders extracted trees in the supported formats.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repotree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader      = xml.Header
	xmlRootElement = "results"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directorySuffix     = "/"

	summaryLineFormat      = "Summary: %d %s, %d %s"
	errorUnsupportedFormat = "unsupported output format %q"
	emptyJSONArray         = "[]"
	singularDirectoryLabel = "directory"
	pluralDirectoryLabel   = "directories"
	singularFileLabel      = "file"
	pluralFileLabel        = "files"
)

// RenderOptions tunes the raw renderer.
type RenderOptions struct {
	// Color highlights directory names.
	Color bool
	// Summary appends directory and file counts to each raw tree.
	Summary bool
}

// Render dispatches to the renderer for format.
func Render(format string, nodes []*types.TreeNode, options RenderOptions) (string, error) {
	switch format {
	case types.FormatJSON:
		return RenderTreeJSON(nodes)
	case types.FormatXML:
		return RenderTreeXML(nodes)
	case types.FormatYAML:
		return RenderTreeYAML(nodes)
	case types.FormatRaw:
		return RenderTreeRaw(nodes, options), nil
	default:
		return "", fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// RenderTreeJSON marshals a single tree as an object and several trees as an array.
func RenderTreeJSON(nodes []*types.TreeNode) (string, error) {
	switch len(nodes) {
	case 0:
		return emptyJSONArray, nil
	case 1:
		encoded, jsonEncodeError := json.MarshalIndent(nodes[0], indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	default:
		encoded, jsonEncodeError := json.MarshalIndent(nodes, indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	}
}

// RenderTreeXML marshals a single tree as a <node> document and several trees inside <results>.
func RenderTreeXML(nodes []*types.TreeNode) (string, error) {
	var document interface{}
	if len(nodes) == 1 {
		document = nodes[0]
	} else {
		document = struct {
			XMLName xml.Name          `xml:""`
			Nodes   []*types.TreeNode `xml:"node"`
		}{
			XMLName: xml.Name{Local: xmlRootElement},
			Nodes:   nodes,
		}
	}
	encoded, xmlMarshalError := xml.MarshalIndent(document, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// RenderTreeYAML marshals a single tree as a mapping and several trees as a sequence.
func RenderTreeYAML(nodes []*types.TreeNode) (string, error) {
	var document interface{} = nodes
	if len(nodes) == 1 {
		document = nodes[0]
	}
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return "", encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return buffer.String(), nil
}

// RenderTreeRaw draws every tree with box-drawing connectors, separated by blank lines.
func RenderTreeRaw(nodes []*types.TreeNode, options RenderOptions) string {
	var buffer bytes.Buffer
	for index, node := range nodes {
		if index > 0 {
			buffer.WriteString("\n")
		}
		WriteTreeRaw(&buffer, node, options)
	}
	return buffer.String()
}

// WriteTreeRaw draws one tree to writer.
func WriteTreeRaw(writer io.Writer, node *types.TreeNode, options RenderOptions) {
	if node == nil {
		return
	}
	directoryColor := color.New(color.FgBlue, color.Bold)
	if options.Color {
		directoryColor.EnableColor()
	} else {
		directoryColor.DisableColor()
	}
	renderTreeNode(writer, node, "", directoryColor, true, true)
	if options.Summary {
		fmt.Fprintln(writer, FormatSummaryLine(SummarizeTree(node)))
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeNode, prefix string, directoryColor *color.Color, isRoot bool, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	if !node.IsDirectory() {
		fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Name)
		return
	}
	fmt.Fprintf(writer, "%s%s\n", linePrefix, directoryColor.Sprint(node.Name+directorySuffix))
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, directoryColor, false, index == len(node.Children)-1)
	}
}

// Summary counts the nodes below a tree root.
type Summary struct {
	Directories int
	Files       int
}

// SummarizeTree counts the directories and files below node, excluding node itself.
func SummarizeTree(node *types.TreeNode) Summary {
	var summary Summary
	node.Walk(func(current *types.TreeNode, depth int) {
		if depth == 0 {
			return
		}
		if current.IsDirectory() {
			summary.Directories++
		} else {
			summary.Files++
		}
	})
	return summary
}

// FormatSummaryLine formats a Summary into the raw summary line.
func FormatSummaryLine(summary Summary) string {
	directoryLabel := pluralDirectoryLabel
	if summary.Directories == 1 {
		directoryLabel = singularDirectoryLabel
	}
	fileLabel := pluralFileLabel
	if summary.Files == 1 {
		fileLabel = singularFileLabel
	}
	return fmt.Sprintf(summaryLineFormat, summary.Directories, directoryLabel, summary.Files, fileLabel)
}
