// Package commands contains the structure extraction logic behind each command.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/repotree/internal/config"
	"github.com/temirov/repotree/internal/types"
	"github.com/temirov/repotree/internal/utils"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be listed.
	warningSkipSubdirFormat = "skipping contents of %s: %v"
	// warningStatPathFormat is used when a symbolic link target cannot be inspected.
	warningStatPathFormat = "skipping %s: %v"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRootMissingFormat is used when the root cannot be inspected.
	errorRootMissingFormat = "%w: root %s: %w"
	// errorRootNotDirectoryFormat is used when the root is not a directory.
	errorRootNotDirectoryFormat = "%w: root %s is not a directory"
	// errorReadRootFormat is used when the root directory cannot be listed.
	errorReadRootFormat = "%w: reading root %s: %w"
	// errorPermissionFormat tags unreadable entries.
	errorPermissionFormat = "%w: %v"
)

// GetTreeData walks rootDirectoryPath and returns its retained structure.
// Exclude patterns are validated before anything is read. Failures on single
// entries are reported through Warn and never abort the walk.
func (treeBuilder *TreeBuilder) GetTreeData(rootDirectoryPath string) (*types.TreeNode, error) {
	if validationError := config.ValidatePatterns(treeBuilder.ExcludePatterns); validationError != nil {
		return nil, validationError
	}

	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootInfo, rootStatError := os.Stat(absoluteRootDirPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorRootMissingFormat, types.ErrNotFound, rootDirectoryPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, types.ErrNotFound, rootDirectoryPath)
	}

	rootNode := &types.TreeNode{
		Name: filepath.Base(absoluteRootDirPath),
		Type: types.NodeTypeDirectory,
	}
	if !treeBuilder.expands(0) {
		return rootNode, nil
	}

	children, buildError := treeBuilder.buildTreeNodes(absoluteRootDirPath, absoluteRootDirPath, 0)
	if buildError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, types.ErrNotFound, rootDirectoryPath, buildError)
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildTreeNodes lists the directory at depth and returns its retained, sorted children.
func (treeBuilder *TreeBuilder) buildTreeNodes(currentDirectoryPath string, rootDirectoryPath string, depth int) ([]*types.TreeNode, error) {
	directoryEntries, readDirectoryError := treeBuilder.listDirectory(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, readDirectoryError
	}

	var nodes []*types.TreeNode
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		nodeType, retained := treeBuilder.classifyEntry(childPath, directoryEntry)
		if !retained {
			continue
		}

		isDirectory := nodeType == types.NodeTypeDirectory
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if utils.ShouldExcludeByPath(relativeChildPath, isDirectory, treeBuilder.ExcludePatterns) {
			continue
		}
		if treeBuilder.IgnoreMatcher.Match(relativeChildPath, isDirectory) {
			continue
		}

		node := &types.TreeNode{
			Name: directoryEntry.Name(),
			Type: nodeType,
		}
		if isDirectory && treeBuilder.expands(depth+1) {
			childNodes, buildError := treeBuilder.buildTreeNodes(childPath, rootDirectoryPath, depth+1)
			if buildError != nil {
				treeBuilder.warn(fmt.Sprintf(warningSkipSubdirFormat, childPath, describeEntryError(buildError)))
			}
			node.Children = childNodes
		}
		nodes = append(nodes, node)
	}

	sortTreeNodes(nodes)
	return nodes, nil
}

// classifyEntry decides how an entry appears in the tree. Symbolic links are
// never followed: links to directories or files become file nodes and broken
// links are dropped. Pipes, sockets and devices are dropped.
func (treeBuilder *TreeBuilder) classifyEntry(entryPath string, directoryEntry fs.DirEntry) (string, bool) {
	entryMode := directoryEntry.Type()
	switch {
	case entryMode&fs.ModeSymlink != 0:
		targetInfo, statError := os.Stat(entryPath)
		if statError != nil {
			if !errors.Is(statError, fs.ErrNotExist) {
				treeBuilder.warn(fmt.Sprintf(warningStatPathFormat, entryPath, describeEntryError(statError)))
			}
			return "", false
		}
		if targetInfo.IsDir() || targetInfo.Mode().IsRegular() {
			return types.NodeTypeFile, true
		}
		return "", false
	case entryMode.IsDir():
		return types.NodeTypeDirectory, true
	case entryMode.IsRegular():
		return types.NodeTypeFile, true
	default:
		return "", false
	}
}

// describeEntryError tags permission failures so that diagnostics can be matched with errors.Is.
func describeEntryError(entryError error) error {
	if errors.Is(entryError, fs.ErrPermission) {
		return fmt.Errorf(errorPermissionFormat, types.ErrPermissionDenied, entryError)
	}
	return entryError
}

// sortTreeNodes orders directories before files, each group by case-insensitive name.
func sortTreeNodes(nodes []*types.TreeNode) {
	sort.SliceStable(nodes, func(leftIndex, rightIndex int) bool {
		left, right := nodes[leftIndex], nodes[rightIndex]
		leftIsDirectory, rightIsDirectory := left.IsDirectory(), right.IsDirectory()
		if leftIsDirectory != rightIsDirectory {
			return leftIsDirectory
		}
		leftFolded, rightFolded := strings.ToLower(left.Name), strings.ToLower(right.Name)
		if leftFolded != rightFolded {
			return leftFolded < rightFolded
		}
		return left.Name < right.Name
	})
}
