package commands

import (
	"io/fs"
	"os"

	"github.com/temirov/repotree/internal/config"
	"github.com/temirov/repotree/internal/types"
)

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	// ExcludePatterns is the complete, merged exclude set. It is validated before the walk.
	ExcludePatterns []string
	// IgnoreMatcher applies ignore-file rules; nil disables them.
	IgnoreMatcher *config.IgnoreMatcher
	// MaxDepth limits descent; types.UnlimitedDepth (or any negative value) disables the limit.
	MaxDepth int
	// Warn receives non-fatal diagnostics such as unreadable entries.
	Warn func(message string)

	readDirectory func(directoryPath string) ([]fs.DirEntry, error)
}

// NewTreeBuilder returns a builder without a depth limit.
func NewTreeBuilder(excludePatterns []string) *TreeBuilder {
	return &TreeBuilder{
		ExcludePatterns: excludePatterns,
		MaxDepth:        types.UnlimitedDepth,
	}
}

func (treeBuilder *TreeBuilder) expands(depth int) bool {
	return treeBuilder.MaxDepth < 0 || depth < treeBuilder.MaxDepth
}

func (treeBuilder *TreeBuilder) listDirectory(directoryPath string) ([]fs.DirEntry, error) {
	if treeBuilder.readDirectory != nil {
		return treeBuilder.readDirectory(directoryPath)
	}
	return os.ReadDir(directoryPath)
}

func (treeBuilder *TreeBuilder) warn(message string) {
	if treeBuilder.Warn != nil {
		treeBuilder.Warn(message)
	}
}
