package commands

import (
	"os"

	"github.com/temirov/repotree/internal/config"
	"github.com/temirov/repotree/internal/types"
)

// ExtractOptions describes one standalone extraction of a local directory.
type ExtractOptions struct {
	Root string
	// MaxDepth limits descent; types.UnlimitedDepth disables the limit.
	MaxDepth int
	// ExcludePatterns are unioned with the basic defaults and the preset.
	ExcludePatterns []string
	// Preset optionally names an ecosystem preset such as "python".
	Preset string
	// RespectIgnoreFile merges the root .gitignore rules into the exclusions.
	RespectIgnoreFile bool
	// UseIgnoreFile also honors a root .ignore file when RespectIgnoreFile is set.
	UseIgnoreFile bool
	// NestedIgnoreFiles honors .gitignore files below the root as well.
	NestedIgnoreFiles bool
	Warn              func(message string)
}

// ExtractStructure validates the exclude set, loads ignore rules and walks Root.
func ExtractStructure(options ExtractOptions) (*types.TreeNode, error) {
	excludePatterns, mergeError := config.MergeExcludePatterns(options.Preset, options.ExcludePatterns)
	if mergeError != nil {
		return nil, mergeError
	}
	if validationError := config.ValidatePatterns(excludePatterns); validationError != nil {
		return nil, validationError
	}

	treeBuilder := NewTreeBuilder(excludePatterns)
	treeBuilder.MaxDepth = options.MaxDepth
	treeBuilder.Warn = options.Warn

	if options.RespectIgnoreFile && isDirectory(options.Root) {
		treeBuilder.IgnoreMatcher = config.LoadIgnoreMatcher(options.Root, config.IgnoreOptions{
			UseGitignore:  true,
			UseIgnoreFile: options.UseIgnoreFile,
			Nested:        options.NestedIgnoreFiles,
			Warn:          treeBuilder.warn,
		})
	}

	return treeBuilder.GetTreeData(options.Root)
}

func isDirectory(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}
