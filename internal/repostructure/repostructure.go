// Package repostructure fetches a repository and extracts its directory tree.
package repostructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/repotree/internal/commands"
	"github.com/temirov/repotree/internal/config"
	"github.com/temirov/repotree/internal/fetch"
	"github.com/temirov/repotree/internal/progress"
	"github.com/temirov/repotree/internal/types"
)

const errorLocalPathFormat = "%w: local path is empty for %s"

// Options configures GetRepoStructure.
type Options struct {
	Repository string
	LocalPath  string
	Token      string
	Username   string
	Reference  string
	// Depth requests a shallow clone when positive.
	Depth int

	// MaxDepth limits the walk; nil means no limit and zero yields the root alone.
	MaxDepth *int
	// ExcludePatterns are unioned with the basic defaults; nil keeps the defaults only.
	ExcludePatterns []string
	Preset          string
	// RespectIgnoreFile defaults to true when nil.
	RespectIgnoreFile *bool
	UseIgnoreFile     bool
	NestedIgnoreFiles bool

	Progress progress.Sink
	Warn     func(message string)
	// Fetcher defaults to a go-git fetcher.
	Fetcher fetch.Fetcher
}

// GetRepoStructure materializes Repository at LocalPath and returns its tree.
// Patterns and the preset are validated before anything is fetched.
func GetRepoStructure(ctx context.Context, options Options) (*types.TreeNode, error) {
	if strings.TrimSpace(options.LocalPath) == "" {
		return nil, fmt.Errorf(errorLocalPathFormat, types.ErrNotFound, options.Repository)
	}
	excludePatterns, mergeError := config.MergeExcludePatterns(options.Preset, options.ExcludePatterns)
	if mergeError != nil {
		return nil, mergeError
	}
	if validationError := config.ValidatePatterns(excludePatterns); validationError != nil {
		return nil, validationError
	}

	fetcher := options.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewGitFetcher()
	}
	fetchResult, fetchError := fetcher.Fetch(ctx, fetch.Params{
		Repository: options.Repository,
		Reference:  options.Reference,
		Directory:  options.LocalPath,
		Token:      options.Token,
		Username:   options.Username,
		Depth:      options.Depth,
		Progress:   progress.OrDiscard(options.Progress),
	})
	if fetchError != nil {
		return nil, fetchError
	}

	maxDepth := types.UnlimitedDepth
	if options.MaxDepth != nil {
		maxDepth = *options.MaxDepth
	}
	respectIgnoreFile := true
	if options.RespectIgnoreFile != nil {
		respectIgnoreFile = *options.RespectIgnoreFile
	}
	return commands.ExtractStructure(commands.ExtractOptions{
		Root:              fetchResult.Directory,
		MaxDepth:          maxDepth,
		ExcludePatterns:   options.ExcludePatterns,
		Preset:            options.Preset,
		RespectIgnoreFile: respectIgnoreFile,
		UseIgnoreFile:     options.UseIgnoreFile,
		NestedIgnoreFiles: options.NestedIgnoreFiles,
		Warn:              options.Warn,
	})
}
