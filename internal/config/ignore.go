package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/repotree/internal/types"
	"github.com/temirov/repotree/internal/utils"
)

const (
	warningIgnoreFileFormat      = "skipping ignore file %s: %v"
	warningIgnoreDirectoryFormat = "skipping ignore files under %s: %v"
	errorPermissionFormat        = "%w: %v"
)

// IgnoreOptions selects which ignore files contribute rules.
type IgnoreOptions struct {
	// UseGitignore reads .gitignore at the root.
	UseGitignore bool
	// UseIgnoreFile reads .ignore at the root.
	UseIgnoreFile bool
	// Nested additionally reads .gitignore files in every subdirectory, scoped to that directory.
	Nested bool
	// Warn receives ignore files and directories that could not be read.
	Warn func(message string)
}

// IgnoreMatcher evaluates gitignore rules against root-relative paths.
type IgnoreMatcher struct {
	matcher      gitignore.Matcher
	patternCount int
}

// LoadIgnoreMatcher reads the ignore files under rootDirectoryPath selected by options.
// Missing files contribute nothing. Unreadable files and directories are reported
// through options.Warn and skipped; the rules read elsewhere still apply.
// A nil matcher is returned when no file is enabled.
func LoadIgnoreMatcher(rootDirectoryPath string, options IgnoreOptions) *IgnoreMatcher {
	return loadIgnoreMatcher(osfs.New(rootDirectoryPath), options)
}

func loadIgnoreMatcher(filesystem billy.Filesystem, options IgnoreOptions) *IgnoreMatcher {
	if !options.UseGitignore && !options.UseIgnoreFile {
		return nil
	}
	loader := ignoreLoader{filesystem: filesystem, warn: options.Warn}

	var patterns []gitignore.Pattern
	if options.UseIgnoreFile {
		patterns = append(patterns, loader.readFile(nil, utils.IgnoreFileName)...)
	}
	if options.UseGitignore {
		patterns = append(patterns, loader.readFile(nil, utils.GitIgnoreFileName)...)
		if options.Nested {
			patterns = loader.readNested(nil, patterns)
		}
	}

	return &IgnoreMatcher{
		matcher:      gitignore.NewMatcher(patterns),
		patternCount: len(patterns),
	}
}

type ignoreLoader struct {
	filesystem billy.Filesystem
	warn       func(message string)
}

// readFile parses one ignore file in the directory named by domain.
func (loader ignoreLoader) readFile(domain []string, fileName string) []gitignore.Pattern {
	filePath := loader.filesystem.Join(append(append([]string{}, domain...), fileName)...)
	fileHandle, openError := loader.filesystem.Open(filePath)
	if errors.Is(openError, fs.ErrNotExist) {
		return nil
	}
	if openError != nil {
		loader.report(warningIgnoreFileFormat, filePath, openError)
		return nil
	}
	defer fileHandle.Close()

	lines, scanError := scanIgnoreLines(fileHandle)
	if scanError != nil {
		loader.report(warningIgnoreFileFormat, filePath, scanError)
		return nil
	}
	patterns := make([]gitignore.Pattern, 0, len(lines))
	for _, line := range lines {
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns
}

// readNested appends the .gitignore rules of domain and of every directory below it
// to patterns. The root file is read by the caller. Directories already ignored by
// the rules collected so far are not entered, nor is .git.
func (loader ignoreLoader) readNested(domain []string, patterns []gitignore.Pattern) []gitignore.Pattern {
	directoryPath := loader.filesystem.Join(domain...)
	entries, readError := loader.filesystem.ReadDir(directoryPath)
	if readError != nil {
		loader.report(warningIgnoreDirectoryFormat, directoryPath, readError)
		return patterns
	}
	if len(domain) > 0 {
		patterns = append(patterns, loader.readFile(domain, utils.GitIgnoreFileName)...)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == utils.GitDirectoryName {
			continue
		}
		childDomain := append(append([]string{}, domain...), entry.Name())
		if gitignore.NewMatcher(patterns).Match(childDomain, true) {
			continue
		}
		patterns = loader.readNested(childDomain, patterns)
	}
	return patterns
}

func (loader ignoreLoader) report(format string, path string, cause error) {
	if loader.warn == nil {
		return
	}
	if errors.Is(cause, fs.ErrPermission) {
		cause = fmt.Errorf(errorPermissionFormat, types.ErrPermissionDenied, cause)
	}
	loader.warn(fmt.Sprintf(format, path, cause))
}

// Match reports whether the root-relative path is ignored.
func (ignoreMatcher *IgnoreMatcher) Match(relativePath string, isDirectory bool) bool {
	if ignoreMatcher == nil || ignoreMatcher.patternCount == 0 {
		return false
	}
	normalizedPath := strings.Trim(filepath.ToSlash(relativePath), "/")
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	return ignoreMatcher.matcher.Match(strings.Split(normalizedPath, "/"), isDirectory)
}

// Len returns the number of compiled rules.
func (ignoreMatcher *IgnoreMatcher) Len() int {
	if ignoreMatcher == nil {
		return 0
	}
	return ignoreMatcher.patternCount
}
