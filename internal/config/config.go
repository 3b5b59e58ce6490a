// Package config loads ignore files, exclude presets and application configuration.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/temirov/repotree/internal/types"
	"github.com/temirov/repotree/internal/utils"
)

const (
	// errorInvalidPatternFormat reports a malformed glob supplied by the caller.
	errorInvalidPatternFormat = "%w: %q: %v"
	// commentPrefix starts a comment line in ignore files.
	commentPrefix = "#"
)

// LoadIgnoreFilePatterns reads a specified ignore file and returns its patterns.
// Blank lines and comments are skipped. A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	return scanIgnoreLines(fileHandle)
}

// scanIgnoreLines returns the non-blank, non-comment lines of an ignore file.
func scanIgnoreLines(reader io.Reader) ([]string, error) {
	var ignorePatterns []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// ValidatePatterns checks every exclude pattern before any traversal begins.
// The first malformed pattern is reported wrapped in types.ErrInvalidPattern.
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if validationError := utils.ValidatePattern(pattern); validationError != nil {
			return fmt.Errorf(errorInvalidPatternFormat, types.ErrInvalidPattern, pattern, validationError)
		}
	}
	return nil
}

// MergeExcludePatterns unions the basic defaults, the named preset and the
// caller's patterns, in that order, dropping duplicates. An empty preset name
// selects no preset. Caller patterns never replace the defaults.
func MergeExcludePatterns(presetName string, callerPatterns []string) ([]string, error) {
	merged := BasicExcludes()
	if strings.TrimSpace(presetName) != "" {
		presetPatterns, presetError := PresetExcludes(presetName)
		if presetError != nil {
			return nil, presetError
		}
		merged = append(merged, presetPatterns...)
	}
	merged = append(merged, callerPatterns...)
	return utils.DeduplicatePatterns(merged), nil
}
