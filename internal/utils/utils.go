// Package utils contains general helper functions used across the repotree tool.
package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank patterns are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ValidatePattern reports whether every segment of the glob pattern is well formed.
func ValidatePattern(pattern string) error {
	normalizedPattern := normalizePattern(pattern)
	if normalizedPattern == "" {
		return fmt.Errorf("pattern %q is empty", pattern)
	}
	for _, patternSegment := range strings.Split(normalizedPattern, pathSegmentSeparator) {
		if _, matchError := filepath.Match(patternSegment, ""); matchError != nil {
			return matchError
		}
	}
	return nil
}

// ShouldExcludeByPath reports whether a path relative to the processing root
// is removed by any of the exclude patterns. The candidate path and every
// pattern are converted to forward-slash form before evaluation.
//
// A pattern without an inner separator is compared with filepath.Match against
// every segment of the path, so "node_modules" excludes that name at any
// depth along with everything below it. A trailing slash restricts the final
// segment to directories. A pattern with an inner separator, or a leading one,
// is anchored at the root and matched segment by segment; it also excludes the
// descendants of whatever it matches.
func ShouldExcludeByPath(relativePath string, isDirectory bool, excludePatterns []string) bool {
	normalizedPath := strings.Trim(strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator), pathSegmentSeparator)
	if normalizedPath == "" || normalizedPath == "." {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	lastSegmentIndex := len(pathSegments) - 1

	for _, patternValue := range excludePatterns {
		rawPattern := strings.ReplaceAll(strings.TrimSpace(patternValue), "\\", pathSegmentSeparator)
		isDirectoryPattern := strings.HasSuffix(rawPattern, pathSegmentSeparator)
		isAnchored := strings.HasPrefix(rawPattern, pathSegmentSeparator)
		normalizedPattern := normalizePattern(rawPattern)
		if normalizedPattern == "" {
			continue
		}
		patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)

		if len(patternSegments) == 1 && !isAnchored {
			for segmentIndex, pathSegment := range pathSegments {
				if segmentIndex == lastSegmentIndex && isDirectoryPattern && !isDirectory {
					continue
				}
				isMatched, matchError := filepath.Match(patternSegments[0], pathSegment)
				if matchError == nil && isMatched {
					return true
				}
			}
			continue
		}

		if len(pathSegments) < len(patternSegments) {
			continue
		}
		if !segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
			continue
		}
		if len(pathSegments) == len(patternSegments) && isDirectoryPattern && !isDirectory {
			continue
		}
		return true
	}

	return false
}

// normalizePattern converts a pattern to forward-slash form without leading or trailing separators.
func normalizePattern(pattern string) string {
	normalizedPattern := strings.ReplaceAll(strings.TrimSpace(pattern), "\\", pathSegmentSeparator)
	return strings.Trim(normalizedPattern, pathSegmentSeparator)
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}
