package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/repotree/internal/utils"
)

// textFileName defines the name of the text file used in tests.
const textFileName = "sample.txt"

// nestedDirectoryName defines the directory used for nested path tests.
const nestedDirectoryName = "subdir"

// nodeModulesDirectoryName defines a dependency cache directory name.
const nodeModulesDirectoryName = "node_modules"

// nodeModulesFilePath defines a file inside a nested node_modules directory.
const nodeModulesFilePath = nestedDirectoryName + "/" + nodeModulesDirectoryName + "/index.js"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate and blank patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "drops blanks and trims",
			patterns: []string{" a ", "", "   ", "a"},
			expected: []string{"a"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	subPath := filepath.Join(temporaryRoot, textFileName)
	creationError := os.WriteFile(subPath, []byte("content"), 0600)
	if creationError != nil {
		testingInstance.Fatalf("failed to create file: %v", creationError)
	}
	testCases := []struct {
		testName string
		fullPath string
		root     string
		expected string
	}{
		{
			testName: "root path returns dot",
			fullPath: temporaryRoot,
			root:     temporaryRoot,
			expected: ".",
		},
		{
			testName: "sub path returns relative",
			fullPath: subPath,
			root:     temporaryRoot,
			expected: textFileName,
		},
	}
	for index, testCase := range testCases {
		actual := utils.RelativePathOrSelf(testCase.fullPath, testCase.root)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestShouldExcludeByPath pins down the exclude pattern semantics.
func TestShouldExcludeByPath(testingInstance *testing.T) {
	testCases := []struct {
		testName        string
		relativePath    string
		isDirectory     bool
		patterns        []string
		expectedExclude bool
	}{
		{
			testName:        "basename matches at root",
			relativePath:    ".git",
			isDirectory:     true,
			patterns:        []string{".git"},
			expectedExclude: true,
		},
		{
			testName:        "basename matches at any depth",
			relativePath:    nestedDirectoryName + "/" + nodeModulesDirectoryName,
			isDirectory:     true,
			patterns:        []string{nodeModulesDirectoryName},
			expectedExclude: true,
		},
		{
			testName:        "descendant of excluded name",
			relativePath:    nodeModulesFilePath,
			isDirectory:     false,
			patterns:        []string{nodeModulesDirectoryName},
			expectedExclude: true,
		},
		{
			testName:        "wildcard file pattern",
			relativePath:    "pkg/module.pyc",
			isDirectory:     false,
			patterns:        []string{"*.pyc"},
			expectedExclude: true,
		},
		{
			testName:        "wildcard does not match other extension",
			relativePath:    "pkg/module.py",
			isDirectory:     false,
			patterns:        []string{"*.pyc"},
			expectedExclude: false,
		},
		{
			testName:        "directory pattern skips files",
			relativePath:    "build",
			isDirectory:     false,
			patterns:        []string{"build/"},
			expectedExclude: false,
		},
		{
			testName:        "directory pattern matches directories",
			relativePath:    "src/build",
			isDirectory:     true,
			patterns:        []string{"build/"},
			expectedExclude: true,
		},
		{
			testName:        "path pattern anchored at root",
			relativePath:    "docs/generated",
			isDirectory:     true,
			patterns:        []string{"docs/generated"},
			expectedExclude: true,
		},
		{
			testName:        "path pattern does not match elsewhere",
			relativePath:    "other/docs/generated",
			isDirectory:     true,
			patterns:        []string{"docs/generated"},
			expectedExclude: false,
		},
		{
			testName:        "path pattern with wildcard segment",
			relativePath:    "docs/notes.txt",
			isDirectory:     false,
			patterns:        []string{"docs/*.txt"},
			expectedExclude: true,
		},
		{
			testName:        "leading slash anchors single segment",
			relativePath:    "src/out",
			isDirectory:     true,
			patterns:        []string{"/out"},
			expectedExclude: false,
		},
		{
			testName:        "leading slash matches at root",
			relativePath:    "out",
			isDirectory:     true,
			patterns:        []string{"/out"},
			expectedExclude: true,
		},
		{
			testName:        "backslash pattern is normalized",
			relativePath:    nodeModulesFilePath,
			isDirectory:     false,
			patterns:        []string{nestedDirectoryName + `\` + nodeModulesDirectoryName + `\`},
			expectedExclude: true,
		},
		{
			testName:        "root itself never excluded",
			relativePath:    ".",
			isDirectory:     true,
			patterns:        []string{"*"},
			expectedExclude: false,
		},
	}
	for index, testCase := range testCases {
		actual := utils.ShouldExcludeByPath(testCase.relativePath, testCase.isDirectory, testCase.patterns)
		if actual != testCase.expectedExclude {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expectedExclude, actual)
		}
	}
}

// TestValidatePattern verifies that malformed globs are rejected.
func TestValidatePattern(testingInstance *testing.T) {
	testCases := []struct {
		testName    string
		pattern     string
		expectValid bool
	}{
		{testName: "plain name", pattern: "node_modules", expectValid: true},
		{testName: "wildcard", pattern: "*.pyc", expectValid: true},
		{testName: "character class", pattern: "file[0-9].txt", expectValid: true},
		{testName: "path pattern", pattern: "docs/*/generated/", expectValid: true},
		{testName: "unterminated class", pattern: "file[", expectValid: false},
		{testName: "bad segment in path", pattern: "docs/[a-/x", expectValid: false},
		{testName: "empty", pattern: "  ", expectValid: false},
	}
	for index, testCase := range testCases {
		validationError := utils.ValidatePattern(testCase.pattern)
		if testCase.expectValid && validationError != nil {
			testingInstance.Errorf("case %d (%s): unexpected error %v", index, testCase.testName, validationError)
		}
		if !testCase.expectValid && validationError == nil {
			testingInstance.Errorf("case %d (%s): expected an error", index, testCase.testName)
		}
		if testCase.pattern == "file[" && !errors.Is(validationError, filepath.ErrBadPattern) {
			testingInstance.Errorf("case %d (%s): expected filepath.ErrBadPattern, got %v", index, testCase.testName, validationError)
		}
	}
}
