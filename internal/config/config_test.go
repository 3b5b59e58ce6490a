package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/temirov/repotree/internal/types"
	"github.com/temirov/repotree/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create parent of %s: %v", filePath, makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreFilePatternsSkipsCommentsAndBlanks verifies ignore file parsing.
func TestLoadIgnoreFilePatternsSkipsCommentsAndBlanks(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	ignoreFilePath := filepath.Join(rootDirectory, utils.GitIgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# build output\n\n*.log\r\n  dist/  \n!keep.log\n")

	patternList, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	expectedPatterns := []string{"*.log", "dist/", "!keep.log"}
	if !reflect.DeepEqual(patternList, expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patternList, expectedPatterns)
	}
}

// TestLoadIgnoreFilePatternsMissingFile verifies that a missing file is not an error.
func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	patternList, loadError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), utils.GitIgnoreFileName))
	if loadError != nil {
		testingHandle.Fatalf("unexpected error: %v", loadError)
	}
	if len(patternList) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", patternList)
	}
}

// TestValidatePatternsReportsInvalidPattern verifies eager glob validation.
func TestValidatePatternsReportsInvalidPattern(testingHandle *testing.T) {
	if validationError := ValidatePatterns([]string{"*.pyc", "docs/*/", "node_modules"}); validationError != nil {
		testingHandle.Fatalf("unexpected error: %v", validationError)
	}
	validationError := ValidatePatterns([]string{"ok", "broken["})
	if !errors.Is(validationError, types.ErrInvalidPattern) {
		testingHandle.Fatalf("expected ErrInvalidPattern, got %v", validationError)
	}
	if !strings.Contains(validationError.Error(), "broken[") {
		testingHandle.Fatalf("expected error to name the pattern, got %v", validationError)
	}
}

// TestMergeExcludePatterns verifies that defaults, presets and caller patterns are unioned in order.
func TestMergeExcludePatterns(testingHandle *testing.T) {
	testCases := []struct {
		testName       string
		presetName     string
		callerPatterns []string
		expected       []string
		expectError    bool
	}{
		{
			testName: "defaults only",
			expected: []string{".git", "node_modules", "venv"},
		},
		{
			testName:       "caller patterns appended without replacing defaults",
			callerPatterns: []string{"*.log", "venv"},
			expected:       []string{".git", "node_modules", "venv", "*.log"},
		},
		{
			testName:       "preset layered between defaults and caller",
			presetName:     PresetNode,
			callerPatterns: []string{"tmp"},
			expected:       []string{".git", "node_modules", "venv", "dist", "build", ".idea", ".vscode", "coverage", "tmp"},
		},
		{
			testName:    "unknown preset",
			presetName:  "cobol",
			expectError: true,
		},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.testName, func(testingHandle *testing.T) {
			merged, mergeError := MergeExcludePatterns(testCase.presetName, testCase.callerPatterns)
			if testCase.expectError {
				if mergeError == nil {
					testingHandle.Fatalf("expected error for preset %q", testCase.presetName)
				}
				return
			}
			if mergeError != nil {
				testingHandle.Fatalf("unexpected error: %v", mergeError)
			}
			if !reflect.DeepEqual(merged, testCase.expected) {
				testingHandle.Fatalf("unexpected patterns: got %v want %v", merged, testCase.expected)
			}
		})
	}
}

// TestPresetExcludesAreIsolated verifies that callers cannot mutate the preset values.
func TestPresetExcludesAreIsolated(testingHandle *testing.T) {
	firstCopy, presetError := PresetExcludes("Python")
	if presetError != nil {
		testingHandle.Fatalf("unexpected error: %v", presetError)
	}
	firstCopy[0] = "mutated"
	secondCopy, _ := PresetExcludes(PresetPython)
	if secondCopy[0] != utils.GitDirectoryName {
		testingHandle.Fatalf("preset was mutated: %v", secondCopy)
	}
	basic := BasicExcludes()
	basic[0] = "mutated"
	if BasicExcludes()[0] != utils.GitDirectoryName {
		testingHandle.Fatalf("basic excludes were mutated")
	}
	if !reflect.DeepEqual(PresetNames(), []string{PresetJava, PresetNode, PresetPython}) {
		testingHandle.Fatalf("unexpected preset names %v", PresetNames())
	}
}

// TestLoadIgnoreMatcherRootGitignore verifies gitignore semantics against relative paths.
func TestLoadIgnoreMatcherRootGitignore(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "*.log\nbuild/\n/secret.txt\n!keep.log\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "nested", utils.GitIgnoreFileName), "*.md\n")

	ignoreMatcher := LoadIgnoreMatcher(rootDirectory, IgnoreOptions{UseGitignore: true})
	testCases := []struct {
		relativePath string
		isDirectory  bool
		expected     bool
	}{
		{relativePath: "app.log", expected: true},
		{relativePath: "logs/app.log", expected: true},
		{relativePath: "keep.log", expected: false},
		{relativePath: "build", isDirectory: true, expected: true},
		{relativePath: "build", isDirectory: false, expected: false},
		{relativePath: "secret.txt", expected: true},
		{relativePath: "nested/secret.txt", expected: false},
		{relativePath: "nested/readme.md", expected: false},
		{relativePath: ".", isDirectory: true, expected: false},
	}
	for _, testCase := range testCases {
		if actual := ignoreMatcher.Match(testCase.relativePath, testCase.isDirectory); actual != testCase.expected {
			testingHandle.Errorf("%s (dir=%t): expected %t, got %t", testCase.relativePath, testCase.isDirectory, testCase.expected, actual)
		}
	}
}

// TestLoadIgnoreMatcherNestedGitignore verifies that nested .gitignore rules are scoped to their directory.
func TestLoadIgnoreMatcherNestedGitignore(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "*.log\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "nested", utils.GitIgnoreFileName), "*.md\n")

	ignoreMatcher := LoadIgnoreMatcher(rootDirectory, IgnoreOptions{UseGitignore: true, Nested: true})
	if !ignoreMatcher.Match("nested/readme.md", false) {
		testingHandle.Fatalf("expected nested rule to apply inside its directory")
	}
	if ignoreMatcher.Match("readme.md", false) {
		testingHandle.Fatalf("expected nested rule not to apply at the root")
	}
	if !ignoreMatcher.Match("nested/debug.log", false) {
		testingHandle.Fatalf("expected root rule to apply in nested directory")
	}
}

// unreadableFilesystem fails to list one directory and to open one file.
type unreadableFilesystem struct {
	billy.Filesystem
	unreadableDirectory string
	unreadableFile      string
}

func (filesystem unreadableFilesystem) ReadDir(path string) ([]os.FileInfo, error) {
	if path == filesystem.unreadableDirectory {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}
	return filesystem.Filesystem.ReadDir(path)
}

func (filesystem unreadableFilesystem) Open(path string) (billy.File, error) {
	if path == filesystem.unreadableFile {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}
	return filesystem.Filesystem.Open(path)
}

// TestLoadIgnoreMatcherKeepsReadableRules verifies that an unreadable directory or
// ignore file is reported and skipped while every other rule still applies.
func TestLoadIgnoreMatcherKeepsReadableRules(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "*.log\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "*.bak\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "open", utils.GitIgnoreFileName), "*.md\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "locked", utils.GitIgnoreFileName), "*.txt\n")

	var warnings []string
	ignoreMatcher := loadIgnoreMatcher(unreadableFilesystem{
		Filesystem:          osfs.New(rootDirectory),
		unreadableDirectory: "locked",
		unreadableFile:      utils.IgnoreFileName,
	}, IgnoreOptions{
		UseGitignore:  true,
		UseIgnoreFile: true,
		Nested:        true,
		Warn:          func(message string) { warnings = append(warnings, message) },
	})

	testCases := []struct {
		relativePath string
		expected     bool
	}{
		{relativePath: "debug.log", expected: true},
		{relativePath: "locked/debug.log", expected: true},
		{relativePath: "open/readme.md", expected: true},
		{relativePath: "locked/notes.txt", expected: false},
		{relativePath: "backup.bak", expected: false},
	}
	for _, testCase := range testCases {
		if actual := ignoreMatcher.Match(testCase.relativePath, false); actual != testCase.expected {
			testingHandle.Errorf("%s: expected %t, got %t", testCase.relativePath, testCase.expected, actual)
		}
	}
	if len(warnings) != 2 {
		testingHandle.Fatalf("expected two warnings, got %v", warnings)
	}
	for _, warning := range warnings {
		if !strings.Contains(warning, types.ErrPermissionDenied.Error()) {
			testingHandle.Errorf("expected a permission warning, got %q", warning)
		}
	}
	if !strings.Contains(warnings[0], utils.IgnoreFileName) || !strings.Contains(warnings[1], "locked") {
		testingHandle.Errorf("expected warnings naming %s and locked, got %v", utils.IgnoreFileName, warnings)
	}
}

// TestLoadIgnoreMatcherIgnoreFile verifies .ignore support and the disabled case.
func TestLoadIgnoreMatcherIgnoreFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "fixtures/\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "*.tmp\n")

	ignoreMatcher := LoadIgnoreMatcher(rootDirectory, IgnoreOptions{UseIgnoreFile: true})
	if !ignoreMatcher.Match("fixtures", true) {
		testingHandle.Fatalf("expected .ignore rule to apply")
	}
	if ignoreMatcher.Match("scratch.tmp", false) {
		testingHandle.Fatalf("expected .gitignore to be skipped")
	}
	if ignoreMatcher.Len() != 1 {
		testingHandle.Fatalf("expected one rule, got %d", ignoreMatcher.Len())
	}

	disabledMatcher := LoadIgnoreMatcher(rootDirectory, IgnoreOptions{})
	if disabledMatcher != nil {
		testingHandle.Fatalf("expected nil matcher when disabled, got %v", disabledMatcher)
	}
	if disabledMatcher.Match("scratch.tmp", false) {
		testingHandle.Fatalf("nil matcher must not match")
	}
}
