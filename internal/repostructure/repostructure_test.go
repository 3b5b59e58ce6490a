package repostructure_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/repotree/internal/fetch"
	"github.com/temirov/repotree/internal/progress"
	"github.com/temirov/repotree/internal/repostructure"
	"github.com/temirov/repotree/internal/types"
)

const testRepositoryLocator = "https://example.com/owner/project.git"

// stubFetcher populates the destination with a fixed layout instead of cloning.
type stubFetcher struct {
	files      []string
	fetchError error
	calls      int
	lastParams fetch.Params
}

func (fetcher *stubFetcher) Fetch(_ context.Context, params fetch.Params) (fetch.Result, error) {
	fetcher.calls++
	fetcher.lastParams = params
	if fetcher.fetchError != nil {
		return fetch.Result{}, fetcher.fetchError
	}
	for _, relativePath := range fetcher.files {
		fullPath := filepath.Join(params.Directory, filepath.FromSlash(relativePath))
		if makeDirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); makeDirError != nil {
			return fetch.Result{}, makeDirError
		}
		if writeError := os.WriteFile(fullPath, []byte("x"), 0o644); writeError != nil {
			return fetch.Result{}, writeError
		}
	}
	params.Progress.OnProgress(progress.Update{Stage: "Receiving objects", Current: 1, Total: 1})
	return fetch.Result{Directory: params.Directory}, nil
}

// TestGetRepoStructureDefaults verifies defaults: unlimited depth, basic excludes and gitignore.
func TestGetRepoStructureDefaults(testingHandle *testing.T) {
	localPath := filepath.Join(testingHandle.TempDir(), "project")
	fetcher := &stubFetcher{files: []string{"src/main.py", "README.md", ".git/config", "debug.log"}}
	if writeError := os.MkdirAll(localPath, 0o755); writeError != nil {
		testingHandle.Fatalf("mkdir: %v", writeError)
	}
	if writeError := os.WriteFile(filepath.Join(localPath, ".gitignore"), []byte("*.log\n"), 0o644); writeError != nil {
		testingHandle.Fatalf("write .gitignore: %v", writeError)
	}

	var updates []progress.Update
	rootNode, structureError := repostructure.GetRepoStructure(context.Background(), repostructure.Options{
		Repository: testRepositoryLocator,
		LocalPath:  localPath,
		Token:      "secret",
		Reference:  "main",
		Progress:   progress.SinkFunc(func(update progress.Update) { updates = append(updates, update) }),
		Fetcher:    fetcher,
	})
	if structureError != nil {
		testingHandle.Fatalf("GetRepoStructure failed: %v", structureError)
	}
	encoded, _ := json.Marshal(rootNode)
	expected := `{"name":"project","type":"directory","children":[{"name":"src","type":"directory","children":[{"name":"main.py","type":"file"}]},{"name":".gitignore","type":"file"},{"name":"README.md","type":"file"}]}`
	if string(encoded) != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant\n%s", encoded, expected)
	}
	if fetcher.lastParams.Token != "secret" || fetcher.lastParams.Reference != "main" || fetcher.lastParams.Repository != testRepositoryLocator {
		testingHandle.Fatalf("unexpected fetch params %+v", fetcher.lastParams)
	}
	if len(updates) != 1 {
		testingHandle.Fatalf("expected progress to reach the caller, got %v", updates)
	}
}

// TestGetRepoStructureOptions verifies depth, caller patterns and a disabled ignore file.
func TestGetRepoStructureOptions(testingHandle *testing.T) {
	localPath := filepath.Join(testingHandle.TempDir(), "project")
	if makeDirError := os.MkdirAll(localPath, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if writeError := os.WriteFile(filepath.Join(localPath, ".gitignore"), []byte("*.log\n"), 0o644); writeError != nil {
		testingHandle.Fatalf("write .gitignore: %v", writeError)
	}
	fetcher := &stubFetcher{files: []string{"a/b/c.txt", "debug.log", "notes.tmp"}}
	maxDepth := 1
	respectIgnoreFile := false

	rootNode, structureError := repostructure.GetRepoStructure(context.Background(), repostructure.Options{
		Repository:        testRepositoryLocator,
		LocalPath:         localPath,
		MaxDepth:          &maxDepth,
		ExcludePatterns:   []string{"*.tmp"},
		RespectIgnoreFile: &respectIgnoreFile,
		Fetcher:           fetcher,
	})
	if structureError != nil {
		testingHandle.Fatalf("GetRepoStructure failed: %v", structureError)
	}
	var names []string
	for _, child := range rootNode.Children {
		names = append(names, child.Name)
		if len(child.Children) != 0 {
			testingHandle.Fatalf("child %s expanded past the depth limit", child.Name)
		}
	}
	encodedNames, _ := json.Marshal(names)
	if string(encodedNames) != `["a",".gitignore","debug.log"]` {
		testingHandle.Fatalf("unexpected children %s", encodedNames)
	}
}

// TestGetRepoStructureFailures verifies validation before fetching and fetch error propagation.
func TestGetRepoStructureFailures(testingHandle *testing.T) {
	localPath := filepath.Join(testingHandle.TempDir(), "project")

	invalidFetcher := &stubFetcher{}
	_, patternError := repostructure.GetRepoStructure(context.Background(), repostructure.Options{
		Repository:      testRepositoryLocator,
		LocalPath:       localPath,
		ExcludePatterns: []string{"[bad"},
		Fetcher:         invalidFetcher,
	})
	if !errors.Is(patternError, types.ErrInvalidPattern) {
		testingHandle.Fatalf("expected ErrInvalidPattern, got %v", patternError)
	}
	if invalidFetcher.calls != 0 {
		testingHandle.Fatalf("fetch must not run when patterns are invalid")
	}

	_, presetError := repostructure.GetRepoStructure(context.Background(), repostructure.Options{
		Repository: testRepositoryLocator,
		LocalPath:  localPath,
		Preset:     "haskell",
		Fetcher:    invalidFetcher,
	})
	if presetError == nil || invalidFetcher.calls != 0 {
		testingHandle.Fatalf("expected unknown preset to fail before fetching, got %v", presetError)
	}

	failingFetcher := &stubFetcher{fetchError: types.ErrAuthentication}
	_, fetchError := repostructure.GetRepoStructure(context.Background(), repostructure.Options{
		Repository: testRepositoryLocator,
		LocalPath:  localPath,
		Fetcher:    failingFetcher,
	})
	if !errors.Is(fetchError, types.ErrAuthentication) {
		testingHandle.Fatalf("expected ErrAuthentication, got %v", fetchError)
	}

	_, emptyPathError := repostructure.GetRepoStructure(context.Background(), repostructure.Options{
		Repository: testRepositoryLocator,
		Fetcher:    failingFetcher,
	})
	if !errors.Is(emptyPathError, types.ErrNotFound) {
		testingHandle.Fatalf("expected ErrNotFound for an empty local path, got %v", emptyPathError)
	}
}
