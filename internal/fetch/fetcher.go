// Package fetch materializes a working copy of a remote repository on disk.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/temirov/repotree/internal/progress"
	"github.com/temirov/repotree/internal/types"
)

const (
	// DefaultTokenUsername is sent with a token when no username is configured.
	DefaultTokenUsername = "x-access-token"

	schemeHTTP  = "http"
	schemeHTTPS = "https"

	errorEmptyRepositoryFormat  = "%w: repository locator is empty"
	errorEmptyDirectoryFormat   = "%w: destination directory is empty for %s"
	errorTokenSchemeFormat      = "%w: a token requires an http(s) locator, got %s"
	errorResolveDirectoryFormat = "resolving destination %s: %w"
	errorInspectDirectoryFormat = "inspecting destination %s: %w"
	errorCloneFormat            = "%w: cloning %s into %s: %w"
	errorLockFormat             = "locking destination %s: %w"
	errorOccupiedFormat         = "%w: %s"
)

// ErrDestinationNotEmpty reports a destination that holds files but no repository.
var ErrDestinationNotEmpty = errors.New("destination exists and is not an empty directory")

// Params describes one fetch.
type Params struct {
	// Repository is a remote locator understood by git: an https, ssh or file URL, or a local path.
	Repository string
	// Reference selects a branch; empty selects the remote default branch.
	Reference string
	// Directory receives the working copy.
	Directory string
	// Token is an optional access token sent as HTTP basic auth.
	Token string
	// Username accompanies Token; DefaultTokenUsername is used when empty.
	Username string
	// Depth requests a shallow clone when positive.
	Depth    int
	Progress progress.Sink
}

// Result reports where the working copy lives.
type Result struct {
	Directory string
	// AlreadyPresent is true when Directory already held a repository and nothing was cloned.
	AlreadyPresent bool
}

// Fetcher materializes a working copy.
type Fetcher interface {
	Fetch(ctx context.Context, params Params) (Result, error)
}

// GitFetcher clones with go-git.
type GitFetcher struct{}

// NewGitFetcher returns a Fetcher backed by go-git.
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{}
}

// Fetch clones params.Repository into params.Directory unless a repository is already there.
// Fetches of the same directory are serialized through a lock file in the temporary directory.
func (fetcher *GitFetcher) Fetch(ctx context.Context, params Params) (Result, error) {
	repository := strings.TrimSpace(params.Repository)
	if repository == "" {
		return Result{}, fmt.Errorf(errorEmptyRepositoryFormat, types.ErrNotFound)
	}
	if strings.TrimSpace(params.Directory) == "" {
		return Result{}, fmt.Errorf(errorEmptyDirectoryFormat, types.ErrNotFound, repository)
	}
	authMethod, authError := basicAuth(repository, params.Token, params.Username)
	if authError != nil {
		return Result{}, authError
	}

	destination, absoluteError := filepath.Abs(params.Directory)
	if absoluteError != nil {
		return Result{}, fmt.Errorf(errorResolveDirectoryFormat, params.Directory, absoluteError)
	}

	release, lockError := acquireDirectoryLock(ctx, destination)
	if lockError != nil {
		return Result{}, fmt.Errorf(errorLockFormat, destination, lockError)
	}
	defer release()

	if _, openError := git.PlainOpen(destination); openError == nil {
		return Result{Directory: destination, AlreadyPresent: true}, nil
	}

	existedBefore, occupied, inspectError := inspectDestination(destination)
	if inspectError != nil {
		return Result{}, fmt.Errorf(errorInspectDirectoryFormat, destination, inspectError)
	}
	if occupied {
		return Result{}, fmt.Errorf(errorOccupiedFormat, ErrDestinationNotEmpty, destination)
	}

	cloneOptions := &git.CloneOptions{
		URL:      repository,
		Auth:     authMethod,
		Progress: progress.NewWriter(params.Progress),
		Depth:    params.Depth,
		Tags:     git.NoTags,
	}
	if reference := strings.TrimSpace(params.Reference); reference != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(reference)
		cloneOptions.SingleBranch = true
	}

	if _, cloneError := git.PlainCloneContext(ctx, destination, false, cloneOptions); cloneError != nil {
		removeCloneLeftovers(destination, existedBefore)
		return Result{}, fmt.Errorf(errorCloneFormat, classifyCloneError(cloneError), redactLocator(repository), destination, cloneError)
	}
	return Result{Directory: destination}, nil
}

// basicAuth builds the credential for a token. Tokens are only sent over http(s).
func basicAuth(repository string, token string, username string) (transport.AuthMethod, error) {
	if token == "" {
		return nil, nil
	}
	parsedLocator, parseError := url.Parse(repository)
	if parseError != nil || (parsedLocator.Scheme != schemeHTTP && parsedLocator.Scheme != schemeHTTPS) {
		return nil, fmt.Errorf(errorTokenSchemeFormat, types.ErrAuthentication, redactLocator(repository))
	}
	if username == "" {
		username = DefaultTokenUsername
	}
	return &githttp.BasicAuth{Username: username, Password: token}, nil
}

// classifyCloneError maps go-git failures onto the error kinds callers match on.
func classifyCloneError(cloneError error) error {
	var refSpecError git.NoMatchingRefSpecError
	switch {
	case errors.Is(cloneError, transport.ErrRepositoryNotFound),
		errors.Is(cloneError, plumbing.ErrReferenceNotFound),
		errors.As(cloneError, &refSpecError):
		return types.ErrNotFound
	case errors.Is(cloneError, transport.ErrAuthenticationRequired),
		errors.Is(cloneError, transport.ErrAuthorizationFailed),
		errors.Is(cloneError, transport.ErrInvalidAuthMethod):
		return types.ErrAuthentication
	default:
		return types.ErrNetwork
	}
}

// redactLocator strips credentials embedded in a URL locator before it appears in messages.
func redactLocator(repository string) string {
	parsedLocator, parseError := url.Parse(repository)
	if parseError != nil || parsedLocator.User == nil {
		return repository
	}
	return parsedLocator.Redacted()
}

// removeCloneLeftovers undoes a failed clone. A destination that existed was
// empty before the clone, so only its contents are removed.
func removeCloneLeftovers(destination string, existedBefore bool) {
	if !existedBefore {
		_ = os.RemoveAll(destination)
		return
	}
	entries, readError := os.ReadDir(destination)
	if readError != nil {
		return
	}
	for _, entry := range entries {
		_ = os.RemoveAll(filepath.Join(destination, entry.Name()))
	}
}

// inspectDestination reports whether path exists and whether it is occupied,
// meaning it is a file or a directory with at least one entry.
func inspectDestination(path string) (bool, bool, error) {
	info, statError := os.Stat(path)
	if errors.Is(statError, os.ErrNotExist) {
		return false, false, nil
	}
	if statError != nil {
		return false, false, statError
	}
	if !info.IsDir() {
		return true, true, nil
	}
	directory, openError := os.Open(path)
	if openError != nil {
		return true, false, openError
	}
	defer directory.Close()
	if _, readError := directory.Readdirnames(1); readError != nil {
		if errors.Is(readError, io.EOF) {
			return true, false, nil
		}
		return true, false, readError
	}
	return true, true, nil
}
