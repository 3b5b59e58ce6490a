package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockFilePrefix      = "repotree-"
	lockFileSuffix      = ".lock"
	lockRetryDelay      = 100 * time.Millisecond
	errorLockBusyFormat = "lock %s is held by another process"
)

// lockPathFor names the lock file guarding directory. Lock files live in the
// temporary directory so that working copies stay free of them.
func lockPathFor(directory string) string {
	digest := sha256.Sum256([]byte(directory))
	return filepath.Join(os.TempDir(), lockFilePrefix+hex.EncodeToString(digest[:8])+lockFileSuffix)
}

// acquireDirectoryLock takes an exclusive lock for directory and returns the
// function releasing it. It waits until ctx is done.
func acquireDirectoryLock(ctx context.Context, directory string) (func(), error) {
	lockPath := lockPathFor(directory)
	fileLock := flock.New(lockPath)
	locked, lockError := fileLock.TryLockContext(ctx, lockRetryDelay)
	if lockError != nil {
		return nil, lockError
	}
	if !locked {
		return nil, fmt.Errorf(errorLockBusyFormat, lockPath)
	}
	return func() {
		_ = fileLock.Unlock()
	}, nil
}
