package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gitlab.com/tozd/go/errors"
)

// ErrLocked is returned when another process is writing the same directory
var ErrLocked = errors.Base("local directory is locked by another sync")

// dirLock is an advisory lock keyed by the absolute workspace path. The lock
// file lives outside the workspace so it never shows up in a listing.
type dirLock struct {
	flock *flock.Flock
}

func newDirLock(dir, lockDir string) (*dirLock, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", dir, err)
	}
	if lockDir == "" {
		lockDir = os.TempDir()
	}

	sum := sha256.Sum256([]byte(abs))
	path := filepath.Join(lockDir, "metasync-"+hex.EncodeToString(sum[:8])+".lock")

	return &dirLock{flock: flock.New(path)}, nil
}

func (l *dirLock) acquire() error {
	if l.flock.Locked() {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.flock.Path()), 0o755); err != nil {
		return errors.Errorf("creating lock directory: %w", err)
	}

	locked, err := l.flock.TryLock()
	if err != nil {
		return errors.Errorf("locking workspace: %w", err)
	}
	if !locked {
		return errors.WithStack(ErrLocked)
	}
	return nil
}

func (l *dirLock) release() error {
	if !l.flock.Locked() {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		return errors.Errorf("unlocking workspace: %w", err)
	}

	if err := os.Remove(l.flock.Path()); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing lock file: %w", err)
	}
	return nil
}
