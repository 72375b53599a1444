package patch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/moby/sys/atomicwriter"

	"github.com/HardDie/vitepages/internal/basepath"
)

// ErrIO wraps read, write and lock failures on the configuration file.
var ErrIO = errors.New("config file i/o failure")

// DefaultLockTimeout bounds the wait for another process holding the file.
var DefaultLockTimeout = 5 * time.Second

const lockRetryDelay = 50 * time.Millisecond

// PatchFile applies Patch to the file at path under an exclusive lock and
// writes the result atomically when it changed. An absent file is created
// from the template.
func PatchFile(ctx context.Context, path string, opts Options, lockTimeout time.Duration) (Result, error) {
	// Validate before taking the lock or touching the file.
	if err := basepath.Validate(opts.BasePath); err != nil {
		return Result{}, err
	}

	var res Result
	err := withFileLock(ctx, path, lockTimeout, func() error {
		data, perm, err := readFile(path)
		if err != nil {
			return err
		}

		var doc *Document
		if data != nil {
			doc = ParseDocument(data)
		}
		res, err = Patch(doc, opts)
		if err != nil {
			return err
		}
		if !res.Changed() {
			return nil
		}
		return writeFile(path, res.Document.Bytes(), perm)
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// readFile returns nil data for an absent file.
func readFile(path string) ([]byte, fs.FileMode, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0o644, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, info.Mode().Perm(), nil
}

func writeFile(path string, data []byte, perm fs.FileMode) error {
	if err := atomicwriter.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, path, err)
	}
	return nil
}

// withFileLock runs fn while holding an exclusive lock for path. The lock
// file lives in the temp dir so it never lands in the project tree.
func withFileLock(ctx context.Context, path string, timeout time.Duration, fn func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", ErrIO, path, err)
	}
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	lock := flock.New(lockPath(abs))
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %v", ErrIO, path, err)
	}
	if !locked {
		return fmt.Errorf("%w: lock %s: held by another process", ErrIO, path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	return fn()
}

func lockPath(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "vitepages-"+hex.EncodeToString(sum[:8])+".lock")
}
