package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// LockFilename is the lock file created inside the output directory.
const LockFilename = ".codescope.lock"

const (
	minLockPoll = 10 * time.Millisecond
	maxLockPoll = 500 * time.Millisecond
)

var (
	// ErrLockTimeout is returned when another run keeps the output directory
	// locked for longer than the configured wait.
	ErrLockTimeout = errors.New("timed out waiting for the output directory lock")

	// ErrLockHeld indicates another run holds the output directory
	ErrLockHeld = errors.New("output directory is locked by another run")
)

// FileLock provides exclusive file locking using flock(2).
// The lock is released when the process exits or crashes.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new file lock at the given path.
// The lock file and its parent directories are created on first use.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// ForDir returns the lock guarding an output directory.
func ForDir(dir string) *FileLock {
	return NewFileLock(filepath.Join(dir, LockFilename))
}

// TryLock attempts to acquire the exclusive lock without blocking.
// Returns ErrLockHeld if another holder has it.
func (l *FileLock) TryLock() error {
	if err := l.open(); err != nil {
		return err
	}

	acquired, err := l.flock()
	if err != nil {
		return err
	}
	if !acquired {
		l.release()
		return fmt.Errorf("%w: %s", ErrLockHeld, l.path)
	}
	return nil
}

// LockWithContext waits for the exclusive lock, polling with a doubling
// interval. It gives up with ErrLockTimeout once timeout elapses and with the
// context error when ctx is done first.
func (l *FileLock) LockWithContext(ctx context.Context, timeout time.Duration) error {
	if err := l.open(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeoutCause(ctx, timeout, ErrLockTimeout)
	defer cancel()

	wait := minLockPoll
	for {
		acquired, err := l.flock()
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			l.release()
			return context.Cause(ctx)
		case <-timer.C:
			wait = min(wait*2, maxLockPoll)
		}
	}
}

// flock takes the lock without blocking. It reports false when another
// holder has it and releases the file on any other failure.
func (l *FileLock) flock() (bool, error) {
	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, syscall.EWOULDBLOCK):
		return false, nil
	default:
		l.release()
		return false, fmt.Errorf("flock failed: %w", err)
	}
}

// Unlock releases the lock.
// It is safe to call Unlock on an unlocked FileLock (no-op).
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("flock unlock failed: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %w", closeErr)
	}
	return nil
}

// IsLocked returns true if the lock is currently held by this instance.
func (l *FileLock) IsLocked() bool {
	return l.file != nil
}

// Path returns the path to the lock file.
func (l *FileLock) Path() string {
	return l.path
}

func (l *FileLock) open() error {
	if l.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	l.file = file
	return nil
}

func (l *FileLock) release() {
	_ = l.file.Close()
	l.file = nil
}
