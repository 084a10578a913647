//go:build !windows

package diskcsv

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// FileLock is an advisory, cross-process lock over a single path, paired
// with an in-process mutex. Go's standard library has no equivalent of
// Python's fcntl.flock, so this wraps golang.org/x/sys/unix directly: the
// mutex serializes goroutines within this process, and the flock serializes
// across processes in a multi-worker deployment of the same table.
type FileLock struct {
	mu   sync.Mutex
	path string
	fd   int
	file *os.File
}

// NewFileLock prepares a lock over path. The backing file is created lazily
// on first Lock.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path, fd: -1}
}

// Lock acquires both the in-process mutex and the OS advisory lock. If the
// OS lock cannot be taken (e.g. an unsupported filesystem), the mutex is
// released and the failure is returned to the caller; the tables in this
// module treat it as an error for the operation that asked for the lock.
func (l *FileLock) Lock() error {
	l.mu.Lock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("filelock: open %s: %w", l.path, err)
	}
	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		f.Close()
		l.mu.Unlock()
		return fmt.Errorf("filelock: flock %s: %w", l.path, err)
	}
	l.fd = fd
	l.file = f
	return nil
}

// Unlock releases the OS advisory lock and the in-process mutex.
func (l *FileLock) Unlock() {
	if l.file != nil {
		unix.Flock(l.fd, unix.LOCK_UN)
		l.file.Close()
		l.file = nil
		l.fd = -1
	}
	l.mu.Unlock()
}
