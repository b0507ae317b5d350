package lstore

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/ephemeral/lib/store"
	"golang.org/x/sync/semaphore"
	"time"
)

// maxReaders is the weight a writer acquires. Readers acquire a weight of one,
// so a writer excludes every reader and every other writer.
const maxReaders int64 = 1 << 30

// rwLock is a reader/writer lock built on a weighted semaphore.
// Waiters are served in FIFO order: once a writer waits, later readers queue
// behind it, so writers can not be starved by a steady stream of readers.
//
// With a timeout of zero acquisition blocks until the lock is available.
type rwLock struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

func newRWLock(timeout time.Duration) *rwLock {
	return &rwLock{
		sem:     semaphore.NewWeighted(maxReaders),
		timeout: timeout,
	}
}

// RLock acquires shared access
func (l *rwLock) RLock() error {
	return l.acquire(1, "read")
}

// RUnlock releases shared access
func (l *rwLock) RUnlock() {
	l.sem.Release(1)
}

// Lock acquires exclusive access
func (l *rwLock) Lock() error {
	return l.acquire(maxReaders, "write")
}

// Unlock releases exclusive access
func (l *rwLock) Unlock() {
	l.sem.Release(maxReaders)
}

func (l *rwLock) acquire(weight int64, mode string) error {
	if l.timeout <= 0 {
		// never fails with a background context
		return l.sem.Acquire(context.Background(), weight)
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	if err := l.sem.Acquire(ctx, weight); err != nil {
		return store.NewError(store.RetCLockTimeout, fmt.Sprintf("could not acquire %s lock within %s", mode, l.timeout))
	}
	return nil
}
