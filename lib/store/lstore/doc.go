// Package lstore implements the local, in-memory store based on the
// store.IStore interface. It owns exactly one pathtree.PathTree for its whole
// lifetime and guards it with a reader/writer lock. Data is held entirely in
// memory and is not persisted between process restarts.
//
// Key Features:
//   - Shared reads, exclusive writes
//   - FIFO lock acquisition, so a steady stream of readers can not starve writers
//   - Optional lock acquisition timeout
//   - Panic recovery that releases the lock and reports an internal error
//   - Automatic write index progression using atomic operations
//
// Implementation Details:
//
//   - Locking: The lock is a golang.org/x/sync/semaphore.Weighted. Readers
//     acquire a weight of one, writers acquire the full weight. Because the
//     semaphore serves waiters in order, a waiting writer blocks readers that
//     arrive after it.
//
//   - Values: Insert copies the caller's value. Get and GetAll return the stored
//     slice without copying; a later mutation replaces or detaches the slice but
//     never writes into it.
//
//   - Write Index: Every successful mutation increments an atomic counter that
//     is reported through GetInfo.
//
// Usage Example:
//
//	s := lstore.NewLocalStore(&lstore.Options{LockTimeout: time.Second})
//
//	_, _, err := s.Insert([]string{"", "a", "b"}, []byte("true"))
//
//	value, found, err := s.Get([]string{"", "a", "b"})
package lstore
