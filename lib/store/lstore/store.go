package lstore

import (
	"fmt"
	"github.com/ValentinKolb/ephemeral/lib/pathtree"
	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("store")

// Options configures the local store
type Options struct {
	// LockTimeout bounds how long an operation waits for the store lock (0 = wait forever)
	LockTimeout time.Duration
}

// DefaultOptions returns the default options: no lock timeout
func DefaultOptions() *Options {
	return &Options{
		LockTimeout: 0,
	}
}

type storeImpl struct {
	tree  *pathtree.PathTree[string, []byte]
	lock  *rwLock
	index atomic.Uint64
}

// NewLocalStore creates a new local store instance with the specified options (optional).
// The store owns a single PathTree for its whole lifetime. It is safe for concurrent use.
func NewLocalStore(opts *Options) store.IStore {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &storeImpl{
		tree: pathtree.New[string, []byte](),
		lock: newRWLock(opts.LockTimeout),
	}
}

// --------------------------------------------------------------------------
// Locking Helper
// --------------------------------------------------------------------------

// read runs fn with shared access
func (s *storeImpl) read(op string, fn func()) (err error) {
	if err = s.lock.RLock(); err != nil {
		Logger.Warningf("%s: %v", op, err)
		return err
	}
	defer s.lock.RUnlock()
	defer recoverOp(op, &err)

	fn()
	return nil
}

// write runs fn with exclusive access and advances the write index
func (s *storeImpl) write(op string, fn func()) (err error) {
	if err = s.lock.Lock(); err != nil {
		Logger.Warningf("%s: %v", op, err)
		return err
	}
	defer s.lock.Unlock()
	defer recoverOp(op, &err)

	fn()
	s.index.Add(1)
	return nil
}

// recoverOp turns a panic inside a store operation into an internal error.
// The deferred unlock still runs, so the store stays usable.
func recoverOp(op string, err *error) {
	if r := recover(); r != nil {
		Logger.Errorf("recovered panic in %s: %v", op, r)
		*err = store.NewError(store.RetCInternalError, fmt.Sprintf("%s failed: %v", op, r))
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Insert(path store.Path, value []byte) ([]byte, bool, error) {
	// Copy value to prevent later modification by the caller
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	var old *[]byte
	err := s.write("insert", func() {
		old = s.tree.Insert(path, &valueCopy)
	})
	if err != nil || old == nil {
		return nil, false, err
	}
	return *old, true, nil
}

func (s *storeImpl) Clear(path store.Path) error {
	return s.write("clear", func() {
		s.tree.Clear(path)
	})
}

func (s *storeImpl) Delete(path store.Path) error {
	return s.write("delete", func() {
		s.tree.Delete(path)
	})
}

func (s *storeImpl) Get(path store.Path) ([]byte, bool, error) {
	var val *[]byte
	err := s.read("get", func() {
		val = s.tree.Get(path)
	})
	if err != nil || val == nil {
		return nil, false, err
	}
	return *val, true, nil
}

func (s *storeImpl) Has(path store.Path) (bool, error) {
	var exists bool
	err := s.read("has", func() {
		exists = s.tree.GetRef(path) != nil
	})
	return exists, err
}

func (s *storeImpl) GetAll(path store.Path) ([]store.Entry, error) {
	var entries []store.Entry
	err := s.read("getAll", func() {
		s.tree.Walk(path, func(p []string, value *[]byte) bool {
			entry := store.Entry{Path: p}
			if value != nil {
				entry.Value = *value
			}
			entries = append(entries, entry)
			return true
		})
	})
	return entries, err
}

func (s *storeImpl) ListBranches(path store.Path) ([]string, error) {
	var branches []string
	err := s.read("listBranches", func() {
		if node := s.tree.GetRef(path); node != nil {
			branches = node.ListBranches()
		}
	})
	return branches, err
}

func (s *storeImpl) GetInfo() (store.Info, error) {
	info := store.Info{}
	err := s.read("getInfo", func() {
		info.Nodes = s.tree.Len()
		info.Values = s.tree.Root().ValueCount()
		info.RootBranches = len(s.tree.ListBranches())
		info.WriteIndex = s.index.Load()
	})
	return info, err
}
