package lstore

import (
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/ephemeral/lib/store"
	storetesting "github.com/ValentinKolb/ephemeral/lib/store/testing"
)

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "LocalStore", func() store.IStore {
		return NewLocalStore(nil)
	})

	storetesting.RunStoreTests(t, "LocalStore(timeout)", func() store.IStore {
		return NewLocalStore(&Options{LockTimeout: time.Second})
	})
}

func TestLockTimeout(t *testing.T) {
	s := NewLocalStore(&Options{LockTimeout: 20 * time.Millisecond}).(*storeImpl)

	if err := s.lock.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	_, _, err := s.Get(store.Path{"a"})
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCLockTimeout {
		t.Fatalf("Expected lock timeout error, got %v", err)
	}

	_, _, err = s.Insert(store.Path{"a"}, []byte("x"))
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCLockTimeout {
		t.Fatalf("Expected lock timeout error, got %v", err)
	}

	s.lock.Unlock()

	if _, _, err := s.Insert(store.Path{"a"}, []byte("x")); err != nil {
		t.Errorf("Expected store to be usable after the lock was released, got %v", err)
	}
}

func TestReadersShareLock(t *testing.T) {
	s := NewLocalStore(&Options{LockTimeout: 20 * time.Millisecond}).(*storeImpl)

	if err := s.lock.RLock(); err != nil {
		t.Fatalf("RLock failed: %v", err)
	}
	defer s.lock.RUnlock()

	if _, _, err := s.Get(store.Path{"a"}); err != nil {
		t.Errorf("Expected concurrent read to succeed, got %v", err)
	}
	if err := s.Delete(store.Path{"a"}); err == nil {
		t.Errorf("Expected write to time out while a reader holds the lock")
	}
}

func TestWriterNotStarved(t *testing.T) {
	s := NewLocalStore(nil).(*storeImpl)

	if err := s.lock.RLock(); err != nil {
		t.Fatalf("RLock failed: %v", err)
	}

	writerDone := make(chan error, 1)
	go func() {
		_, _, err := s.Insert(store.Path{"a"}, []byte("1"))
		writerDone <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type result struct {
		value []byte
		found bool
		err   error
	}
	readerDone := make(chan result, 1)
	go func() {
		v, found, err := s.Get(store.Path{"a"})
		readerDone <- result{v, found, err}
	}()
	time.Sleep(20 * time.Millisecond)

	// the later reader queues behind the waiting writer
	select {
	case <-readerDone:
		t.Fatalf("Expected reader to wait behind the queued writer")
	case <-writerDone:
		t.Fatalf("Expected writer to wait for the held read lock")
	default:
	}

	s.lock.RUnlock()

	if err := <-writerDone; err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	r := <-readerDone
	if r.err != nil || !r.found || string(r.value) != "1" {
		t.Errorf("Expected reader to see the writer's value, got %q found=%v err=%v", r.value, r.found, r.err)
	}
}

func TestPanicRecovery(t *testing.T) {
	s := NewLocalStore(nil).(*storeImpl)

	err := s.write("explode", func() {
		panic("boom")
	})

	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCInternalError {
		t.Fatalf("Expected internal error, got %v", err)
	}

	// the lock has been released
	if _, _, err := s.Insert(store.Path{"a"}, []byte("x")); err != nil {
		t.Fatalf("Expected store to stay usable after a panic, got %v", err)
	}
	if v, found, _ := s.Get(store.Path{"a"}); !found || string(v) != "x" {
		t.Errorf("Expected value x, got %q", v)
	}
}

func Benchmark(b *testing.B) {
	storetesting.RunStoreBenchmarks(b, "LocalStore", func() store.IStore {
		return NewLocalStore(nil)
	})
}
