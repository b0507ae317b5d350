package testing

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/ephemeral/lib/store"
)

// StoreFactory is a function that creates a new instance of an IStore implementation
type StoreFactory func() store.IStore

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Insert&Get", func(t *testing.T) {
			testInsertGet(t, factory())
		})

		t.Run("Miss", func(t *testing.T) {
			testMiss(t, factory())
		})

		t.Run("SharedPrefix", func(t *testing.T) {
			testSharedPrefix(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("DeleteRoot", func(t *testing.T) {
			testDeleteRoot(t, factory())
		})

		t.Run("GetAll", func(t *testing.T) {
			testGetAll(t, factory())
		})

		t.Run("ListBranches", func(t *testing.T) {
			testListBranches(t, factory())
		})

		t.Run("ValueIsolation", func(t *testing.T) {
			testValueIsolation(t, factory())
		})

		t.Run("GetInfo", func(t *testing.T) {
			testGetInfo(t, factory())
		})

		t.Run("ConcurrentInsertGet", func(t *testing.T) {
			testConcurrentInsertGet(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func p(fragments ...string) store.Path {
	return fragments
}

func mustInsert(t testing.TB, s store.IStore, path store.Path, value []byte) {
	t.Helper()
	if _, _, err := s.Insert(path, value); err != nil {
		t.Fatalf("Insert(%v) failed: %v", path, err)
	}
}

func mustGet(t testing.TB, s store.IStore, path store.Path) ([]byte, bool) {
	t.Helper()
	value, found, err := s.Get(path)
	if err != nil {
		t.Fatalf("Get(%v) failed: %v", path, err)
	}
	return value, found
}

func joinPaths(entries []store.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, strings.Join(e.Path, "/"))
	}
	sort.Strings(paths)
	return paths
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertGet(t *testing.T, s store.IStore) {
	path := p("a", "b", "c")
	value1 := []byte("value1")
	value2 := []byte("value2")

	prev, replaced, err := s.Insert(path, value1)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if replaced || prev != nil {
		t.Errorf("Expected no previous value on first insert, got %q", prev)
	}

	result, found := mustGet(t, s, path)
	if !found {
		t.Errorf("Expected path %v to hold a value after Insert", path)
	}
	if !bytes.Equal(result, value1) {
		t.Errorf("Expected value %s, got %s", value1, result)
	}

	prev, replaced, err = s.Insert(path, value2)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !replaced || !bytes.Equal(prev, value1) {
		t.Errorf("Expected previous value %s, got %s (replaced=%v)", value1, prev, replaced)
	}

	result, _ = mustGet(t, s, path)
	if !bytes.Equal(result, value2) {
		t.Errorf("Expected value %s, got %s", value2, result)
	}

	// the root is addressable like any other position
	mustInsert(t, s, nil, []byte("root"))
	result, found = mustGet(t, s, p())
	if !found || string(result) != "root" {
		t.Errorf("Expected root value, got %q (found=%v)", result, found)
	}
}

func testMiss(t *testing.T, s store.IStore) {
	if _, found := mustGet(t, s, nil); found {
		t.Errorf("Expected fresh store to hold no root value")
	}
	if _, found := mustGet(t, s, p("never", "inserted")); found {
		t.Errorf("Expected never-inserted path to be absent")
	}

	mustInsert(t, s, p("a", "b", "c"), []byte("x"))

	// missing path
	if _, found := mustGet(t, s, p("a", "b", "missing")); found {
		t.Errorf("Expected missing path to be absent")
	}
	exists, err := s.Has(p("a", "b", "missing"))
	if err != nil || exists {
		t.Errorf("Expected Has to report missing path as absent (err=%v)", err)
	}

	// position without value
	if _, found := mustGet(t, s, p("a", "b")); found {
		t.Errorf("Expected valueless position to be reported as not found")
	}
	exists, err = s.Has(p("a", "b"))
	if err != nil || !exists {
		t.Errorf("Expected Has to report valueless position as existing (err=%v)", err)
	}
}

func testSharedPrefix(t *testing.T, s store.IStore) {
	mustInsert(t, s, p("a", "b", "c"), []byte("abc"))
	mustInsert(t, s, p("a", "b", "d"), []byte("abd"))

	abc, _ := mustGet(t, s, p("a", "b", "c"))
	abd, _ := mustGet(t, s, p("a", "b", "d"))
	if string(abc) != "abc" || string(abd) != "abd" {
		t.Errorf("Expected independent values, got %q and %q", abc, abd)
	}

	// repeated fragments are positional
	mustInsert(t, s, p("x", "x", "x"), []byte("3"))
	mustInsert(t, s, p("x"), []byte("1"))
	one, _ := mustGet(t, s, p("x"))
	three, _ := mustGet(t, s, p("x", "x", "x"))
	if _, found := mustGet(t, s, p("x", "x")); found {
		t.Errorf("Expected x/x to be a routing position without value")
	}
	if string(one) != "1" || string(three) != "3" {
		t.Errorf("Expected positional values 1 and 3, got %q and %q", one, three)
	}
}

func testClear(t *testing.T, s store.IStore) {
	mustInsert(t, s, p("a"), []byte("a"))
	mustInsert(t, s, p("a", "b"), []byte("ab"))

	if err := s.Clear(p("a")); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, found := mustGet(t, s, p("a")); found {
		t.Errorf("Expected value at a to be cleared")
	}
	if exists, _ := s.Has(p("a")); !exists {
		t.Errorf("Expected position a to survive Clear")
	}
	if v, found := mustGet(t, s, p("a", "b")); !found || string(v) != "ab" {
		t.Errorf("Expected descendant a/b to be unchanged, got %q", v)
	}

	if err := s.Clear(p("does", "not", "exist")); err != nil {
		t.Errorf("Expected Clear on missing path to succeed, got %v", err)
	}
	if exists, _ := s.Has(p("does")); exists {
		t.Errorf("Clear must not create positions")
	}
}

func testDelete(t *testing.T, s store.IStore) {
	mustInsert(t, s, p("a", "b"), []byte("ab"))
	mustInsert(t, s, p("a", "b", "c"), []byte("abc"))
	mustInsert(t, s, p("a", "d"), []byte("ad"))
	mustInsert(t, s, p("a"), []byte("a"))

	if err := s.Delete(p("a", "b")); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, path := range []store.Path{p("a", "b"), p("a", "b", "c")} {
		if exists, _ := s.Has(path); exists {
			t.Errorf("Expected %v to be removed by Delete", path)
		}
	}
	if v, found := mustGet(t, s, p("a")); !found || string(v) != "a" {
		t.Errorf("Expected parent value to survive Delete, got %q", v)
	}
	if v, found := mustGet(t, s, p("a", "d")); !found || string(v) != "ad" {
		t.Errorf("Expected sibling value to survive Delete, got %q", v)
	}

	entries, err := s.GetAll(p("a"))
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if got := joinPaths(entries); len(got) != 2 || got[0] != "a" || got[1] != "a/d" {
		t.Errorf("Expected GetAll(a) to list only a and a/d, got %v", got)
	}

	if err := s.Delete(p("missing", "path")); err != nil {
		t.Errorf("Expected Delete on missing path to succeed, got %v", err)
	}
}

func testDeleteRoot(t *testing.T, s store.IStore) {
	mustInsert(t, s, nil, []byte("root"))
	mustInsert(t, s, p("a"), []byte("a"))

	if err := s.Delete(nil); err != nil {
		t.Fatalf("Delete(root) failed: %v", err)
	}
	if _, found := mustGet(t, s, nil); found {
		t.Errorf("Expected root value to be cleared")
	}
	if exists, _ := s.Has(nil); !exists {
		t.Errorf("Expected root to always exist")
	}
	if _, found := mustGet(t, s, p("a")); !found {
		t.Errorf("Expected Delete(root) to only clear the root value")
	}
}

func testGetAll(t *testing.T, s store.IStore) {
	mustInsert(t, s, p("a", "b", "c"), []byte("abc"))
	mustInsert(t, s, p("a", "b", "d"), []byte("abd"))
	mustInsert(t, s, p("a", "e"), []byte("ae"))

	entries, err := s.GetAll(p("a", "b"))
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	got := joinPaths(entries)
	want := []string{"a/b", "a/b/c", "a/b/d"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Expected paths %v, got %v", want, got)
	}

	values := 0
	for _, e := range entries {
		if e.Value != nil {
			values++
			if !bytes.Equal(e.Value, []byte(strings.Join(e.Path, ""))) {
				t.Errorf("Unexpected value %q at %v", e.Value, e.Path)
			}
		}
	}
	if values != 2 {
		t.Errorf("Expected 2 entries with values, got %d", values)
	}

	entries, err = s.GetAll(nil)
	if err != nil {
		t.Fatalf("GetAll(root) failed: %v", err)
	}
	// root, a, a/b, a/b/c, a/b/d, a/e
	if len(entries) != 6 {
		t.Errorf("Expected 6 entries below the root, got %d", len(entries))
	}

	entries, err = s.GetAll(p("nope"))
	if err != nil || len(entries) != 0 {
		t.Errorf("Expected empty result for missing path, got %d entries (err=%v)", len(entries), err)
	}
}

func testListBranches(t *testing.T, s store.IStore) {
	mustInsert(t, s, p("a", "x"), []byte("1"))
	mustInsert(t, s, p("a", "y"), []byte("2"))
	mustInsert(t, s, p("b"), []byte("3"))

	branches, err := s.ListBranches(p("a"))
	if err != nil {
		t.Fatalf("ListBranches failed: %v", err)
	}
	sort.Strings(branches)
	if fmt.Sprint(branches) != "[x y]" {
		t.Errorf("Expected branches [x y], got %v", branches)
	}

	root, _ := s.ListBranches(nil)
	if len(root) != 2 {
		t.Errorf("Expected 2 root branches, got %v", root)
	}

	missing, err := s.ListBranches(p("missing"))
	if err != nil || len(missing) != 0 {
		t.Errorf("Expected no branches for missing path, got %v (err=%v)", missing, err)
	}
}

func testValueIsolation(t *testing.T, s store.IStore) {
	path := p("k")
	value := []byte("original")
	mustInsert(t, s, path, value)

	// the store copies on insert
	value[0] = 'X'
	result, _ := mustGet(t, s, path)
	if string(result) != "original" {
		t.Errorf("Insert should copy the value, got %q", result)
	}

	// a reader keeps its value across later mutations
	held, _ := mustGet(t, s, path)
	mustInsert(t, s, path, []byte("replaced"))
	if err := s.Delete(path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if string(held) != "original" {
		t.Errorf("A value obtained by a reader must stay valid, got %q", held)
	}
}

func testGetInfo(t *testing.T, s store.IStore) {
	info, err := s.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if info.Nodes != 1 || info.Values != 0 || info.RootBranches != 0 {
		t.Errorf("Expected a fresh store to consist of the root only, got %+v", info)
	}

	mustInsert(t, s, p("a", "b"), []byte("1"))
	mustInsert(t, s, p("c"), []byte("2"))

	next, _ := s.GetInfo()
	if next.Nodes != 4 || next.Values != 2 || next.RootBranches != 2 {
		t.Errorf("Expected 4 nodes, 2 values, 2 root branches, got %+v", next)
	}
	if next.WriteIndex <= info.WriteIndex {
		t.Errorf("Expected write index to advance, got %d -> %d", info.WriteIndex, next.WriteIndex)
	}
}

func testConcurrentInsertGet(t *testing.T, s store.IStore) {
	numWorkers := 64

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			defer wg.Done()
			if _, _, err := s.Insert(p("workers", fmt.Sprintf("w-%d", id)), []byte(fmt.Sprint(id))); err != nil {
				t.Errorf("Insert from worker %d failed: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	var misses int32
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			defer wg.Done()
			value, found, err := s.Get(p("workers", fmt.Sprintf("w-%d", id)))
			if err != nil || !found || string(value) != fmt.Sprint(id) {
				atomic.AddInt32(&misses, 1)
			}
		}(i)
	}
	wg.Wait()

	if misses > 0 {
		t.Errorf("%d concurrent reads did not observe the preceding writes", misses)
	}

	branches, _ := s.ListBranches(p("workers"))
	if len(branches) != numWorkers {
		t.Errorf("Expected %d branches, got %d", numWorkers, len(branches))
	}
}

func testRealisticUsage(t *testing.T, s store.IStore) {
	type operation struct {
		op   string
		path store.Path
	}

	numOperations := 10_000
	operations := make([]operation, numOperations)

	for i := 0; i < numOperations; i++ {
		var op string
		switch i % 10 {
		case 0, 1, 2, 3, 4:
			op = "insert"
		case 5, 6, 7:
			op = "get"
		case 8:
			op = "getAll"
		case 9:
			op = "delete"
		}

		var path store.Path
		if i%5 == 0 {
			// hot paths shared between workers
			path = p("hot", fmt.Sprintf("h-%d", i%20))
		} else {
			path = p("cold", fmt.Sprintf("c-%d", i%500), fmt.Sprintf("leaf-%d", i))
		}

		operations[i] = operation{op, path}
	}

	numWorkers := 8
	opsPerWorker := numOperations / numWorkers

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	var errorCount int32

	for w := 0; w < numWorkers; w++ {
		go func(workerId int) {
			defer wg.Done()

			start := workerId * opsPerWorker
			end := start + opsPerWorker

			for i := start; i < end; i++ {
				op := operations[i]

				var err error
				switch op.op {
				case "insert":
					_, _, err = s.Insert(op.path, []byte(strings.Join(op.path, "/")))
				case "get":
					var value []byte
					var found bool
					value, found, err = s.Get(op.path)
					if err == nil && found && string(value) != strings.Join(op.path, "/") {
						err = fmt.Errorf("unexpected value %q at %v", value, op.path)
					}
				case "getAll":
					_, err = s.GetAll(op.path[:1])
				case "delete":
					err = s.Delete(op.path)
				}

				if err != nil {
					atomic.AddInt32(&errorCount, 1)
					t.Errorf("Worker %d: %s %v failed: %v", workerId, op.op, op.path, err)
				}
			}
		}(w)
	}

	wg.Wait()

	if atomic.LoadInt32(&errorCount) > 0 {
		t.Fatalf("%d operations failed", errorCount)
	}

	info, err := s.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	entries, _ := s.GetAll(nil)
	if info.Nodes != len(entries) {
		t.Errorf("Expected GetInfo node count %d to match GetAll(root) size %d", info.Nodes, len(entries))
	}
}
