package testing

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/ephemeral/lib/store"
)

// RunStoreBenchmarks runs all benchmarks for a store implementation
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {

	b.Run("Insert", func(b *testing.B) {
		benchmarkInsert(b, factory())
	})

	b.Run("InsertExisting", func(b *testing.B) {
		benchmarkInsertExisting(b, factory())
	})

	b.Run("InsertDeep", func(b *testing.B) {
		benchmarkInsertDeep(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Get(miss)", func(b *testing.B) {
		benchmarkGetMiss(b, factory())
	})

	b.Run("GetAll", func(b *testing.B) {
		benchmarkGetAll(b, factory())
	})

	b.Run("Delete", func(b *testing.B) {
		benchmarkDelete(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchPath(i int) store.Path {
	return p("", "bench", fmt.Sprintf("group-%d", i%100), fmt.Sprintf("key-%d", i))
}

func benchmarkInsert(b *testing.B, s store.IStore) {
	var counter int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := int(atomic.AddInt64(&counter, 1))
			s.Insert(benchPath(i), []byte("true"))
		}
	})
}

func benchmarkInsertExisting(b *testing.B, s store.IStore) {
	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		s.Insert(benchPath(i), []byte("true"))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			s.Insert(benchPath(counter%numKeys), []byte("false"))
			counter++
		}
	})
}

// Benchmark inserting below a long shared prefix
func benchmarkInsertDeep(b *testing.B, s store.IStore) {
	prefix := make(store.Path, 64)
	for i := range prefix {
		prefix[i] = fmt.Sprintf("level-%d", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		path := append(prefix[:len(prefix):len(prefix)], fmt.Sprintf("key-%d", i))
		s.Insert(path, []byte("true"))
	}
}

func benchmarkGet(b *testing.B, s store.IStore) {
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		s.Insert(benchPath(i), []byte(fmt.Sprintf("value-%d", i)))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			s.Get(benchPath(counter % numKeys))
			counter++
		}
	})
}

func benchmarkGetMiss(b *testing.B, s store.IStore) {
	s.Insert(benchPath(0), []byte("true"))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 1
		for pb.Next() {
			s.Get(benchPath(counter))
			counter++
		}
	})
}

func benchmarkGetAll(b *testing.B, s store.IStore) {
	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		s.Insert(benchPath(i), []byte("true"))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			s.GetAll(p("", "bench", fmt.Sprintf("group-%d", counter%100)))
			counter++
		}
	})
}

func benchmarkDelete(b *testing.B, s store.IStore) {
	for i := 0; i < b.N; i++ {
		s.Insert(benchPath(i), []byte("true"))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Delete(benchPath(i))
	}
}

func benchmarkMixedUsage(b *testing.B, s store.IStore) {
	numKeys := 100000
	if b.N < numKeys {
		numKeys = b.N
	}

	for i := 0; i < numKeys; i++ {
		s.Insert(benchPath(i), []byte("true"))
	}

	var counter int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		localCounter := 0

		for pb.Next() {
			idx := int(atomic.AddInt64(&counter, 1)-1) % numKeys
			path := benchPath(idx)

			// mostly reads, like a typical request mix
			switch localCounter % 10 {
			case 0, 1, 2, 3, 4, 5:
				s.Get(path)
			case 6, 7:
				s.Insert(path, []byte("true"))
			case 8:
				s.Has(path)
			case 9:
				s.Delete(path)
			}

			localCounter++
		}
	})
}
