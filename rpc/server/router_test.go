package server

import (
	"testing"

	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/lib/store/lstore"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*Router, store.IStore, *metrics.Collector) {
	t.Helper()
	s := lstore.NewLocalStore(nil)
	c := metrics.NewCollector(s.GetInfo)
	t.Cleanup(c.Stop)
	return NewRouter(s, NewIStoreServerAdapter(nil), c), s, c
}

func TestRouterEndToEnd(t *testing.T) {
	r, _, _ := newTestRouter(t)

	steps := []struct {
		line   string
		status common.ReplyStatus
		value  string
	}{
		{"POST /a/b/c HTTP/1.1", common.StatusOK, ""},
		{"GET /a/b/c HTTP/1.1", common.StatusOK, "true"},
		{"GET /a/b/missing HTTP/1.1", common.StatusNotFound, ""},
		{"DELETE /a/b/c HTTP/1.1", common.StatusOK, ""},
		{"GET /a/b/c HTTP/1.1", common.StatusNotFound, ""},
		{"ERROR /x HTTP/1.1", common.StatusInvalid, ""},
		{"GET /a/b/c HTTP/1.1 extra", common.StatusInvalid, ""},
	}

	for _, step := range steps {
		reply := r.HandleLine(step.line)
		require.NotNil(t, reply, step.line)
		assert.Equal(t, step.status, reply.Status, step.line)
		if step.value != "" {
			assert.Equal(t, step.value, string(reply.Value), step.line)
		}
	}
}

func TestRouterMissPolicy(t *testing.T) {
	r, s, _ := newTestRouter(t)

	require.True(t, r.HandleLine("POST /a/b/c HTTP/1.1").Positive())

	t.Run("MissingPath", func(t *testing.T) {
		exists, err := s.Has(common.SplitPath("/a/x"))
		require.NoError(t, err)
		require.False(t, exists)
		assert.Equal(t, common.StatusNotFound, r.HandleLine("GET /a/x HTTP/1.1").Status)
	})

	t.Run("PositionWithoutValue", func(t *testing.T) {
		exists, err := s.Has(common.SplitPath("/a/b"))
		require.NoError(t, err)
		require.True(t, exists)
		assert.Equal(t, common.StatusNotFound, r.HandleLine("GET /a/b HTTP/1.1").Status)
	})

	t.Run("FreshRoot", func(t *testing.T) {
		r, _, _ := newTestRouter(t)
		assert.Equal(t, common.StatusNotFound, r.HandleLine("GET / HTTP/2").Status)
	})
}

func TestRouterDeleteSubtree(t *testing.T) {
	r, s, _ := newTestRouter(t)

	for _, line := range []string{"POST /a HTTP/1.1", "POST /a/b HTTP/1.1", "POST /a/b/c HTTP/1.1", "POST /x HTTP/2"} {
		require.True(t, r.HandleLine(line).Positive(), line)
	}

	require.True(t, r.HandleLine("DELETE /a HTTP/1.1").Positive())
	assert.Equal(t, common.StatusNotFound, r.HandleLine("GET /a/b/c HTTP/1.1").Status)
	assert.True(t, r.HandleLine("GET /x HTTP/1.1").Positive())

	// deleting a missing path is fine
	assert.True(t, r.HandleLine("DELETE /never/there HTTP/1.1").Positive())

	entries, err := s.GetAll(common.SplitPath("/a"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRouterHead(t *testing.T) {
	r, s, _ := newTestRouter(t)

	reply := r.HandleLine("HEAD /a HTTP/1.1")
	assert.Equal(t, common.StatusUnsupported, reply.Status)

	exists, err := s.Has(common.SplitPath("/a"))
	require.NoError(t, err)
	assert.False(t, exists, "HEAD must not mutate the store")
}

func TestRouterInvalid(t *testing.T) {
	r, _, c := newTestRouter(t)

	lines := []string{
		"",
		"   ",
		"GET",
		"GET /a",
		"get /a HTTP/1.1",
		"PUT /a HTTP/1.1",
		"GET /a HTTP/3",
		"GET /a HTTP/1.1 extra",
	}
	for _, line := range lines {
		reply := r.HandleLine(line)
		assert.Equal(t, common.StatusInvalid, reply.Status, "%q", line)
		assert.NotEmpty(t, reply.Err, "%q", line)
	}

	assert.Equal(t, uint64(len(lines)), c.Requests(common.OpUnknown, common.StatusInvalid))
}

func TestRouterPostValue(t *testing.T) {
	s := lstore.NewLocalStore(nil)
	r := NewRouter(s, NewIStoreServerAdapter([]byte("1")), nil)

	require.True(t, r.HandleLine("POST /k HTTP/1.1").Positive())
	reply := r.HandleLine("GET /k HTTP/1.1")
	require.True(t, reply.Positive())
	assert.Equal(t, "1", string(reply.Value))
}

func TestRouterMetrics(t *testing.T) {
	r, _, c := newTestRouter(t)

	r.HandleLine("POST /a HTTP/1.1")
	r.HandleLine("GET /a HTTP/1.1")
	r.HandleLine("GET /b HTTP/1.1")
	r.HandleLine("HEAD /a HTTP/1.1")

	assert.Equal(t, uint64(1), c.Requests(common.OpPost, common.StatusOK))
	assert.Equal(t, uint64(1), c.Requests(common.OpGet, common.StatusOK))
	assert.Equal(t, uint64(1), c.Requests(common.OpGet, common.StatusNotFound))
	assert.Equal(t, uint64(1), c.Requests(common.OpHead, common.StatusUnsupported))
}

// --------------------------------------------------------------------------
// Failing store
// --------------------------------------------------------------------------

// failingStore fails every lookup with a lock timeout and panics on insert
type failingStore struct {
	store.IStore
}

func (f *failingStore) Get(store.Path) ([]byte, bool, error) {
	return nil, false, store.NewError(store.RetCLockTimeout, "could not acquire read lock within 1ms")
}

func (f *failingStore) Insert(store.Path, []byte) ([]byte, bool, error) {
	panic("boom")
}

func (f *failingStore) Delete(store.Path) error {
	return store.NewError(store.RetCInternalError, "delete failed")
}

func TestRouterStoreErrors(t *testing.T) {
	r := NewRouter(&failingStore{}, NewIStoreServerAdapter(nil), nil)

	reply := r.HandleLine("GET /a HTTP/1.1")
	assert.Equal(t, common.StatusError, reply.Status)
	assert.Contains(t, reply.Err, "LockTimeout")

	reply = r.HandleLine("DELETE /a HTTP/1.1")
	assert.Equal(t, common.StatusError, reply.Status)

	reply = r.HandleLine("POST /a HTTP/1.1")
	assert.Equal(t, common.StatusError, reply.Status)
	assert.Contains(t, reply.Err, "boom")

	// a nil store is reported, not dereferenced
	reply = NewRouter(nil, NewIStoreServerAdapter(nil), nil).HandleLine("GET /a HTTP/1.1")
	assert.Equal(t, common.StatusError, reply.Status)
}
