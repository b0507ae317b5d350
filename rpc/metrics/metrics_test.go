package metrics

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-metrics starts one ticker goroutine for all meters that never exits
		goleak.IgnoreAnyFunction("github.com/rcrowley/go-metrics.(*meterArbiter).tick"),
	)
}

func testInfo() (store.Info, error) {
	return store.Info{Nodes: 4, Values: 2, RootBranches: 1}, nil
}

func TestCollector(t *testing.T) {
	c := NewCollector(testInfo)
	defer c.Stop()

	c.Observe(common.OpGet, common.StatusOK, time.Millisecond)
	c.Observe(common.OpGet, common.StatusNotFound, time.Millisecond)
	c.Observe(common.OpGet, common.StatusOK, 3*time.Millisecond)
	c.Observe(common.OpUnknown, common.StatusInvalid, time.Microsecond)

	assert.Equal(t, uint64(2), c.Requests(common.OpGet, common.StatusOK))
	assert.Equal(t, uint64(1), c.Requests(common.OpGet, common.StatusNotFound))
	assert.Equal(t, uint64(0), c.Requests(common.OpPost, common.StatusOK))

	stats := c.Stats()
	assert.Equal(t, int64(4), stats.Requests)
	assert.Equal(t, int64(3), stats.Ops["get"].Count)
	assert.Equal(t, int64(1), stats.Ops["unknown"].Count)
	assert.NotContains(t, stats.Ops, "post")
	assert.Contains(t, stats.String(), "requests=4")

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	out := buf.String()
	assert.Contains(t, out, `ephemeral_requests_total{op="get",status="OK"} 2`)
	assert.Contains(t, out, `ephemeral_request_duration_seconds_bucket{op="get"`)
	assert.Contains(t, out, "ephemeral_store_nodes 4")
	assert.Contains(t, out, "ephemeral_store_values 2")
	assert.Contains(t, out, "ephemeral_store_root_branches 1")
}

func TestObserveAfterStop(t *testing.T) {
	c := NewCollector(nil)
	c.Observe(common.OpGet, common.StatusOK, time.Millisecond)

	c.Stop()
	c.Stop()

	// a late request is still counted but does not bring the timers back
	c.Observe(common.OpPost, common.StatusOK, time.Millisecond)
	assert.Equal(t, uint64(1), c.Requests(common.OpPost, common.StatusOK))
	assert.Nil(t, c.registry.Get("latency.post"))
	assert.Nil(t, c.registry.Get("latency.get"))
	assert.Empty(t, c.Stats().Ops)
}

func TestReporter(t *testing.T) {
	c := NewCollector(nil)
	defer c.Stop()

	stop := c.StartReporter(5 * time.Millisecond)
	c.Observe(common.OpPost, common.StatusOK, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	stop()
	stop()

	// disabled reporter
	c.StartReporter(0)()
}

func TestServer(t *testing.T) {
	c := NewCollector(testInfo)
	defer c.Stop()
	c.Observe(common.OpDelete, common.StatusOK, time.Millisecond)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(listener.Addr().String(), c, true)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ephemeral_requests_total{op="delete",status="OK"} 1`)

	resp, err = client.Post("http://"+listener.Addr().String()+"/metrics", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-errCh)
}
