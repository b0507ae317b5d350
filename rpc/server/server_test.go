package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/serializer"
	"github.com/ValentinKolb/ephemeral/rpc/transport/unix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// the go-metrics meter arbiter is started once per process and never exits
		goleak.IgnoreAnyFunction("github.com/rcrowley/go-metrics.(*meterArbiter).tick"),
	)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func testConfig() common.ServerConfig {
	return common.ServerConfig{
		TimeoutSecond: 5,
		MaxWorkers:    4,
		ReplyFormat:   "text",
		LogLevel:      "error",
	}
}

// startServer serves config on a fresh unix socket. The returned stop
// function shuts the server down, it is also registered as cleanup.
func startServer(t *testing.T, config common.ServerConfig, ser serializer.IRPCSerializer) (*rpcServer, string, func()) {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "ephemeral.sock")
	config.Transport.Endpoint = socket

	s := NewRPCServer(config, unix.NewUnixServerTransport(), ser)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve()
	}()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("unix", socket)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 10*time.Millisecond)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, s.Shutdown(ctx))
			assert.NoError(t, <-errCh)
		})
	}
	t.Cleanup(stop)

	return s, socket, stop
}

type lineConn struct {
	net.Conn
	reader *bufio.Reader
}

func dial(t *testing.T, socket string) *lineConn {
	t.Helper()
	conn, err := net.Dial("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &lineConn{Conn: conn, reader: bufio.NewReader(conn)}
}

func (c *lineConn) readReply(t *testing.T) string {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	line, err := c.reader.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (c *lineConn) send(t *testing.T, line string) string {
	t.Helper()
	_, err := fmt.Fprintf(c, "%s\n", line)
	require.NoError(t, err)
	return c.readReply(t)
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestServerEndToEnd(t *testing.T) {
	_, socket, _ := startServer(t, testConfig(), serializer.NewTextSerializer())
	c := dial(t, socket)

	assert.Equal(t, "OK", c.send(t, "POST /a/b/c HTTP/1.1"))
	assert.Equal(t, "OK true", c.send(t, "GET /a/b/c HTTP/1.1"))
	assert.Equal(t, "NOT_FOUND", c.send(t, "GET /a/b/missing HTTP/1.1"))
	assert.Equal(t, "NOT_FOUND", c.send(t, "GET /a/b HTTP/1.1"))
	assert.Equal(t, "OK", c.send(t, "DELETE /a/b/c HTTP/1.1"))
	assert.Equal(t, "NOT_FOUND", c.send(t, "GET /a/b/c HTTP/1.1"))
	assert.Equal(t, "UNSUPPORTED", c.send(t, "HEAD /a HTTP/2"))
	assert.True(t, strings.HasPrefix(c.send(t, "ERROR /x HTTP/1.1"), "INVALID "))
	assert.True(t, strings.HasPrefix(c.send(t, "GET /a/b/c HTTP/1.1 extra"), "INVALID "))
	assert.Equal(t, "INVALID empty request", c.send(t, ""))

	// the connection is still usable after invalid lines
	assert.Equal(t, "OK", c.send(t, "POST /x HTTP/1.1"))
}

func TestServerPipelining(t *testing.T) {
	_, socket, _ := startServer(t, testConfig(), serializer.NewTextSerializer())
	c := dial(t, socket)

	// all requests in a single write, replies must come back in order
	_, err := io.WriteString(c, "POST /p HTTP/1.1\r\nGET /p HTTP/1.1\nGET /q HTTP/1.1\nDELETE /p HTTP/1.1\nGET /p HTTP/1.1\n")
	require.NoError(t, err)

	expected := []string{"OK", "OK true", "NOT_FOUND", "OK", "NOT_FOUND"}
	for _, exp := range expected {
		assert.Equal(t, exp, c.readReply(t))
	}
}

func TestServerSharedStore(t *testing.T) {
	s, socket, _ := startServer(t, testConfig(), serializer.NewTextSerializer())
	c1 := dial(t, socket)
	c2 := dial(t, socket)

	assert.Equal(t, "OK", c1.send(t, "POST /shared/key HTTP/1.1"))
	assert.Equal(t, "OK true", c2.send(t, "GET /shared/key HTTP/1.1"))

	exists, err := s.Store().Has([]string{"", "shared", "key"})
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, uint64(1), s.Collector().Requests(common.OpGet, common.StatusOK))
}

func TestServerConcurrentClients(t *testing.T) {
	const clients = 16
	const perClient = 50

	s, socket, _ := startServer(t, testConfig(), serializer.NewTextSerializer())

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		c := dial(t, socket)
		wg.Add(1)
		go func(id int, c *lineConn) {
			defer wg.Done()
			for j := 0; j < perClient; j++ {
				if _, err := fmt.Fprintf(c, "POST /c%d/k%d HTTP/1.1\n", id, j); err != nil {
					t.Errorf("client %d: %v", id, err)
					return
				}
				reply, err := c.reader.ReadString('\n')
				if err != nil || reply != "OK\n" {
					t.Errorf("client %d: unexpected reply %q (%v)", id, reply, err)
					return
				}
			}
		}(i, c)
	}
	wg.Wait()

	info, err := s.Store().GetInfo()
	require.NoError(t, err)
	assert.Equal(t, clients*perClient, info.Values)
	branches, err := s.Store().ListBranches([]string{""})
	require.NoError(t, err)
	assert.Len(t, branches, clients)
}

func TestServerLineTooLong(t *testing.T) {
	config := testConfig()
	config.Transport.LineBufferSize = 32
	_, socket, _ := startServer(t, config, serializer.NewTextSerializer())
	c := dial(t, socket)

	assert.Equal(t, "OK", c.send(t, "POST /short HTTP/1.1"))

	reply := c.send(t, "POST /"+strings.Repeat("a", 128)+" HTTP/1.1")
	assert.Equal(t, "INVALID line too long", reply)

	// the server closes the connection afterwards
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err := c.reader.ReadString('\n')
	assert.Error(t, err)
}

func TestServerJSONReplies(t *testing.T) {
	_, socket, _ := startServer(t, testConfig(), serializer.NewJSONSerializer())
	c := dial(t, socket)
	ser := serializer.NewJSONSerializer()

	var reply common.Reply
	require.NoError(t, ser.Deserialize([]byte(c.send(t, "POST /j HTTP/1.1")), &reply))
	assert.Equal(t, common.StatusOK, reply.Status)

	reply = common.Reply{}
	require.NoError(t, ser.Deserialize([]byte(c.send(t, "GET /j HTTP/1.1")), &reply))
	assert.Equal(t, common.StatusOK, reply.Status)
	assert.Equal(t, "true", string(reply.Value))

	reply = common.Reply{}
	require.NoError(t, ser.Deserialize([]byte(c.send(t, "GET /j HTTP/3")), &reply))
	assert.Equal(t, common.StatusInvalid, reply.Status)
	assert.Contains(t, reply.Err, "invalid protocol")
}

func TestServerShutdown(t *testing.T) {
	_, socket, stop := startServer(t, testConfig(), serializer.NewTextSerializer())
	c := dial(t, socket)
	assert.Equal(t, "OK", c.send(t, "POST /a HTTP/1.1"))

	stop()

	// idle connections are closed
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err := c.reader.ReadString('\n')
	assert.Error(t, err)

	// new connections are refused
	_, err = net.Dial("unix", socket)
	assert.Error(t, err)
}
