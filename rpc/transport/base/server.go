package base

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/transport"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector    IServerConnector
	handler      transport.ServerHandleFunc
	errorHandler transport.ServerErrorFunc
	config       common.ServerConfig

	// workers bounds the number of requests processed at the same time (across all connections)
	workers *semaphore.Weighted

	// readerPool reuses line buffers between connections
	readerPool *sync.Pool

	// open connections, used to interrupt them on shutdown
	conns      *xsync.MapOf[uint64, net.Conn]
	nextConnID atomic.Uint64
	wg         sync.WaitGroup

	// mu protects listener and closing (and orders wg.Add before wg.Wait)
	mu       sync.Mutex
	listener net.Listener
	closing  atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with the specified connector.
// The worker pool and the line buffers are sized when Listen is called.
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	ctx, cancel := context.WithCancel(context.Background())
	return &serverTransport{
		connector: connector,
		conns:     xsync.NewMapOf[uint64, net.Conn](),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) RegisterErrorHandler(handler transport.ServerErrorFunc) {
	t.errorHandler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}
	t.config = config

	// minimum one worker
	maxWorkers := int64(config.MaxWorkers)
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	t.workers = semaphore.NewWeighted(maxWorkers)

	bufferSize := lineBufferSize(config.Transport.LineBufferSize)
	t.readerPool = &sync.Pool{
		New: func() interface{} {
			return bufio.NewReaderSize(nil, bufferSize)
		},
	}

	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	t.mu.Lock()
	if t.closing.Load() {
		t.mu.Unlock()
		_ = listener.Close()
		return transport.ErrServerClosed
	}
	t.listener = listener
	t.mu.Unlock()

	Logger.Infof("Starting %s server on %s with %d workers and a line buffer of %d bytes",
		t.connector.GetName(), listener.Addr(), maxWorkers, bufferSize)

	// Accept connections
	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.closing.Load() {
				return transport.ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("listener closed unexpectedly: %w", err)
			}
			Logger.Errorf("Accept error: %v", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		t.mu.Lock()
		if t.closing.Load() {
			t.mu.Unlock()
			_ = conn.Close()
			return transport.ErrServerClosed
		}
		id := t.nextConnID.Add(1)
		t.conns.Store(id, conn)
		t.wg.Add(1)
		t.mu.Unlock()

		// Handle the connection in a goroutine
		go t.handleConnection(id, conn)
	}
}

func (t *serverTransport) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	t.closing.Store(true)
	if t.listener != nil {
		if err := t.listener.Close(); err != nil {
			Logger.Warningf("Failed to close listener: %v", err)
		}
	}
	t.mu.Unlock()

	// interrupt idle reads, in-flight requests still write their reply
	t.conns.Range(func(_ uint64, conn net.Conn) bool {
		_ = conn.SetReadDeadline(time.Now())
		return true
	})

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		Logger.Infof("%s server stopped", t.connector.GetName())
		return nil
	case <-ctx.Done():
		// force close everything that is still open, requests waiting for a worker are dropped
		t.cancel()
		t.conns.Range(func(_ uint64, conn net.Conn) bool {
			_ = conn.Close()
			return true
		})
		<-done
		return ctx.Err()
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// handleConnection processes the lines of one connection in order.
// Each line is answered before the next one is read.
func (t *serverTransport) handleConnection(id uint64, conn net.Conn) {
	defer t.wg.Done()
	defer t.conns.Delete(id)
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	if remote == "" {
		remote = fmt.Sprintf("conn-%d", id)
	}

	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		Logger.Errorf("Failed to upgrade connection %s: %v", remote, err)
		return
	}

	// Get a line buffer from the pool
	reader := t.readerPool.Get().(*bufio.Reader)
	reader.Reset(conn)
	defer func() {
		reader.Reset(nil)
		t.readerPool.Put(reader)
	}()

	// Timeout in seconds
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	Logger.Debugf("Accepted connection %s", remote)

	for {
		if timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Failed to set read deadline: %v", err)
				return
			}
		}

		// checked after setting the deadline so a concurrent Shutdown can not be missed
		if t.closing.Load() {
			return
		}

		line, err := readLine(reader)

		// Case EOF: Connection closed by client
		if err == io.EOF {
			Logger.Debugf("Connection %s closed by client", remote)
			return
		}

		// Case line too long: reply if possible, then close
		if errors.Is(err, transport.ErrLineTooLong) {
			Logger.Warningf("Closing connection %s: %v", remote, err)
			if t.errorHandler != nil {
				if resp := t.errorHandler(err); resp != nil {
					t.write(conn, timeout, resp)
				}
			}
			return
		}

		// Case error: log and close connection
		if err != nil {
			if !t.closing.Load() {
				Logger.Infof("Closing connection %s: %v", remote, err)
			}
			return
		}

		// Acquire a worker (blocks if MaxWorkers requests are in flight).
		// A graceful shutdown still answers lines that are already read.
		if err := t.workers.Acquire(t.ctx, 1); err != nil {
			return
		}
		start := time.Now()
		resp := t.handler(line)
		t.workers.Release(1)
		Logger.Debugf("Processed request from %s in %s", remote, time.Since(start))

		if !t.write(conn, timeout, resp) {
			return
		}
	}
}

// write sends one reply line and reports whether the connection is still usable
func (t *serverTransport) write(conn net.Conn, timeout time.Duration, resp []byte) bool {
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			Logger.Errorf("Failed to set write deadline: %v", err)
			return false
		}
	}

	if err := writeLine(conn, resp); err != nil {
		Logger.Errorf("Failed to write response: %v", err)
		return false
	}
	return true
}
