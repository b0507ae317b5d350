// Package base provides the foundation for stream transports (TCP, Unix
// sockets) of the line protocol, independent of the specific network. It
// serves as a base layer that is extended with protocol-specific connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Line framing with a bounded line buffer
//   - A bounded worker pool shared by all connections
//   - Graceful shutdown
//   - Retries and reconnection on the client side
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - serverTransport: Accepts connections and serves each one in its own
//     goroutine. Lines of a connection are processed in order, so replies
//     match the order of the requests. Before a line is handed to the handler
//     a slot of the worker pool (golang.org/x/sync/semaphore) is acquired; the
//     accept loop itself never waits for a worker. A line longer than the line
//     buffer is answered by the registered error handler and the connection is
//     closed.
//
//   - clientTransport: Manages multiple connections with round-robin load
//     balancing. A connection carries one request at a time, failed
//     connections are re-established lazily and requests are retried with
//     exponential backoff.
//
// Performance Optimizations:
//
//   - Buffer Pooling: The server uses a sync.Pool to reuse line readers,
//     reducing GC pressure and memory allocations.
//
//   - Write Batching: Reply and line terminator are written with net.Buffers
//     to reduce syscalls.
//
// Shutdown:
//
//	Open connections are tracked in an xsync.MapOf. Shutdown closes the
//	listener, interrupts idle reads and waits until in-flight requests wrote
//	their reply. If the context expires first, remaining connections are closed.
package base
