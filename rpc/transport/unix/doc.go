// Package unix implements the line protocol transport over Unix domain
// sockets for processes running on the same machine.
//
// This package extends the base transport layer with Unix socket-specific
// connectors while inheriting line handling, the worker pool and the graceful
// shutdown from the base package. The server removes a stale socket file
// before it starts listening.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners and accepts connections
package unix
