// Package tcp implements the TCP socket transport for the line protocol. It
// provides concrete implementations of the base package's connector
// interfaces.
//
// This package builds on the base package's transport functionality, inheriting
// its line handling, the bounded worker pool and the graceful shutdown. See the
// base package documentation for details.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
//
// Both sides apply the configured socket options (TCP_NODELAY, keep-alive,
// linger and the OS buffer sizes) to every connection.
package tcp
