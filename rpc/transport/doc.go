// Package transport defines the interfaces for moving request and reply lines
// between a client and the server. It provides a common contract that all
// transport implementations must fulfill.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Line based framing: one request line is answered by one reply line
//   - Enabling multiple transport implementations (TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives lines and passes them to the registered handler. Shutdown stops
//     the listener and waits for in-flight requests.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
//   - ServerErrorFunc: Function type building the reply for an unreadable line.
package transport
