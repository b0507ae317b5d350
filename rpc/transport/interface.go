package transport

import (
	"context"
	"errors"

	"github.com/ValentinKolb/ephemeral/rpc/common"
)

var (
	// ErrServerClosed is returned by Listen after Shutdown was called
	ErrServerClosed = errors.New("transport: server closed")
	// ErrLineTooLong is reported when a line does not fit into the line buffer
	ErrLineTooLong = errors.New("line too long")
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer for every received line.
// The request does not contain the line terminator, the response must not contain one.
// The request slice is only valid until the function returns.
type ServerHandleFunc func(req []byte) (resp []byte)

// ServerErrorFunc builds the response for a request that could not be read,
// e.g. a line exceeding the line buffer. The connection is closed after the
// response was written. A nil response closes the connection without a reply.
type ServerErrorFunc func(err error) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// RegisterErrorHandler registers the handler for unreadable requests (optional)
	RegisterErrorHandler(handler ServerErrorFunc)
	// Listen starts the transport layer and listens for incoming requests.
	// It blocks until the transport fails or Shutdown is called, in which case it returns ErrServerClosed.
	Listen(config common.ServerConfig) error
	// Shutdown stops accepting connections, closes open connections and waits
	// until all handlers returned or the context is done.
	Shutdown(ctx context.Context) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request line to the server and returns the reply line
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
