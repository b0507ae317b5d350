package client

import (
	"errors"
)

var (
	// ErrInvalidPath is returned for a path that can not be sent as a single request token
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidRequest is returned when the server answered INVALID
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupported is returned when the server answered UNSUPPORTED
	ErrUnsupported = errors.New("operation not supported")
	// ErrServer is returned when the server answered ERROR
	ErrServer = errors.New("server error")
)

// DefaultProtocol is the protocol token appended to every request line
const DefaultProtocol = "HTTP/1.1"

// IPathClient is the client interface of the ephemeral line protocol.
// Paths are sent as given, e.g. "/a/b/c", and must not contain whitespace.
// All implementations are safe for concurrent use.
type IPathClient interface {
	// Get returns the value at a path. found is false if the path does not exist
	// or if the position holds no value.
	Get(path string) (value []byte, found bool, err error)
	// Post stores the server's POST value at a path
	Post(path string) error
	// Delete removes a path and everything beneath it
	Delete(path string) error
	// Head asks the server whether a path holds a value.
	// Servers that do not implement HEAD yield ErrUnsupported.
	Head(path string) (found bool, err error)
	// Raw sends a request line as is and returns the decoded reply.
	// Negative replies are not turned into errors.
	Raw(line string) (reply *Reply, err error)
	// Close closes the underlying transport
	Close() error
}
