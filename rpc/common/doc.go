// Package common provides core data structures and utilities shared across
// the server, the client and the transports. It defines the request line
// protocol, the reply model, configuration structures and logging.
//
// The package focuses on:
//   - Decoding request lines into actions
//   - The reply model shared by server and client
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with the dragonboat logger package
//
// Key Components:
//
//   - Action: A decoded request line "VERB /path PROTOCOL". The verb is one of
//     GET, HEAD, DELETE, POST (case-sensitive), the protocol is HTTP/1.1 or
//     HTTP/2. The path is split on '/' keeping empty fragments, so "/a/b"
//     addresses ["", "a", "b"].
//
//   - DecodeAction: Turns a line into an Action or into an error wrapping one of
//     the exported sentinels (ErrInvalidOperation, ErrInvalidProtocol,
//     ErrTooManyArguments, ErrMissingArguments, ErrEmptyRequest).
//
//   - Reply: The answer to a single request line. The status is one of OK,
//     NOT_FOUND, INVALID, UNSUPPORTED, ERROR. Includes factory methods for
//     every status.
//
//   - ServerConfig: Configuration for the server process, including transport
//     settings, the bounded worker pool and the store lock timeout.
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation that plugs into dragonboat's
//     logger package while providing consistent formatting across the application.
package common
