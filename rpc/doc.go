// Package rpc provides the network layer of ephemeral. It carries request
// lines from clients to the path store and reply lines back.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the request line decoder, the Reply type, configuration
//     structures, and logging.
//
//   - transport: Line framed stream transports with pluggable implementations
//     (TCP, Unix sockets).
//
//   - serializer: Reply serialization with two formats (text, JSON).
//
//   - metrics: Request counters, latency timers and the Prometheus endpoint.
//
//   - client: The path client used by the command line tools.
//
//   - server: The server that owns the store and routes request lines to it.
package rpc
