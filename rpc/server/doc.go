// Package server implements the RPC server of ephemeral.
// It owns the shared path store and turns request lines into replies.
//
// The package focuses on:
//   - Decoding request lines and dispatching them to the store (Router)
//   - Adapter pattern to decouple the request verbs from the store interface
//   - Wiring the store, the metrics and the transport into a single server
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server adapters,
//     with the Handle method that applies a decoded common.Action to a store.IStore.
//
//   - NewIStoreServerAdapter: Factory function creating the adapter for the
//     verbs GET, POST, DELETE and HEAD. GET misses (missing path or position
//     without value) are both answered with NOT_FOUND, HEAD with UNSUPPORTED.
//
//   - Router: Decodes a line with common.DecodeAction, calls the adapter and
//     records the outcome in a metrics.Collector. Every failure (decode error,
//     store error, panic) becomes a reply; HandleLine never returns nil.
//
//   - NewRPCServer: Factory function creating a server with the specified
//     transport and serializer. The store is created once per server.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  TimeoutSecond: 30,
//	  MaxWorkers:    64,
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewTextSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Serve blocks until Shutdown is called from another goroutine.
package server
