// Package client implements the RPC client of ephemeral.
// It provides the IPathClient interface which builds request lines for the
// GET, POST, DELETE and HEAD verbs and decodes the server's replies.
//
// The package focuses on:
//   - Building well-formed request lines from paths
//   - Integration with the transport and serialization layers
//   - Conversion of negative replies into Go errors
//
// Key Components:
//
//   - NewRPCClient: Factory function that creates an IPathClient on top of a
//     connected client transport.
//
//   - Errors: INVALID, UNSUPPORTED and ERROR replies are returned as errors
//     wrapping ErrInvalidRequest, ErrUnsupported and ErrServer. NOT_FOUND is not
//     an error, Get reports it through found == false.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	c, _ := client.NewRPCClient(config, tcp.NewTCPClientTransport(), serializer.NewTextSerializer())
//	defer c.Close()
//
//	_ = c.Post("/users/alice")
//	value, found, _ := c.Get("/users/alice")
//
// The serializer must match the reply format the server was started with.
//
// Thread Safety:
//
//	Clients are safe for concurrent use. A connection carries one request at a
//	time, so ConnectionsPerEndpoint bounds the number of requests in flight.
package client
