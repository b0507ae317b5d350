package client

import (
	"fmt"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/serializer"
	"github.com/ValentinKolb/ephemeral/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("client")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invoke is a helper function used to send a single request line
// It returns the decoded reply and an error if the round trip or the decoding failed.
// Negative replies are returned as they are.
func (a *rpcClientAdapter) invoke(line []byte) (*common.Reply, error) {
	// Send the request
	respBytes, err := a.transport.Send(line)
	if err != nil {
		return nil, err
	}

	// Deserialize the reply
	reply := &common.Reply{}
	if err := a.serializer.Deserialize(respBytes, reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply %q: %w", respBytes, err)
	}

	Logger.Debugf("%s -> %s", line, reply)
	return reply, nil
}
