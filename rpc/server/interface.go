package server

import (
	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for applying a decoded action to a store
type IRPCServerAdapter interface {
	// Handle applies an action to a store and returns the reply.
	// Failures are reported through the reply, never as a panic or an error return.
	Handle(action common.Action, store store.IStore) (reply *common.Reply)
}
