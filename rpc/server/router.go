package server

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/metrics"
)

// Router turns request lines into replies. It decodes a line, applies the
// action to the store through an adapter and records the outcome.
// A Router is safe for concurrent use.
type Router struct {
	store     store.IStore
	adapter   IRPCServerAdapter
	collector *metrics.Collector
}

// NewRouter creates a router for a store. The collector is optional.
func NewRouter(s store.IStore, adapter IRPCServerAdapter, collector *metrics.Collector) *Router {
	return &Router{
		store:     s,
		adapter:   adapter,
		collector: collector,
	}
}

// HandleLine decodes a single request line (without terminator) and returns its reply.
// It never returns nil.
func (r *Router) HandleLine(line string) (reply *common.Reply) {
	start := time.Now()
	action, err := common.DecodeAction(line)

	defer func() {
		if rec := recover(); rec != nil {
			Logger.Errorf("recovered panic while handling %q: %v", line, rec)
			reply = common.NewErrorReply(fmt.Errorf("internal error: %v", rec))
		}
		if r.collector != nil {
			r.collector.Observe(action.Op, reply.Status, time.Since(start))
		}
	}()

	if err != nil {
		Logger.Debugf("invalid request %q: %v", line, err)
		return common.NewInvalidReply(err)
	}

	reply = r.adapter.Handle(action, r.store)
	if reply.Status == common.StatusError {
		Logger.Warningf("%s failed: %s", action, reply.Err)
	}
	return reply
}
