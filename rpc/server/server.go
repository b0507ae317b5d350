package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/lib/store/lstore"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/metrics"
	"github.com/ValentinKolb/ephemeral/rpc/serializer"
	"github.com/ValentinKolb/ephemeral/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters.
// The store is created once here and lives as long as the server.
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewTextSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// before the store is created, an invalid level is reported again by Serve
	_ = common.InitLoggers(config.LogLevel)

	s := lstore.NewLocalStore(&lstore.Options{
		LockTimeout: time.Duration(config.LockTimeoutMillisecond) * time.Millisecond,
	})
	collector := metrics.NewCollector(s.GetInfo)

	var postValue []byte
	if config.PostValue != "" {
		postValue = []byte(config.PostValue)
	}

	return &rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		store:      s,
		collector:  collector,
		router:     NewRouter(s, NewIStoreServerAdapter(postValue), collector),
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer

	store     store.IStore
	collector *metrics.Collector
	router    *Router

	mu            sync.Mutex
	metricsServer *metrics.Server
	stopReporter  func()
}

// Store returns the store served by the server
func (s *rpcServer) Store() store.IStore {
	return s.store
}

// Collector returns the metrics collector of the server
func (s *rpcServer) Collector() *metrics.Collector {
	return s.collector
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(req []byte) []byte {
		return s.encode(s.router.HandleLine(string(req)))
	})

	s.transport.RegisterErrorHandler(func(err error) []byte {
		return s.encode(common.NewInvalidReply(err))
	})
}

// encode serializes a reply. If that fails the client still gets an ERROR line.
func (s *rpcServer) encode(reply *common.Reply) []byte {
	resp, err := s.serializer.Serialize(*reply)
	if err == nil {
		return resp
	}

	Logger.Warningf("Failed to serialize reply %s: %v", reply, err)
	resp, err = s.serializer.Serialize(*common.NewErrorReply(fmt.Errorf("failed to serialize reply: %w", err)))
	if err != nil {
		return []byte(common.StatusError)
	}
	return resp
}

func (s *rpcServer) init() error {

	// Apply the log level
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", s.config.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	// Start the prometheus endpoint
	if s.config.MetricsEndpoint != "" {
		listener, err := net.Listen("tcp", s.config.MetricsEndpoint)
		if err != nil {
			return fmt.Errorf("failed to listen on metrics endpoint: %w", err)
		}
		s.metricsServer = metrics.NewServer(s.config.MetricsEndpoint, s.collector, s.config.LogLevel == "debug")
		go func(srv *metrics.Server) {
			if err := srv.Serve(listener); err != nil {
				Logger.Errorf("Metrics server failed: %v", err)
			}
		}(s.metricsServer)
	}

	// Start the periodic stats log line
	s.stopReporter = s.collector.StartReporter(time.Duration(s.config.StatsIntervalSecond) * time.Second)

	Logger.Infof("ephemeral setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the metrics and start the transport layer.
// It blocks until the transport fails or Shutdown is called, the latter returns nil.
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}

	err = s.transport.Listen(s.config)
	if errors.Is(err, transport.ErrServerClosed) {
		return nil
	}

	// the transport never came up, release what init started
	s.stopAux(context.Background())
	return err
}

// Shutdown stops the transport and waits for in-flight requests (bounded by ctx).
// Afterwards the metrics endpoint and the stats reporter are stopped.
func (s *rpcServer) Shutdown(ctx context.Context) error {
	err := s.transport.Shutdown(ctx)
	s.stopAux(ctx)
	return err
}

// stopAux stops the stats reporter and the metrics endpoint
func (s *rpcServer) stopAux(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopReporter != nil {
		s.stopReporter()
		s.stopReporter = nil
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			Logger.Warningf("Failed to stop metrics server: %v", err)
		}
		s.metricsServer = nil
	}
	s.collector.Stop()
}
