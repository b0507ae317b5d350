package serve

import (
	"context"
	"fmt"
	cmdUtil "github.com/ValentinKolb/ephemeral/cmd/util"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/serializer"
	"github.com/ValentinKolb/ephemeral/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds the wait for in-flight requests on SIGINT / SIGTERM
const shutdownTimeout = 10 * time.Second

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:   "serve [port]",
		Short: "Start the ephemeral server",
		Long: `Start the ephemeral server with the specified configuration. The optional port argument overrides the port of --endpoint (tcp only).
The configuration can be set via command line flags or environment variables. The format of the environment variables is EPHEMERAL_<flag> (e.g. EPHEMERAL_MAX_WORKERS=32)`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the server will listen (e.g. 0.0.0.0:8080 for tcp, /tmp/ephemeral.sock for unix)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 60, cmdUtil.WrapString("Idle and write timeout of a connection in seconds (0 = disabled)"))

	key = "max-workers"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("(Hardening) Maximum number of requests processed at the same time across all connections. Further requests wait for a free worker"))

	key = "read-buffer"
	ServeCmd.PersistentFlags().Int(key, 4096, cmdUtil.WrapString("(Hardening) Maximum length of a request line in bytes. Longer lines are answered with INVALID and the connection is closed"))

	key = "lock-timeout-ms"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("(Hardening) Maximum wait for the store lock in milliseconds. Requests that time out are answered with ERROR (0 = wait forever)"))

	key = "post-value"
	ServeCmd.PersistentFlags().String(key, "true", cmdUtil.WrapString("The value stored by a POST request"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address of the Prometheus endpoint, served on /metrics (e.g. localhost:9090, empty = disabled)"))

	key = "stats-interval"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Interval in seconds of the stats log line (0 = disabled)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "socket-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The size of the socket write buffer (in KB, 0 = OS default)"))

	key = "socket-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The size of the socket read buffer (in KB, 0 = OS default)"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval in seconds (0 = disabled, only for tcp)"))

	key = "tcp-linger"
	ServeCmd.PersistentFlags().Int(key, -1, cmdUtil.WrapString("The linger time in seconds (-1 = OS default, only for tcp)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, args []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	config, err := buildConfig(args)
	if err != nil {
		return err
	}
	*serveCmdConfig = *config
	return nil
}

// buildConfig creates the server configuration from viper and the positional arguments.
// Every error is reported here so the process never starts listening with a bad configuration.
func buildConfig(args []string) (*common.ServerConfig, error) {
	config := &common.ServerConfig{
		Transport: common.ServerTransportConfig{
			Endpoint:       viper.GetString("endpoint"),
			LineBufferSize: viper.GetInt("read-buffer"),
			SocketConf: common.SocketConf{
				WriteBufferSize: viper.GetInt("socket-write-buffer") * 1024,
				ReadBufferSize:  viper.GetInt("socket-read-buffer") * 1024,
			},
			TCPConf: common.TCPConf{
				TCPNoDelay:      viper.GetBool("tcp-nodelay"),
				TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
				TCPLingerSec:    viper.GetInt("tcp-linger"),
			},
		},
		TimeoutSecond:          viper.GetInt64("timeout"),
		MaxWorkers:             viper.GetInt("max-workers"),
		LockTimeoutMillisecond: viper.GetInt64("lock-timeout-ms"),
		PostValue:              viper.GetString("post-value"),
		ReplyFormat:            viper.GetString("reply-format"),
		MetricsEndpoint:        viper.GetString("metrics-endpoint"),
		StatsIntervalSecond:    viper.GetInt("stats-interval"),
		LogLevel:               viper.GetString("log-level"),
	}

	// the positional port overrides the port of the endpoint
	if len(args) == 1 {
		if viper.GetString("transport") != "tcp" {
			return nil, fmt.Errorf("a port argument is only valid for the tcp transport")
		}
		port, err := common.ParsePort(args[0])
		if err != nil {
			return nil, err
		}
		endpoint, err := common.WithPort(config.Transport.Endpoint, port)
		if err != nil {
			return nil, err
		}
		config.Transport.Endpoint = endpoint
	}

	if config.Transport.Endpoint == "" {
		return nil, fmt.Errorf("endpoint must not be empty")
	}
	if config.MaxWorkers < 1 {
		return nil, fmt.Errorf("max-workers must be at least 1, got %d", config.MaxWorkers)
	}
	if config.Transport.LineBufferSize < 1 {
		return nil, fmt.Errorf("read-buffer must be positive, got %d", config.Transport.LineBufferSize)
	}
	if config.LockTimeoutMillisecond < 0 || config.TimeoutSecond < 0 || config.StatsIntervalSecond < 0 {
		return nil, fmt.Errorf("timeouts and intervals must not be negative")
	}
	if config.PostValue == "" {
		return nil, fmt.Errorf("post-value must not be empty")
	}
	if _, err := common.ParseLogLevel(config.LogLevel); err != nil {
		return nil, err
	}
	if _, err := serializer.New(config.ReplyFormat); err != nil {
		return nil, err
	}
	if _, err := cmdUtil.GetServerTransport(); err != nil {
		return nil, err
	}

	return config, nil
}

// run starts the ephemeral server and stops it on SIGINT / SIGTERM
func run(_ *cobra.Command, _ []string) error {

	s, err := serializer.New(serveCmdConfig.ReplyFormat)
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- serv.Serve()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	server.Logger.Infof("Shutting down (waiting up to %s for in-flight requests)", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := serv.Shutdown(shutdownCtx); err != nil {
		server.Logger.Warningf("Forced shutdown: %v", err)
	}
	return <-errCh
}
