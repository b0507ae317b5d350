package common

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport configuration structs (shared by server and client)
// --------------------------------------------------------------------------

// SocketConf holds socket options that apply to every stream transport
type SocketConf struct {
	// WriteBufferSize is the size of the OS send buffer in bytes (0 = OS default)
	WriteBufferSize int
	// ReadBufferSize is the size of the OS receive buffer in bytes (0 = OS default)
	ReadBufferSize int
}

// TCPConf holds socket options that only apply to TCP connections
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 = disabled
	TCPLingerSec    int // < 0 = OS default
}

// ServerTransportConfig configures the server side of a transport
type ServerTransportConfig struct {
	// Endpoint is host:port for tcp and a socket path for unix
	Endpoint string
	// LineBufferSize bounds the length of a single request line in bytes
	LineBufferSize int

	SocketConf
	TCPConf
}

// ClientTransportConfig configures the client side of a transport
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	// LineBufferSize bounds the length of a single reply line in bytes
	LineBufferSize int

	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of a server process.
type ServerConfig struct {
	Transport ServerTransportConfig

	// TimeoutSecond is the idle read and the write timeout of a connection (0 = none)
	TimeoutSecond int64

	// MaxWorkers bounds the number of requests processed at the same time across all connections
	MaxWorkers int

	// LockTimeoutMillisecond bounds the wait for the store lock (0 = wait forever)
	LockTimeoutMillisecond int64

	// PostValue is the value a POST request stores
	PostValue string

	// ReplyFormat selects the reply serializer (text, json)
	ReplyFormat string

	// MetricsEndpoint is the address of the Prometheus endpoint (empty = disabled)
	MetricsEndpoint string

	// StatsIntervalSecond is the interval of the periodic stats log line (0 = disabled)
	StatsIntervalSecond int

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orDisabled := func(value string, enabled bool) string {
		if !enabled {
			return "disabled"
		}
		return value
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Reply Format", c.ReplyFormat)
	addField("Timeout", orDisabled(fmt.Sprintf("%d sec", c.TimeoutSecond), c.TimeoutSecond > 0))
	addField("Max Line Length", fmt.Sprintf("%d bytes", c.Transport.LineBufferSize))

	// Hardening
	addSection("Hardening")
	addField("Max Workers", strconv.Itoa(c.MaxWorkers))
	addField("Lock Timeout", orDisabled(fmt.Sprintf("%d ms", c.LockTimeoutMillisecond), c.LockTimeoutMillisecond > 0))

	// Store
	addSection("Store")
	addField("POST Value", strconv.Quote(c.PostValue))

	// Metrics
	addSection("Metrics")
	addField("Metrics Endpoint", orDisabled(c.MetricsEndpoint, c.MetricsEndpoint != ""))
	addField("Stats Interval", orDisabled(fmt.Sprintf("%d sec", c.StatsIntervalSecond), c.StatsIntervalSecond > 0))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all configuration parameters of a client.
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParsePort parses a decimal TCP port in the range 1..65535
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: not a number", s)
	}
	if port < 1 || port > math.MaxUint16 {
		return 0, fmt.Errorf("invalid port %d: must be between 1 and %d", port, math.MaxUint16)
	}
	return port, nil
}

// WithPort replaces the port of a host:port endpoint
func WithPort(endpoint string, port int) (string, error) {
	host, _, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
