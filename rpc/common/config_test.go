package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePort(t *testing.T) {
	port, err := ParsePort("8080")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	port, err = ParsePort("65535")
	require.NoError(t, err)
	assert.Equal(t, 65535, port)

	for _, invalid := range []string{"", "abc", "0", "-1", "65536", "80a"} {
		_, err := ParsePort(invalid)
		assert.Error(t, err, "port %q", invalid)
	}
}

func TestWithPort(t *testing.T) {
	endpoint, err := WithPort("0.0.0.0:8080", 9000)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", endpoint)

	endpoint, err = WithPort("[::1]:8080", 9000)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:9000", endpoint)

	_, err = WithPort("/tmp/ephemeral.sock", 9000)
	assert.Error(t, err)
}

func TestServerConfigString(t *testing.T) {
	conf := ServerConfig{
		Transport:              ServerTransportConfig{Endpoint: "localhost:8080", LineBufferSize: 4096},
		TimeoutSecond:          5,
		MaxWorkers:             64,
		LockTimeoutMillisecond: 0,
		PostValue:              "true",
		ReplyFormat:            "text",
		LogLevel:               "info",
	}

	s := conf.String()
	assert.Contains(t, s, "localhost:8080")
	assert.Contains(t, s, "RPC SERVER")
	assert.Contains(t, s, "HARDENING")
	assert.Contains(t, s, `"true"`)
	assert.Contains(t, s, "disabled")
}
