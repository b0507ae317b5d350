package serve

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setDefaults resets viper to the flag defaults of the serve command
func setDefaults(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("transport", "tcp")
	viper.Set("reply-format", "text")
	require.NoError(t, viper.BindPFlags(ServeCmd.PersistentFlags()))
}

func TestBuildConfigDefaults(t *testing.T) {
	setDefaults(t)

	config, err := buildConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", config.Transport.Endpoint)
	assert.Equal(t, 4096, config.Transport.LineBufferSize)
	assert.Equal(t, 64, config.MaxWorkers)
	assert.Equal(t, "true", config.PostValue)
	assert.Equal(t, int64(0), config.LockTimeoutMillisecond)
	assert.Equal(t, -1, config.Transport.TCPLingerSec)
}

func TestBuildConfigPort(t *testing.T) {
	setDefaults(t)

	config, err := buildConfig([]string{"9000"})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", config.Transport.Endpoint)

	for _, port := range []string{"abc", "0", "65536", "-1"} {
		_, err := buildConfig([]string{port})
		assert.Error(t, err, port)
	}

	viper.Set("transport", "unix")
	viper.Set("endpoint", "/tmp/ephemeral.sock")
	_, err = buildConfig([]string{"9000"})
	assert.Error(t, err)
}

func TestBuildConfigInvalid(t *testing.T) {
	cases := map[string]any{
		"log-level":    "verbose",
		"reply-format": "xml",
		"transport":    "http",
		"max-workers":  0,
		"read-buffer":  0,
		"post-value":   "",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setDefaults(t)
			viper.Set(key, value)
			_, err := buildConfig(nil)
			assert.Error(t, err)
		})
	}
}
