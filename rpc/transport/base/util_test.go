package base

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/ValentinKolb/ephemeral/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	r := bufio.NewReaderSize(strings.NewReader("GET /a HTTP/1.1\r\n\nPOST /b HTTP/2\nlast"), 64)

	expected := []string{"GET /a HTTP/1.1", "", "POST /b HTTP/2", "last"}
	for _, exp := range expected {
		line, err := readLine(r)
		require.NoError(t, err)
		assert.Equal(t, exp, string(line))
	}

	_, err := readLine(r)
	assert.Equal(t, io.EOF, err)
}

func TestReadLineTooLong(t *testing.T) {
	r := bufio.NewReaderSize(strings.NewReader(strings.Repeat("x", 64)+"\n"), 16)

	_, err := readLine(r)
	assert.ErrorIs(t, err, transport.ErrLineTooLong)
}

func TestLineBufferSize(t *testing.T) {
	assert.Equal(t, DefaultLineBufferSize, lineBufferSize(0))
	assert.Equal(t, DefaultLineBufferSize, lineBufferSize(-5))
	assert.Equal(t, minLineBufferSize, lineBufferSize(1))
	assert.Equal(t, 1<<20, lineBufferSize(1<<20))
}
