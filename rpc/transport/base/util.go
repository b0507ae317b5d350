package base

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"

	"github.com/ValentinKolb/ephemeral/rpc/transport"
)

const (
	// DefaultLineBufferSize is used if no line buffer size is configured
	DefaultLineBufferSize = 4 * 1024 // 4 KB

	// minLineBufferSize is the smallest buffer bufio accepts
	minLineBufferSize = 16
)

var newline = []byte{'\n'}

// writeLine writes a line followed by '\n' to the connection.
// net.Buffers combines both parts into a single write where possible.
func writeLine(conn net.Conn, line []byte) error {
	b := net.Buffers{line, newline}
	_, err := b.WriteTo(conn)
	return err
}

// readLine reads the next line without its terminator ("\n" or "\r\n").
// The returned slice points into the reader's buffer and is only valid until
// the next read. A final line without terminator is returned together with nil;
// the following call reports io.EOF.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return nil, transport.ErrLineTooLong
	}
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// lineBufferSize returns the effective size of a line buffer
func lineBufferSize(size int) int {
	if size <= 0 {
		return DefaultLineBufferSize
	}
	if size < minLineBufferSize {
		return minLineBufferSize
	}
	return size
}
