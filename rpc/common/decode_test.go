package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	t.Run("Verbs", func(t *testing.T) {
		for _, op := range Operations {
			action, err := DecodeAction(op.Wire() + " /foo/bar/baz HTTP/1.1")
			require.NoError(t, err)
			assert.Equal(t, op, action.Op)
			assert.Equal(t, []string{"", "foo", "bar", "baz"}, action.Path)
		}
	})

	t.Run("Protocols", func(t *testing.T) {
		for _, proto := range Protocols {
			action, err := DecodeAction("GET /a " + proto)
			require.NoError(t, err)
			assert.Equal(t, proto, action.Protocol)
		}
	})

	t.Run("Whitespace", func(t *testing.T) {
		action, err := DecodeAction("  GET \t/a/b   HTTP/2\r\n")
		require.NoError(t, err)
		assert.Equal(t, OpGet, action.Op)
		assert.Equal(t, []string{"", "a", "b"}, action.Path)
	})

	t.Run("EmptyFragments", func(t *testing.T) {
		action, err := DecodeAction("POST /a//b/ HTTP/1.1")
		require.NoError(t, err)
		assert.Equal(t, []string{"", "a", "", "b", ""}, action.Path)

		action, err = DecodeAction("GET / HTTP/1.1")
		require.NoError(t, err)
		assert.Equal(t, []string{"", ""}, action.Path)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		line := "DELETE /a//b/ HTTP/2"
		action, err := DecodeAction(line)
		require.NoError(t, err)
		assert.Equal(t, line, action.String())
	})
}

func TestDecodeActionErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		err  error
	}{
		{"Empty", "", ErrEmptyRequest},
		{"Blank", " \t \r\n", ErrEmptyRequest},
		{"UnknownVerb", "ERROR /x HTTP/1.1", ErrInvalidOperation},
		{"LowerCaseVerb", "get /x HTTP/1.1", ErrInvalidOperation},
		{"UnknownProtocol", "GET /x HTTP/3", ErrInvalidProtocol},
		{"ProtocolBeforeVerb", "ERROR wrong HTTP", ErrInvalidProtocol},
		{"ProtocolBeforeArity", "GET /x HTTP extra", ErrInvalidProtocol},
		{"TooMany", "GET /a/b/c HTTP/1.1 extra", ErrTooManyArguments},
		{"TooManyBeforeVerb", "ERROR /a HTTP/1.1 extra", ErrTooManyArguments},
		{"MissingProtocol", "GET /a", ErrMissingArguments},
		{"MissingPath", "GET", ErrMissingArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAction(tt.line)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestOperation(t *testing.T) {
	for _, op := range Operations {
		parsed, err := ParseOperation(op.Wire())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)

		data, err := op.MarshalJSON()
		require.NoError(t, err)

		var decoded Operation
		require.NoError(t, decoded.UnmarshalJSON(data))
		assert.Equal(t, op, decoded)
	}

	_, err := ParseOperation("PUT")
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, "unknown", OpUnknown.String())
}

func TestReply(t *testing.T) {
	assert.True(t, NewOKReply(nil).Positive())
	assert.False(t, NewNotFoundReply().Positive())
	assert.False(t, NewUnsupportedReply().Positive())
	assert.False(t, NewInvalidReply(ErrInvalidOperation).Positive())

	reply := NewErrorReply(ErrTooManyArguments)
	assert.Equal(t, StatusError, reply.Status)
	assert.Equal(t, ErrTooManyArguments.Error(), reply.Err)

	for _, status := range []ReplyStatus{StatusOK, StatusNotFound, StatusInvalid, StatusUnsupported, StatusError} {
		parsed, err := ParseReplyStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
	_, err := ParseReplyStatus("MAYBE")
	assert.Error(t, err)
}
