package serializer

import (
	"fmt"
	"github.com/ValentinKolb/ephemeral/rpc/common"
)

// IRPCSerializer is the interface for all Reply Serializers.
// A serialized reply is a single line: it never contains a '\n' and it does
// not include the line terminator, which is added by the transport.
type IRPCSerializer interface {
	// Serialize serializes a Reply into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(reply common.Reply) ([]byte, error)
	// Deserialize deserializes a byte array into a Reply
	// It takes a byte array and a pointer to a Reply as parameters
	// It returns an error if any
	Deserialize(b []byte, reply *common.Reply) error
}

// New returns the serializer registered for a reply format (text, json)
func New(format string) (IRPCSerializer, error) {
	switch format {
	case "text":
		return NewTextSerializer(), nil
	case "json":
		return NewJSONSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid reply format %s (expected one of: text, json)", format)
	}
}
