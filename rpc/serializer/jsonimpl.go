package serializer

import (
	"encoding/json"
	"github.com/ValentinKolb/ephemeral/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Values are base64 encoded by encoding/json, so a reply is always a single line.
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(reply common.Reply) ([]byte, error) {
	return json.Marshal(reply)
}

func (j jsonSerializerImpl) Deserialize(b []byte, reply *common.Reply) error {
	return json.Unmarshal(b, reply)
}
