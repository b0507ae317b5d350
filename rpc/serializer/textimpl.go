package serializer

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/ValentinKolb/ephemeral/rpc/common"
	"strings"
)

// ErrMultiLineValue is returned when a value can not be written as a single text line
var ErrMultiLineValue = errors.New("value contains a line break")

// NewTextSerializer creates a new serializer using the plain text line format:
//
//	OK [value]
//	NOT_FOUND
//	INVALID <reason>
//	UNSUPPORTED
//	ERROR <reason>
func NewTextSerializer() IRPCSerializer {
	return &textSerializerImpl{}
}

// textSerializerImpl implements the IRPCSerializer interface using the text line format
type textSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (t textSerializerImpl) Serialize(reply common.Reply) ([]byte, error) {
	var payload []byte
	switch reply.Status {
	case common.StatusOK:
		if bytes.IndexByte(reply.Value, '\n') >= 0 {
			return nil, ErrMultiLineValue
		}
		payload = reply.Value
	case common.StatusInvalid, common.StatusError:
		// reasons are free text, keep them on one line
		payload = []byte(strings.ReplaceAll(reply.Err, "\n", " "))
	case common.StatusNotFound, common.StatusUnsupported:
	default:
		return nil, fmt.Errorf("unknown reply status: %q", reply.Status)
	}

	buf := make([]byte, 0, len(reply.Status)+1+len(payload))
	buf = append(buf, reply.Status...)
	if len(payload) > 0 {
		buf = append(buf, ' ')
		buf = append(buf, payload...)
	}
	return buf, nil
}

func (t textSerializerImpl) Deserialize(b []byte, reply *common.Reply) error {
	line := bytes.TrimRight(b, "\r\n")

	statusToken, payload, hasPayload := bytes.Cut(line, []byte{' '})
	status, err := common.ParseReplyStatus(string(statusToken))
	if err != nil {
		return err
	}

	*reply = common.Reply{Status: status}
	if !hasPayload {
		return nil
	}

	switch status {
	case common.StatusOK:
		reply.Value = append([]byte(nil), payload...)
	case common.StatusInvalid, common.StatusError:
		reply.Err = string(payload)
	default:
		return fmt.Errorf("unexpected payload for reply status %s", status)
	}
	return nil
}
