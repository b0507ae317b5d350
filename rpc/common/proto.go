package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Action Structure
// --------------------------------------------------------------------------

// Action is a decoded request line: an operation applied to a path.
type Action struct {
	Op       Operation `json:"op"`
	Path     []string  `json:"path"`
	Protocol string    `json:"protocol"`
}

// String returns the request line the action was decoded from (modulo whitespace).
func (a Action) String() string {
	return fmt.Sprintf("%s %s %s", a.Op.Wire(), JoinPath(a.Path), a.Protocol)
}

// JoinPath is the inverse of SplitPath.
func JoinPath(path []string) string {
	return strings.Join(path, "/")
}

// SplitPath splits a path token on '/' and keeps empty fragments,
// so "/a/b" becomes ["", "a", "b"] and "/a//b/" becomes ["", "a", "", "b", ""].
func SplitPath(token string) []string {
	return strings.Split(token, "/")
}

// --------------------------------------------------------------------------
// Reply Structure
// --------------------------------------------------------------------------

// Reply is the answer to a single request line.
type Reply struct {
	Status ReplyStatus `json:"status"`
	Value  []byte      `json:"value,omitempty"` // Used for: OK replies to GET
	Err    string      `json:"err,omitempty"`   // Used for: INVALID and ERROR replies
}

// Positive reports whether the reply signals success
func (r *Reply) Positive() bool {
	return r.Status == StatusOK
}

// String returns a short human-readable representation of the reply
func (r *Reply) String() string {
	switch {
	case r.Err != "":
		return fmt.Sprintf("%s (%s)", r.Status, r.Err)
	case r.Value != nil:
		return fmt.Sprintf("%s (%d bytes)", r.Status, len(r.Value))
	default:
		return string(r.Status)
	}
}

// --------------------------------------------------------------------------
// Reply Factory Functions
// --------------------------------------------------------------------------

// NewOKReply creates a positive reply, value may be nil
func NewOKReply(value []byte) *Reply {
	return &Reply{
		Status: StatusOK,
		Value:  value,
	}
}

// NewNotFoundReply creates a reply for a lookup miss
func NewNotFoundReply() *Reply {
	return &Reply{
		Status: StatusNotFound,
	}
}

// NewInvalidReply creates a reply for a request line that could not be decoded
func NewInvalidReply(err error) *Reply {
	return &Reply{
		Status: StatusInvalid,
		Err:    err.Error(),
	}
}

// NewUnsupportedReply creates a reply for an operation the server does not implement
func NewUnsupportedReply() *Reply {
	return &Reply{
		Status: StatusUnsupported,
	}
}

// NewErrorReply creates a reply for a request that failed on the server
func NewErrorReply(err error) *Reply {
	return &Reply{
		Status: StatusError,
		Err:    err.Error(),
	}
}

// --------------------------------------------------------------------------
// Reply Status
// --------------------------------------------------------------------------

// ReplyStatus is the first token of every reply line.
type ReplyStatus string

const (
	StatusOK          ReplyStatus = "OK"          // The operation succeeded
	StatusNotFound    ReplyStatus = "NOT_FOUND"   // The path is missing or holds no value
	StatusInvalid     ReplyStatus = "INVALID"     // The request line could not be decoded
	StatusUnsupported ReplyStatus = "UNSUPPORTED" // The operation is known but not implemented
	StatusError       ReplyStatus = "ERROR"       // The operation failed on the server
)

// ParseReplyStatus returns the ReplyStatus for a status token
func ParseReplyStatus(s string) (ReplyStatus, error) {
	switch status := ReplyStatus(s); status {
	case StatusOK, StatusNotFound, StatusInvalid, StatusUnsupported, StatusError:
		return status, nil
	default:
		return "", fmt.Errorf("unknown reply status: %q", s)
	}
}

// --------------------------------------------------------------------------
// Operation Definition
// --------------------------------------------------------------------------

// Operation defines the verb of a request line.
type Operation uint8

const (
	OpUnknown Operation = iota
	OpGet               // Read the value at a path
	OpHead              // Recognized, answered with UNSUPPORTED
	OpDelete            // Remove a path and its subtree
	OpPost              // Insert the configured value at a path
)

// Operations lists every known operation
var Operations = []Operation{OpGet, OpHead, OpDelete, OpPost}

// String returns the lower case name of an Operation, e.g. for metric labels.
func (o Operation) String() string {
	switch o {
	case OpGet:
		return "get"
	case OpHead:
		return "head"
	case OpDelete:
		return "delete"
	case OpPost:
		return "post"
	default:
		return "unknown"
	}
}

// Wire returns the verb of an Operation as it appears on a request line.
func (o Operation) Wire() string {
	return strings.ToUpper(o.String())
}

// ParseOperation converts a (case-sensitive) verb into an Operation
func ParseOperation(verb string) (Operation, error) {
	switch verb {
	case "GET":
		return OpGet, nil
	case "HEAD":
		return OpHead, nil
	case "DELETE":
		return OpDelete, nil
	case "POST":
		return OpPost, nil
	default:
		return OpUnknown, fmt.Errorf("%w: %q", ErrInvalidOperation, verb)
	}
}

// MarshalJSON implements the json.Marshaller interface for Operation.
// This allows Operation to be serialized as a string in JSON.
func (o Operation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Operation.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	op, err := ParseOperation(strings.ToUpper(s))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
