package common

import (
	"errors"
	"fmt"
	"strings"
)

// Protocols accepted as the third token of a request line
var Protocols = []string{"HTTP/1.1", "HTTP/2"}

var (
	ErrEmptyRequest     = errors.New("empty request")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidProtocol  = errors.New("invalid protocol")
	ErrTooManyArguments = errors.New("ill-formed query: too many arguments")
	ErrMissingArguments = errors.New("ill-formed query: missing arguments")
)

// DecodeAction decodes a request line of the form "VERB /path PROTOCOL".
// Tokens are separated by any run of whitespace, a trailing line break is ignored.
//
// If the line has a third token that is not a known protocol the result is
// ErrInvalidProtocol, even if the line has too many tokens or an unknown verb.
// After that arity is checked (ErrTooManyArguments, ErrMissingArguments) and
// finally the verb (ErrInvalidOperation). All errors wrap one of the exported
// sentinels and can be matched with errors.Is.
func DecodeAction(line string) (Action, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Action{}, ErrEmptyRequest
	}

	if len(tokens) >= 3 && !isProtocol(tokens[2]) {
		return Action{}, fmt.Errorf("%w: %q", ErrInvalidProtocol, tokens[2])
	}
	if len(tokens) > 3 {
		return Action{}, ErrTooManyArguments
	}
	if len(tokens) < 3 {
		return Action{}, ErrMissingArguments
	}

	op, err := ParseOperation(tokens[0])
	if err != nil {
		return Action{}, err
	}

	return Action{
		Op:       op,
		Path:     SplitPath(tokens[1]),
		Protocol: tokens[2],
	}, nil
}

func isProtocol(token string) bool {
	for _, p := range Protocols {
		if token == p {
			return true
		}
	}
	return false
}
