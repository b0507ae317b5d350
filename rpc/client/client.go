package client

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ValentinKolb/ephemeral/rpc/common"
	"github.com/ValentinKolb/ephemeral/rpc/serializer"
	"github.com/ValentinKolb/ephemeral/rpc/transport"
)

// Reply is a decoded server reply
type Reply = common.Reply

// NewRPCClient creates a new path client
// The function takes a config, a transport and a serializer as parameters.
// The serializer must match the reply format of the server.
// It returns an IPathClient and an error
func NewRPCClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IPathClient, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	return &rpcPathClient{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

type rpcPathClient struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see client/interface.go)
// --------------------------------------------------------------------------

func (c *rpcPathClient) Get(path string) ([]byte, bool, error) {
	reply, err := c.invokePath(common.OpGet, path)
	if err != nil {
		return nil, false, err
	}
	if reply.Status == common.StatusNotFound {
		return nil, false, nil
	}
	return reply.Value, true, nil
}

func (c *rpcPathClient) Post(path string) error {
	_, err := c.invokePath(common.OpPost, path)
	return err
}

func (c *rpcPathClient) Delete(path string) error {
	_, err := c.invokePath(common.OpDelete, path)
	return err
}

func (c *rpcPathClient) Head(path string) (bool, error) {
	reply, err := c.invokePath(common.OpHead, path)
	if err != nil {
		return false, err
	}
	return reply.Status == common.StatusOK, nil
}

func (c *rpcPathClient) Raw(line string) (*Reply, error) {
	return c.invoke([]byte(line))
}

func (c *rpcPathClient) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// invokePath sends op for a path and converts negative replies other than
// NOT_FOUND into errors
func (c *rpcPathClient) invokePath(op common.Operation, path string) (*Reply, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	reply, err := c.invoke([]byte(fmt.Sprintf("%s %s %s", op.Wire(), path, DefaultProtocol)))
	if err != nil {
		return nil, err
	}

	switch reply.Status {
	case common.StatusOK, common.StatusNotFound:
		return reply, nil
	case common.StatusInvalid:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, reply.Err)
	case common.StatusUnsupported:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, op.Wire())
	case common.StatusError:
		return nil, fmt.Errorf("%w: %s", ErrServer, reply.Err)
	default:
		return nil, fmt.Errorf("unexpected reply status: %s", reply.Status)
	}
}

// validatePath rejects paths the server would split into several tokens
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.IndexFunc(path, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidPath, path)
	}
	return nil
}
