package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/ephemeral/lib/store"
	"github.com/ValentinKolb/ephemeral/rpc/common"
)

// DefaultPostValue is the value stored by a POST request
var DefaultPostValue = []byte("true")

// NewIStoreServerAdapter creates an adapter that maps the request verbs onto
// store.IStore calls. A POST stores postValue (DefaultPostValue if nil).
func NewIStoreServerAdapter(postValue []byte) IRPCServerAdapter {
	if postValue == nil {
		postValue = DefaultPostValue
	}
	return &iStoreServerAdapterImpl{postValue: postValue}
}

type iStoreServerAdapterImpl struct {
	postValue []byte
}

func (adapter *iStoreServerAdapterImpl) Handle(action common.Action, store store.IStore) *common.Reply {
	// Check for nil store
	if store == nil {
		return common.NewErrorReply(errors.New("handler: store is nil"))
	}

	switch action.Op {
	case common.OpGet:
		// a missing path and a position without value are both NOT_FOUND
		val, found, err := store.Get(action.Path)
		if err != nil {
			return common.NewErrorReply(err)
		}
		if !found {
			return common.NewNotFoundReply()
		}
		return common.NewOKReply(val)
	case common.OpPost:
		if _, _, err := store.Insert(action.Path, adapter.postValue); err != nil {
			return common.NewErrorReply(err)
		}
		return common.NewOKReply(nil)
	case common.OpDelete:
		if err := store.Delete(action.Path); err != nil {
			return common.NewErrorReply(err)
		}
		return common.NewOKReply(nil)
	case common.OpHead:
		return common.NewUnsupportedReply()
	default:
		return common.NewErrorReply(fmt.Errorf("unsupported operation: %s", action.Op))
	}
}
