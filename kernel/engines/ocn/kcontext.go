package ocn

import (
	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/sandbox"
)

// kcontextImpl 一次调用的上下文，修改先写入沙盒，事件先缓存，提交后才生效
type kcontextImpl struct {
	*sandbox.XMCache

	initiator string
	args      map[string][]byte
	events    []*contract.Event
}

var _ contract.KContext = (*kcontextImpl)(nil)

func newKContext(state contract.XMReader, initiator string, args map[string][]byte) *kcontextImpl {
	if args == nil {
		args = map[string][]byte{}
	}
	return &kcontextImpl{
		XMCache:   sandbox.NewXMCache(state),
		initiator: initiator,
		args:      args,
	}
}

func (k *kcontextImpl) Args() map[string][]byte {
	return k.args
}

func (k *kcontextImpl) Initiator() string {
	return k.initiator
}

func (k *kcontextImpl) AddEvent(events ...*contract.Event) {
	k.events = append(k.events, events...)
}
