package mock

import (
	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/sandbox"
)

// FakeKContext 用于在没有引擎的情况下单测原生合约，状态保存在内存中
type FakeKContext struct {
	*sandbox.MemXModel

	args      map[string][]byte
	initiator string
	events    []*contract.Event
}

var _ contract.KContext = (*FakeKContext)(nil)

func NewFakeKContext(initiator string, args map[string][]byte) *FakeKContext {
	return &FakeKContext{
		MemXModel: sandbox.NewMemXModel(),
		args:      args,
		initiator: initiator,
	}
}

// With 切换调用者和参数，状态和事件保留
func (c *FakeKContext) With(initiator string, args map[string][]byte) *FakeKContext {
	c.initiator = initiator
	c.args = args
	return c
}

func (c *FakeKContext) Args() map[string][]byte {
	return c.args
}

func (c *FakeKContext) Initiator() string {
	return c.initiator
}

func (c *FakeKContext) RWSet() *contract.RWSet {
	return &contract.RWSet{WSet: c.WriteSet()}
}

func (c *FakeKContext) AddEvent(events ...*contract.Event) {
	c.events = append(c.events, events...)
}

// Events return all events emitted so far
func (c *FakeKContext) Events() []*contract.Event {
	return c.events
}

// ResetEvents drop the recorded events
func (c *FakeKContext) ResetEvents() {
	c.events = nil
}
