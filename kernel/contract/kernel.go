package contract

// KernRegistry 管理原生合约方法
type KernRegistry interface {
	RegisterKernMethod(contract, method string, handler KernMethod)
	GetKernMethod(contract, method string) (KernMethod, error)
}

// KernMethod 原生合约方法，返回error时本次调用的状态修改和事件全部丢弃
type KernMethod func(ctx KContext) (*Response, error)

type KContext interface {
	// 交易相关数据
	Args() map[string][]byte
	Initiator() string

	// 状态修改接口
	StateSandbox

	// 事件在调用成功并提交状态之后才会发布
	AddEvent(events ...*Event)
}
