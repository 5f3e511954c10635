package ownership

import (
	"errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
)

type Manager struct {
	Ctx   *Context
	Guard *Guard
}

// NewManager 创建Guard并把方法注册到原生合约表
func NewManager(ctx *Context, register contract.KernRegistry) (*Manager, error) {
	if ctx == nil || register == nil {
		return nil, errors.New("ownership contract ctx set error")
	}

	g := NewGuard(ctx)
	kMethods := map[string]contract.KernMethod{
		Owner:             g.QueryOwner,
		IsOwner:           g.QueryIsOwner,
		TransferOwnership: g.TransferOwnership,
		RenounceOwnership: g.RenounceOwnership,
	}
	for method, f := range kMethods {
		if _, err := register.GetKernMethod(ContractName, method); err != nil {
			register.RegisterKernMethod(ContractName, method, f)
		}
	}

	return &Manager{Ctx: ctx, Guard: g}, nil
}
