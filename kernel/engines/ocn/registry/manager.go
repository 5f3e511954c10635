package registry

import (
	"errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

type Manager struct {
	Ctx      *Context
	Contract *Contract
}

func NewManager(ctx *Context, register contract.KernRegistry, admin OwnerChecker, auth sigauth.Authorizer) (*Manager, error) {
	if ctx == nil || register == nil || admin == nil || auth == nil {
		return nil, errors.New("registry contract ctx set error")
	}

	c := NewContract(auth, admin, ctx)
	kMethods := map[string]contract.KernMethod{
		Register:          c.Register,
		RegisterRaw:       c.RegisterRaw,
		UpdateInfo:        c.UpdateInfo,
		UpdateInfoRaw:     c.UpdateInfoRaw,
		OverwriteInfo:     c.OverwriteInfo,
		OverwriteInfoRaw:  c.OverwriteInfoRaw,
		SetNodeAddress:    c.SetNodeAddress,
		SetNodeAddressRaw: c.SetNodeAddressRaw,
		Deregister:        c.Deregister,
		DeregisterRaw:     c.DeregisterRaw,
		AdminOverwrite:    c.AdminOverwrite,
		OwnerOf:           c.QueryOwnerOf,
		URLOf:             c.QueryURLOf,
		NodeAddressOf:     c.QueryNodeAddressOf,
		GetParty:          c.QueryParty,
	}
	for method, f := range kMethods {
		if _, err := register.GetKernMethod(ContractName, method); err != nil {
			register.RegisterKernMethod(ContractName, method, f)
		}
	}

	return &Manager{Ctx: ctx, Contract: c}, nil
}
