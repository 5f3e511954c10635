package permissions

import (
	"errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

type Manager struct {
	Ctx      *Context
	Contract *Contract
}

func NewManager(ctx *Context, register contract.KernRegistry, auth sigauth.Authorizer) (*Manager, error) {
	if ctx == nil || register == nil || auth == nil {
		return nil, errors.New("permissions contract ctx set error")
	}

	c := NewContract(auth, ctx)
	kMethods := map[string]contract.KernMethod{
		SetApp:             c.SetApp,
		SetAppRaw:          c.SetAppRaw,
		CreateAgreement:    c.CreateAgreement,
		CreateAgreementRaw: c.CreateAgreementRaw,
		GetApp:             c.QueryApp,
		GetProviders:       c.QueryProviders,
		ProviderAt:         c.QueryProviderAt,
		GetUserAgreements:  c.QueryUserAgreements,
		GetProviderUsers:   c.QueryProviderUsers,
		GetUsers:           c.QueryUsers,
	}
	for method, f := range kMethods {
		if _, err := register.GetKernMethod(ContractName, method); err != nil {
			register.RegisterKernMethod(ContractName, method, f)
		}
	}

	return &Manager{Ctx: ctx, Contract: c}, nil
}
