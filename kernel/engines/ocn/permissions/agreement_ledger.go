package permissions

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

func (c *Contract) CreateAgreement(ctx contract.KContext) (*contract.Response, error) {
	user, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return nil, err
	}
	provider, err := common.ArgIdentity(ctx.Args(), common.ArgProvider)
	if err != nil {
		return nil, err
	}
	return c.createAgreement(ctx, user, provider)
}

// CreateAgreementRaw user由参数给出，必须与签名者一致
func (c *Contract) CreateAgreementRaw(ctx contract.KContext) (*contract.Response, error) {
	user, err := common.ArgIdentity(ctx.Args(), common.ArgUser)
	if err != nil {
		return nil, err
	}
	provider, err := common.ArgIdentity(ctx.Args(), common.ArgProvider)
	if err != nil {
		return nil, err
	}
	if common.IsAbsent(user) {
		return nil, common.InvalidArgf("user can not be absent")
	}
	digest, err := sigauth.CreateAgreementDigest(user, provider)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, user); err != nil {
		return nil, err
	}
	return c.createAgreement(ctx, user, provider)
}

// createAgreement 同一对(user, provider)只记录一次，重复调用成功但不产生事件
func (c *Contract) createAgreement(ctx contract.KContext, user, provider ethcommon.Address) (*contract.Response, error) {
	app, err := c.getApp(ctx, provider)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errors.Wrapf(common.ErrPartyNotFound, "provider %s has no app", provider.Hex())
	}

	flagKey := keyOf(prefixAgreementFlag, user, provider)
	exist, err := hasFlag(ctx, flagKey)
	if err != nil {
		return nil, err
	}
	if exist {
		return success(nil)
	}

	if err := appendAddress(ctx, keyOf(prefixAgreements, user), provider); err != nil {
		return nil, err
	}
	if err := setFlag(ctx, flagKey); err != nil {
		return nil, err
	}
	if err := appendAddress(ctx, keyOf(prefixProviderUsers, provider), user); err != nil {
		return nil, err
	}
	if err := appendOnce(ctx, keyOf(prefixUserFlag, user), []byte(keyUsers), user); err != nil {
		return nil, err
	}

	event, err := common.NewEvent(ContractName, common.EventAgreementFormed, &common.AgreementFormed{
		User:     user,
		Provider: provider,
	})
	if err != nil {
		return nil, err
	}
	ctx.AddEvent(event)
	c.contractCtx.XLog.Info("agreement formed", "user", user.Hex(), "provider", provider.Hex())
	return success(nil)
}

func (c *Contract) QueryUserAgreements(ctx contract.KContext) (*contract.Response, error) {
	user, err := common.ArgIdentity(ctx.Args(), common.ArgUser)
	if err != nil {
		return nil, err
	}
	return queryAddresses(ctx, keyOf(prefixAgreements, user))
}

func (c *Contract) QueryProviderUsers(ctx contract.KContext) (*contract.Response, error) {
	provider, err := common.ArgIdentity(ctx.Args(), common.ArgProvider)
	if err != nil {
		return nil, err
	}
	return queryAddresses(ctx, keyOf(prefixProviderUsers, provider))
}

func (c *Contract) QueryUsers(ctx contract.KContext) (*contract.Response, error) {
	return queryAddresses(ctx, []byte(keyUsers))
}
