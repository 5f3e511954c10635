package registry

import (
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

// *Raw方法由中继方提交，调用者身份被忽略
// 操作主体由owner参数给出，签名者必须是它，否则返回ErrUnauthorized

func (c *Contract) RegisterRaw(ctx contract.KContext) (*contract.Response, error) {
	subject, err := argSubject(ctx.Args())
	if err != nil {
		return nil, err
	}
	key, url, err := parseKeyAndURL(ctx.Args())
	if err != nil {
		return nil, err
	}
	digest, err := sigauth.RegisterDigest(key, url)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, subject); err != nil {
		return nil, err
	}
	return c.register(ctx, subject, key, url)
}

func (c *Contract) UpdateInfoRaw(ctx contract.KContext) (*contract.Response, error) {
	subject, err := argSubject(ctx.Args())
	if err != nil {
		return nil, err
	}
	key, url, err := parseKeyAndURL(ctx.Args())
	if err != nil {
		return nil, err
	}
	digest, err := sigauth.UpdateInfoDigest(key, url)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, subject); err != nil {
		return nil, err
	}
	return c.updateInfo(ctx, subject, key, url)
}

func (c *Contract) OverwriteInfoRaw(ctx contract.KContext) (*contract.Response, error) {
	subject, err := argSubject(ctx.Args())
	if err != nil {
		return nil, err
	}
	key, url, err := parseKeyAndURL(ctx.Args())
	if err != nil {
		return nil, err
	}
	newOwner, err := common.ArgIdentity(ctx.Args(), common.ArgNewOwner)
	if err != nil {
		return nil, err
	}
	digest, err := sigauth.OverwriteInfoDigest(key, newOwner, url)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, subject); err != nil {
		return nil, err
	}
	return c.overwriteInfo(ctx, subject, key, newOwner, url)
}

func (c *Contract) SetNodeAddressRaw(ctx contract.KContext) (*contract.Response, error) {
	subject, err := argSubject(ctx.Args())
	if err != nil {
		return nil, err
	}
	key, err := common.ArgPartyKey(ctx.Args())
	if err != nil {
		return nil, err
	}
	nodeAddress, err := common.ArgIdentity(ctx.Args(), common.ArgNodeAddress)
	if err != nil {
		return nil, err
	}
	digest, err := sigauth.SetNodeAddressDigest(key, nodeAddress)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, subject); err != nil {
		return nil, err
	}
	return c.setNodeAddress(ctx, subject, key, nodeAddress)
}

func (c *Contract) DeregisterRaw(ctx contract.KContext) (*contract.Response, error) {
	subject, err := argSubject(ctx.Args())
	if err != nil {
		return nil, err
	}
	key, err := common.ArgPartyKey(ctx.Args())
	if err != nil {
		return nil, err
	}
	digest, err := sigauth.DeregisterDigest(key)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, subject); err != nil {
		return nil, err
	}
	return c.deregister(ctx, subject, key)
}

// argSubject 零地址不能作为操作主体
func argSubject(args map[string][]byte) (ethcommon.Address, error) {
	subject, err := common.ArgIdentity(args, common.ArgOwner)
	if err != nil {
		return common.AbsentIdentity, err
	}
	if common.IsAbsent(subject) {
		return common.AbsentIdentity, common.InvalidArgf("owner can not be absent")
	}
	return subject, nil
}
