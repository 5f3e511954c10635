package permissions

import (
	"encoding/json"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

// Contract 应用目录和授权协议账本
type Contract struct {
	auth sigauth.Authorizer

	contractCtx *Context
}

func NewContract(auth sigauth.Authorizer, ctx *Context) *Contract {
	return &Contract{
		auth:        auth,
		contractCtx: ctx,
	}
}

func (c *Contract) SetApp(ctx contract.KContext) (*contract.Response, error) {
	provider, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return nil, err
	}
	app, err := parseApp(ctx.Args())
	if err != nil {
		return nil, err
	}
	return c.setApp(ctx, provider, app)
}

// SetAppRaw provider由参数给出，必须与签名者一致
func (c *Contract) SetAppRaw(ctx contract.KContext) (*contract.Response, error) {
	provider, err := common.ArgIdentity(ctx.Args(), common.ArgProvider)
	if err != nil {
		return nil, err
	}
	app, err := parseApp(ctx.Args())
	if err != nil {
		return nil, err
	}
	if common.IsAbsent(provider) {
		return nil, common.InvalidArgf("provider can not be absent")
	}
	digest, err := sigauth.SetAppDigest(provider, app.Name, app.URL, app.Permissions)
	if err != nil {
		return nil, err
	}
	if err := sigauth.CheckSigner(c.auth, ctx.Args(), digest, provider); err != nil {
		return nil, err
	}
	return c.setApp(ctx, provider, app)
}

func (c *Contract) setApp(ctx contract.KContext, provider ethcommon.Address, app *AppRecord) (*contract.Response, error) {
	if err := putJSON(ctx, keyOf(prefixApp, provider), app); err != nil {
		return nil, err
	}
	if err := appendOnce(ctx, keyOf(prefixProviderFlag, provider), []byte(keyProviders), provider); err != nil {
		return nil, err
	}

	event, err := common.NewEvent(ContractName, common.EventAppUpdated, &common.AppUpdated{
		Name:        app.Name,
		URL:         app.URL,
		Permissions: app.Permissions,
		Provider:    provider,
	})
	if err != nil {
		return nil, err
	}
	ctx.AddEvent(event)
	c.contractCtx.XLog.Info("app updated", "provider", provider.Hex(), "name", app.Name,
		"permissions", len(app.Permissions))
	return success(nil)
}

// QueryApp 未发布时返回全空的记录
func (c *Contract) QueryApp(ctx contract.KContext) (*contract.Response, error) {
	provider, err := common.ArgIdentity(ctx.Args(), common.ArgProvider)
	if err != nil {
		return nil, err
	}
	app, err := c.getApp(ctx, provider)
	if err != nil {
		return nil, err
	}
	if app == nil {
		app = &AppRecord{Permissions: []uint64{}}
	}
	body, err := json.Marshal(app)
	if err != nil {
		return nil, err
	}
	return success(body)
}

func (c *Contract) QueryProviders(ctx contract.KContext) (*contract.Response, error) {
	return queryAddresses(ctx, []byte(keyProviders))
}

func (c *Contract) QueryProviderAt(ctx contract.KContext) (*contract.Response, error) {
	index, err := common.ArgUint64(ctx.Args(), common.ArgIndex)
	if err != nil {
		return nil, err
	}
	providers, err := getAddresses(ctx, []byte(keyProviders))
	if err != nil {
		return nil, err
	}
	if index >= uint64(len(providers)) {
		return nil, common.InvalidArgf("provider index %d out of range [0, %d)", index, len(providers))
	}
	return success([]byte(providers[index].Hex()))
}

func (c *Contract) getApp(state contract.XMReader, provider ethcommon.Address) (*AppRecord, error) {
	app := new(AppRecord)
	ok, err := getJSON(state, keyOf(prefixApp, provider), app)
	if err != nil || !ok {
		return nil, err
	}
	return app, nil
}

func parseApp(args map[string][]byte) (*AppRecord, error) {
	name, err := common.ArgString(args, common.ArgName)
	if err != nil {
		return nil, err
	}
	url, err := common.ArgString(args, common.ArgURL)
	if err != nil {
		return nil, err
	}
	perms, err := common.ArgUint64s(args, common.ArgPermissions)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, common.InvalidArgf("permissions can not be empty")
	}
	return &AppRecord{Name: name, URL: url, Permissions: perms}, nil
}

func queryAddresses(state contract.XMReader, key []byte) (*contract.Response, error) {
	addrs, err := getAddresses(state, key)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(addrs)
	if err != nil {
		return nil, err
	}
	return success(body)
}

func success(body []byte) (*contract.Response, error) {
	return &contract.Response{
		Status: common.StatusSuccess,
		Body:   body,
	}, nil
}
