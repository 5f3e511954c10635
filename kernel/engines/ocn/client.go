package ocn

import (
	"context"
	"encoding/json"
	"strconv"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/ownership"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/permissions"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/registry"
)

// Client 把类型化参数编码为合约参数后调用引擎
// 写方法的from是调用者账户，*Raw方法的relayer只是提交者，操作主体由参数给出且必须是签名者
type Client struct {
	engine *Engine
}

func NewClient(engine *Engine) *Client {
	return &Client{engine: engine}
}

func (c *Client) invoke(ctx context.Context, from ethcommon.Address, contractName, method string, args common.Args) error {
	_, err := c.engine.Invoke(ctx, from.Hex(), contractName, method, args)
	return err
}

func (c *Client) query(ctx context.Context, contractName, method string, args common.Args) ([]byte, error) {
	resp, err := c.engine.Query(ctx, contractName, method, args)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) queryIdentity(ctx context.Context, contractName, method string, args common.Args) (ethcommon.Address, error) {
	body, err := c.query(ctx, contractName, method, args)
	if err != nil {
		return common.AbsentIdentity, err
	}
	return common.ParseIdentity(string(body))
}

func (c *Client) queryIdentities(ctx context.Context, contractName, method string, args common.Args) ([]ethcommon.Address, error) {
	body, err := c.query(ctx, contractName, method, args)
	if err != nil {
		return nil, err
	}
	ids := []ethcommon.Address{}
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func partyArgs(key common.PartyKey) common.Args {
	return common.NewArgs().WithPartyKey(key)
}

func rawPartyArgs(key common.PartyKey, owner ethcommon.Address, sig common.Signature) common.Args {
	return partyArgs(key).WithIdentity(common.ArgOwner, owner).WithSignature(sig)
}

// ownership

func (c *Client) Owner(ctx context.Context) (ethcommon.Address, error) {
	return c.queryIdentity(ctx, ownership.ContractName, ownership.Owner, common.NewArgs())
}

func (c *Client) IsOwner(ctx context.Context, candidate ethcommon.Address) (bool, error) {
	body, err := c.query(ctx, ownership.ContractName, ownership.IsOwner,
		common.NewArgs().WithIdentity(common.ArgCandidate, candidate))
	if err != nil {
		return false, err
	}
	return strconv.ParseBool(string(body))
}

func (c *Client) TransferOwnership(ctx context.Context, from, newOwner ethcommon.Address) error {
	return c.invoke(ctx, from, ownership.ContractName, ownership.TransferOwnership,
		common.NewArgs().WithIdentity(common.ArgNewOwner, newOwner))
}

func (c *Client) RenounceOwnership(ctx context.Context, from ethcommon.Address) error {
	return c.invoke(ctx, from, ownership.ContractName, ownership.RenounceOwnership, common.NewArgs())
}

// registry

func (c *Client) Register(ctx context.Context, from ethcommon.Address, key common.PartyKey, url string) error {
	return c.invoke(ctx, from, registry.ContractName, registry.Register,
		partyArgs(key).WithString(common.ArgURL, url))
}

func (c *Client) RegisterRaw(ctx context.Context, relayer, owner ethcommon.Address, key common.PartyKey, url string,
	sig common.Signature) error {
	return c.invoke(ctx, relayer, registry.ContractName, registry.RegisterRaw,
		rawPartyArgs(key, owner, sig).WithString(common.ArgURL, url))
}

func (c *Client) UpdateInfo(ctx context.Context, from ethcommon.Address, key common.PartyKey, url string) error {
	return c.invoke(ctx, from, registry.ContractName, registry.UpdateInfo,
		partyArgs(key).WithString(common.ArgURL, url))
}

func (c *Client) UpdateInfoRaw(ctx context.Context, relayer, owner ethcommon.Address, key common.PartyKey, url string,
	sig common.Signature) error {
	return c.invoke(ctx, relayer, registry.ContractName, registry.UpdateInfoRaw,
		rawPartyArgs(key, owner, sig).WithString(common.ArgURL, url))
}

func (c *Client) OverwriteInfo(ctx context.Context, from ethcommon.Address, key common.PartyKey,
	newOwner ethcommon.Address, url string) error {
	return c.invoke(ctx, from, registry.ContractName, registry.OverwriteInfo,
		partyArgs(key).WithIdentity(common.ArgNewOwner, newOwner).WithString(common.ArgURL, url))
}

func (c *Client) OverwriteInfoRaw(ctx context.Context, relayer, owner ethcommon.Address, key common.PartyKey,
	newOwner ethcommon.Address, url string, sig common.Signature) error {
	return c.invoke(ctx, relayer, registry.ContractName, registry.OverwriteInfoRaw,
		rawPartyArgs(key, owner, sig).WithIdentity(common.ArgNewOwner, newOwner).WithString(common.ArgURL, url))
}

func (c *Client) SetNodeAddress(ctx context.Context, from ethcommon.Address, key common.PartyKey,
	nodeAddress ethcommon.Address) error {
	return c.invoke(ctx, from, registry.ContractName, registry.SetNodeAddress,
		partyArgs(key).WithIdentity(common.ArgNodeAddress, nodeAddress))
}

func (c *Client) SetNodeAddressRaw(ctx context.Context, relayer, owner ethcommon.Address, key common.PartyKey,
	nodeAddress ethcommon.Address, sig common.Signature) error {
	return c.invoke(ctx, relayer, registry.ContractName, registry.SetNodeAddressRaw,
		rawPartyArgs(key, owner, sig).WithIdentity(common.ArgNodeAddress, nodeAddress))
}

func (c *Client) Deregister(ctx context.Context, from ethcommon.Address, key common.PartyKey) error {
	return c.invoke(ctx, from, registry.ContractName, registry.Deregister, partyArgs(key))
}

func (c *Client) DeregisterRaw(ctx context.Context, relayer, owner ethcommon.Address, key common.PartyKey,
	sig common.Signature) error {
	return c.invoke(ctx, relayer, registry.ContractName, registry.DeregisterRaw, rawPartyArgs(key, owner, sig))
}

// AdminOverwrite nodeAddress为零地址时清空节点地址
func (c *Client) AdminOverwrite(ctx context.Context, from ethcommon.Address, key common.PartyKey,
	newOwner ethcommon.Address, url string, nodeAddress ethcommon.Address) error {
	args := partyArgs(key).WithIdentity(common.ArgNewOwner, newOwner).WithString(common.ArgURL, url)
	if !common.IsAbsent(nodeAddress) {
		args = args.WithIdentity(common.ArgNodeAddress, nodeAddress)
	}
	return c.invoke(ctx, from, registry.ContractName, registry.AdminOverwrite, args)
}

func (c *Client) OwnerOf(ctx context.Context, key common.PartyKey) (ethcommon.Address, error) {
	return c.queryIdentity(ctx, registry.ContractName, registry.OwnerOf, partyArgs(key))
}

func (c *Client) URLOf(ctx context.Context, key common.PartyKey) (string, error) {
	body, err := c.query(ctx, registry.ContractName, registry.URLOf, partyArgs(key))
	return string(body), err
}

func (c *Client) NodeAddressOf(ctx context.Context, key common.PartyKey) (ethcommon.Address, error) {
	return c.queryIdentity(ctx, registry.ContractName, registry.NodeAddressOf, partyArgs(key))
}

func (c *Client) GetParty(ctx context.Context, key common.PartyKey) (*registry.PartyRecord, error) {
	body, err := c.query(ctx, registry.ContractName, registry.GetParty, partyArgs(key))
	if err != nil {
		return nil, err
	}
	record := new(registry.PartyRecord)
	if err := json.Unmarshal(body, record); err != nil {
		return nil, err
	}
	return record, nil
}

// permissions

func appArgs(name, url string, perms []uint64) common.Args {
	return common.NewArgs().WithString(common.ArgName, name).WithString(common.ArgURL, url).
		WithUint64s(common.ArgPermissions, perms)
}

func (c *Client) SetApp(ctx context.Context, from ethcommon.Address, name, url string, perms []uint64) error {
	return c.invoke(ctx, from, permissions.ContractName, permissions.SetApp, appArgs(name, url, perms))
}

func (c *Client) SetAppRaw(ctx context.Context, relayer, provider ethcommon.Address, name, url string,
	perms []uint64, sig common.Signature) error {
	args := appArgs(name, url, perms).WithIdentity(common.ArgProvider, provider).WithSignature(sig)
	return c.invoke(ctx, relayer, permissions.ContractName, permissions.SetAppRaw, args)
}

func (c *Client) CreateAgreement(ctx context.Context, from, provider ethcommon.Address) error {
	return c.invoke(ctx, from, permissions.ContractName, permissions.CreateAgreement,
		common.NewArgs().WithIdentity(common.ArgProvider, provider))
}

func (c *Client) CreateAgreementRaw(ctx context.Context, relayer, user, provider ethcommon.Address,
	sig common.Signature) error {
	args := common.NewArgs().WithIdentity(common.ArgUser, user).WithIdentity(common.ArgProvider, provider).
		WithSignature(sig)
	return c.invoke(ctx, relayer, permissions.ContractName, permissions.CreateAgreementRaw, args)
}

func (c *Client) GetApp(ctx context.Context, provider ethcommon.Address) (*permissions.AppRecord, error) {
	body, err := c.query(ctx, permissions.ContractName, permissions.GetApp,
		common.NewArgs().WithIdentity(common.ArgProvider, provider))
	if err != nil {
		return nil, err
	}
	app := new(permissions.AppRecord)
	if err := json.Unmarshal(body, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (c *Client) GetProviders(ctx context.Context) ([]ethcommon.Address, error) {
	return c.queryIdentities(ctx, permissions.ContractName, permissions.GetProviders, common.NewArgs())
}

func (c *Client) ProviderAt(ctx context.Context, index uint64) (ethcommon.Address, error) {
	return c.queryIdentity(ctx, permissions.ContractName, permissions.ProviderAt,
		common.NewArgs().WithUint64(common.ArgIndex, index))
}

func (c *Client) GetUserAgreements(ctx context.Context, user ethcommon.Address) ([]ethcommon.Address, error) {
	return c.queryIdentities(ctx, permissions.ContractName, permissions.GetUserAgreements,
		common.NewArgs().WithIdentity(common.ArgUser, user))
}

func (c *Client) GetProviderUsers(ctx context.Context, provider ethcommon.Address) ([]ethcommon.Address, error) {
	return c.queryIdentities(ctx, permissions.ContractName, permissions.GetProviderUsers,
		common.NewArgs().WithIdentity(common.ArgProvider, provider))
}

func (c *Client) GetUsers(ctx context.Context) ([]ethcommon.Address, error) {
	return c.queryIdentities(ctx, permissions.ContractName, permissions.GetUsers, common.NewArgs())
}
