package registry

import (
	"encoding/json"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/sandbox"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

// OwnerChecker 判断账户是否为全局owner，adminOverwrite依赖它
type OwnerChecker interface {
	IsOwner(state contract.XMReader, candidate ethcommon.Address) (bool, error)
}

// Contract 参与方登记表，(countryCode, partyId) -> PartyRecord
type Contract struct {
	auth  sigauth.Authorizer
	admin OwnerChecker

	contractCtx *Context
}

func NewContract(auth sigauth.Authorizer, admin OwnerChecker, ctx *Context) *Contract {
	return &Contract{
		auth:        auth,
		admin:       admin,
		contractCtx: ctx,
	}
}

func (c *Contract) Register(ctx contract.KContext) (*contract.Response, error) {
	subject, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return nil, err
	}
	key, url, err := parseKeyAndURL(ctx.Args())
	if err != nil {
		return nil, err
	}
	return c.register(ctx, subject, key, url)
}

func (c *Contract) UpdateInfo(ctx contract.KContext) (*contract.Response, error) {
	subject, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return nil, err
	}
	key, url, err := parseKeyAndURL(ctx.Args())
	if err != nil {
		return nil, err
	}
	return c.updateInfo(ctx, subject, key, url)
}

func (c *Contract) OverwriteInfo(ctx contract.KContext) (*contract.Response, error) {
	subject, err := common.ParseSubject(ctx.Initiator())
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
	return c.overwriteInfo(ctx, subject, key, newOwner, url)
}

func (c *Contract) SetNodeAddress(ctx contract.KContext) (*contract.Response, error) {
	subject, err := common.ParseSubject(ctx.Initiator())
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
	return c.setNodeAddress(ctx, subject, key, nodeAddress)
}

func (c *Contract) Deregister(ctx contract.KContext) (*contract.Response, error) {
	subject, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return nil, err
	}
	key, err := common.ArgPartyKey(ctx.Args())
	if err != nil {
		return nil, err
	}
	return c.deregister(ctx, subject, key)
}

// AdminOverwrite owner无条件覆盖一条登记，用于争议处理和恢复
func (c *Contract) AdminOverwrite(ctx contract.KContext) (*contract.Response, error) {
	caller, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return nil, err
	}
	ok, err := c.admin.IsOwner(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(common.ErrUnauthorized, "%s is not the owner", caller.Hex())
	}

	key, url, err := parseKeyAndURL(ctx.Args())
	if err != nil {
		return nil, err
	}
	newOwner, err := common.ArgIdentity(ctx.Args(), common.ArgNewOwner)
	if err != nil {
		return nil, err
	}
	if common.IsAbsent(newOwner) {
		return nil, common.InvalidArgf("new owner can not be absent")
	}
	nodeAddress, err := common.ArgOptionalIdentity(ctx.Args(), common.ArgNodeAddress)
	if err != nil {
		return nil, err
	}

	record := &PartyRecord{Owner: newOwner, URL: url, NodeAddress: nodeAddress}
	if err := c.saveRecord(ctx, key, record); err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Warn("party overwritten by admin", "party", key.String(),
		"admin", caller.Hex(), "owner", newOwner.Hex())
	return success(nil)
}

// register 先到先得，已有非零owner的登记不能被再次注册
func (c *Contract) register(ctx contract.KContext, subject ethcommon.Address, key common.PartyKey, url string) (*contract.Response, error) {
	record, err := c.getRecord(ctx, key)
	if err != nil {
		return nil, err
	}
	if record != nil && !common.IsAbsent(record.Owner) {
		return nil, errors.Wrapf(common.ErrAlreadyRegistered, "party %s", key.String())
	}

	record = &PartyRecord{Owner: subject, URL: url}
	if err := c.saveRecord(ctx, key, record); err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("party registered", "party", key.String(), "owner", subject.Hex())
	return success(nil)
}

// updateInfo 只修改url
func (c *Contract) updateInfo(ctx contract.KContext, subject ethcommon.Address, key common.PartyKey, url string) (*contract.Response, error) {
	record, err := c.ownedRecord(ctx, subject, key)
	if err != nil {
		return nil, err
	}

	record.URL = url
	if err := c.saveRecord(ctx, key, record); err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("party url updated", "party", key.String(), "owner", subject.Hex())
	return success(nil)
}

// overwriteInfo 同时替换owner和url，节点地址保留
func (c *Contract) overwriteInfo(ctx contract.KContext, subject ethcommon.Address, key common.PartyKey,
	newOwner ethcommon.Address, url string) (*contract.Response, error) {
	if common.IsAbsent(newOwner) {
		return nil, common.InvalidArgf("new owner can not be absent")
	}
	record, err := c.ownedRecord(ctx, subject, key)
	if err != nil {
		return nil, err
	}

	record.Owner = newOwner
	record.URL = url
	if err := c.saveRecord(ctx, key, record); err != nil {
		return nil, err
	}
	c.contractCtx.XLog.Info("party overwritten", "party", key.String(),
		"previous", subject.Hex(), "owner", newOwner.Hex())
	return success(nil)
}

// setNodeAddress 零地址表示清除
func (c *Contract) setNodeAddress(ctx contract.KContext, subject ethcommon.Address, key common.PartyKey,
	nodeAddress ethcommon.Address) (*contract.Response, error) {
	record, err := c.ownedRecord(ctx, subject, key)
	if err != nil {
		return nil, err
	}

	record.NodeAddress = nodeAddress
	if err := c.saveRecord(ctx, key, record); err != nil {
		return nil, err
	}
	return success(nil)
}

// deregister 删除登记，key可以被重新注册
func (c *Contract) deregister(ctx contract.KContext, subject ethcommon.Address, key common.PartyKey) (*contract.Response, error) {
	if _, err := c.ownedRecord(ctx, subject, key); err != nil {
		return nil, err
	}

	if err := ctx.Del(ContractName, keyOfParty(key)); err != nil {
		return nil, errors.Wrap(err, "delete party failed")
	}
	event, err := common.NewEvent(ContractName, common.EventRecordRemoved, &common.RecordRemoved{
		CountryCode:   string(key.CountryCode[:]),
		PartyID:       string(key.PartyID[:]),
		PreviousOwner: subject,
	})
	if err != nil {
		return nil, err
	}
	ctx.AddEvent(event)
	c.contractCtx.XLog.Info("party deregistered", "party", key.String(), "owner", subject.Hex())
	return success(nil)
}

// ownedRecord 返回subject名下的登记
func (c *Contract) ownedRecord(state contract.XMReader, subject ethcommon.Address, key common.PartyKey) (*PartyRecord, error) {
	record, err := c.getRecord(state, key)
	if err != nil {
		return nil, err
	}
	if record == nil || common.IsAbsent(record.Owner) {
		return nil, errors.Wrapf(common.ErrPartyNotFound, "party %s", key.String())
	}
	if record.Owner != subject {
		return nil, errors.Wrapf(common.ErrUnauthorized, "%s does not own party %s", subject.Hex(), key.String())
	}
	return record, nil
}

// getRecord 未登记时返回nil
func (c *Contract) getRecord(state contract.XMReader, key common.PartyKey) (*PartyRecord, error) {
	value, err := state.Get(ContractName, keyOfParty(key))
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return nil, errors.Wrap(err, "get party failed")
	}
	if len(value) == 0 {
		return nil, nil
	}
	record := new(PartyRecord)
	if err := json.Unmarshal(value, record); err != nil {
		return nil, errors.Wrap(err, "unmarshal party failed")
	}
	return record, nil
}

// saveRecord 写入登记并发出RecordChanged事件
func (c *Contract) saveRecord(ctx contract.KContext, key common.PartyKey, record *PartyRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := ctx.Put(ContractName, keyOfParty(key), value); err != nil {
		return errors.Wrap(err, "save party failed")
	}

	event, err := common.NewEvent(ContractName, common.EventRecordChanged, &common.RecordChanged{
		CountryCode: string(key.CountryCode[:]),
		PartyID:     string(key.PartyID[:]),
		Owner:       record.Owner,
		URL:         record.URL,
		NodeAddress: record.NodeAddress,
	})
	if err != nil {
		return err
	}
	ctx.AddEvent(event)
	return nil
}

func parseKeyAndURL(args map[string][]byte) (common.PartyKey, string, error) {
	key, err := common.ArgPartyKey(args)
	if err != nil {
		return key, "", err
	}
	url, err := common.ArgString(args, common.ArgURL)
	if err != nil {
		return key, "", err
	}
	return key, url, nil
}

func success(body []byte) (*contract.Response, error) {
	return &contract.Response{
		Status: common.StatusSuccess,
		Body:   body,
	}, nil
}
