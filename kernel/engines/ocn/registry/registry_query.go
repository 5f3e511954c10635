package registry

import (
	"encoding/json"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
)

// 查询方法对未登记的key返回零值而不是错误

func (c *Contract) QueryOwnerOf(ctx contract.KContext) (*contract.Response, error) {
	record, err := c.queryRecord(ctx)
	if err != nil {
		return nil, err
	}
	return success([]byte(record.Owner.Hex()))
}

func (c *Contract) QueryURLOf(ctx contract.KContext) (*contract.Response, error) {
	record, err := c.queryRecord(ctx)
	if err != nil {
		return nil, err
	}
	return success([]byte(record.URL))
}

func (c *Contract) QueryNodeAddressOf(ctx contract.KContext) (*contract.Response, error) {
	record, err := c.queryRecord(ctx)
	if err != nil {
		return nil, err
	}
	return success([]byte(record.NodeAddress.Hex()))
}

func (c *Contract) QueryParty(ctx contract.KContext) (*contract.Response, error) {
	record, err := c.queryRecord(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return success(body)
}

func (c *Contract) queryRecord(ctx contract.KContext) (*PartyRecord, error) {
	key, err := common.ArgPartyKey(ctx.Args())
	if err != nil {
		return nil, err
	}
	record, err := c.getRecord(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &PartyRecord{}
	}
	return record, nil
}
