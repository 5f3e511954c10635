package ownership

import (
	"strconv"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/sandbox"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

// Guard 维护全局唯一的owner，owner可以转移或放弃，放弃后不可恢复
type Guard struct {
	contractCtx *Context
}

func NewGuard(ctx *Context) *Guard {
	return &Guard{contractCtx: ctx}
}

// Init 写入初始owner，已初始化过(包括已放弃所有权)时不做任何修改
func (g *Guard) Init(ctx contract.KContext, initialOwner ethcommon.Address) error {
	_, initialized, err := g.load(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}
	if common.IsAbsent(initialOwner) {
		return common.InvalidArgf("initial owner can not be absent")
	}

	if err := g.save(ctx, initialOwner); err != nil {
		return err
	}
	g.contractCtx.XLog.Info("ownership initialized", "owner", initialOwner.Hex())
	return g.emit(ctx, common.AbsentIdentity, initialOwner)
}

// CurrentOwner 返回当前owner，未初始化或已放弃时为零地址
func (g *Guard) CurrentOwner(state contract.XMReader) (ethcommon.Address, error) {
	owner, _, err := g.load(state)
	return owner, err
}

// IsOwner 零地址永远不是owner
func (g *Guard) IsOwner(state contract.XMReader, candidate ethcommon.Address) (bool, error) {
	if common.IsAbsent(candidate) {
		return false, nil
	}
	owner, err := g.CurrentOwner(state)
	if err != nil {
		return false, err
	}
	return owner == candidate, nil
}

func (g *Guard) QueryOwner(ctx contract.KContext) (*contract.Response, error) {
	owner, err := g.CurrentOwner(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Response{
		Status: common.StatusSuccess,
		Body:   []byte(owner.Hex()),
	}, nil
}

func (g *Guard) QueryIsOwner(ctx contract.KContext) (*contract.Response, error) {
	candidate, err := common.ArgIdentity(ctx.Args(), common.ArgCandidate)
	if err != nil {
		return nil, err
	}
	ok, err := g.IsOwner(ctx, candidate)
	if err != nil {
		return nil, err
	}
	return &contract.Response{
		Status: common.StatusSuccess,
		Body:   []byte(strconv.FormatBool(ok)),
	}, nil
}

func (g *Guard) TransferOwnership(ctx contract.KContext) (*contract.Response, error) {
	newOwner, err := common.ArgIdentity(ctx.Args(), common.ArgNewOwner)
	if err != nil {
		return nil, err
	}
	prev, err := g.checkCaller(ctx)
	if err != nil {
		return nil, err
	}
	if common.IsAbsent(newOwner) {
		return nil, common.InvalidArgf("new owner can not be absent")
	}

	if err := g.save(ctx, newOwner); err != nil {
		return nil, err
	}
	if err := g.emit(ctx, prev, newOwner); err != nil {
		return nil, err
	}
	g.contractCtx.XLog.Info("ownership transferred", "previous", prev.Hex(), "new", newOwner.Hex())
	return &contract.Response{Status: common.StatusSuccess}, nil
}

func (g *Guard) RenounceOwnership(ctx contract.KContext) (*contract.Response, error) {
	prev, err := g.checkCaller(ctx)
	if err != nil {
		return nil, err
	}

	if err := g.save(ctx, common.AbsentIdentity); err != nil {
		return nil, err
	}
	if err := g.emit(ctx, prev, common.AbsentIdentity); err != nil {
		return nil, err
	}
	g.contractCtx.XLog.Warn("ownership renounced", "previous", prev.Hex())
	return &contract.Response{Status: common.StatusSuccess}, nil
}

// checkCaller 调用者必须是当前owner，返回当前owner
func (g *Guard) checkCaller(ctx contract.KContext) (ethcommon.Address, error) {
	caller, err := common.ParseSubject(ctx.Initiator())
	if err != nil {
		return common.AbsentIdentity, err
	}
	owner, err := g.CurrentOwner(ctx)
	if err != nil {
		return common.AbsentIdentity, err
	}
	if common.IsAbsent(owner) || owner != caller {
		return common.AbsentIdentity, errors.Wrapf(common.ErrUnauthorized, "%s is not the owner", caller.Hex())
	}
	return owner, nil
}

func (g *Guard) load(state contract.XMReader) (ethcommon.Address, bool, error) {
	value, err := state.Get(ContractName, keyOwner)
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return common.AbsentIdentity, false, errors.Wrap(err, "get owner failed")
	}
	if err != nil {
		return common.AbsentIdentity, false, nil
	}
	return ethcommon.BytesToAddress(value), true, nil
}

func (g *Guard) save(state contract.XMState, owner ethcommon.Address) error {
	if err := state.Put(ContractName, keyOwner, owner.Bytes()); err != nil {
		return errors.Wrap(err, "set owner failed")
	}
	return nil
}

func (g *Guard) emit(ctx contract.KContext, prev, next ethcommon.Address) error {
	event, err := common.NewEvent(ContractName, common.EventOwnershipChanged, &common.OwnershipChanged{
		Previous: prev,
		New:      next,
	})
	if err != nil {
		return err
	}
	ctx.AddEvent(event)
	return nil
}
