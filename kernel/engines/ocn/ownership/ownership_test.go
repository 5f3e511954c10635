package ownership

import (
	"encoding/json"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuperchain/ocnledger/kernel/contract/mock"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
)

var (
	ownerO = ethcommon.HexToAddress("0x000000000000000000000000000000000000000a")
	ownerA = ethcommon.HexToAddress("0x000000000000000000000000000000000000000b")
	other  = ethcommon.HexToAddress("0x000000000000000000000000000000000000000c")
)

func newGuardForTest(t *testing.T) (*Guard, *mock.FakeKContext) {
	ctx, err := NewOwnershipCtx()
	require.NoError(t, err)
	g := NewGuard(ctx)

	kctx := mock.NewFakeKContext(ownerO.Hex(), nil)
	require.NoError(t, g.Init(kctx, ownerO))
	return g, kctx
}

func lastOwnershipEvent(t *testing.T, kctx *mock.FakeKContext) *common.OwnershipChanged {
	events := kctx.Events()
	require.NotEmpty(t, events)
	e := events[len(events)-1]
	assert.Equal(t, common.EventOwnershipChanged, e.Name)
	payload := new(common.OwnershipChanged)
	require.NoError(t, json.Unmarshal(e.Body, payload))
	return payload
}

func TestInit(t *testing.T) {
	g, kctx := newGuardForTest(t)

	owner, err := g.CurrentOwner(kctx)
	require.NoError(t, err)
	assert.Equal(t, ownerO, owner)
	event := lastOwnershipEvent(t, kctx)
	assert.True(t, common.IsAbsent(event.Previous))
	assert.Equal(t, ownerO, event.New)

	// 再次初始化不生效
	require.NoError(t, g.Init(kctx, ownerA))
	owner, err = g.CurrentOwner(kctx)
	require.NoError(t, err)
	assert.Equal(t, ownerO, owner)

	ctx, err := NewOwnershipCtx()
	require.NoError(t, err)
	err = NewGuard(ctx).Init(mock.NewFakeKContext("", nil), common.AbsentIdentity)
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestTransferOwnership(t *testing.T) {
	tests := []struct {
		name      string
		initiator ethcommon.Address
		newOwner  ethcommon.Address
		wantErr   error
		wantOwner ethcommon.Address
	}{
		{name: "non owner", initiator: other, newOwner: other, wantErr: common.ErrUnauthorized, wantOwner: ownerO},
		{name: "absent new owner", initiator: ownerO, newOwner: common.AbsentIdentity, wantErr: common.ErrInvalidArgument, wantOwner: ownerO},
		{name: "owner transfers", initiator: ownerO, newOwner: ownerA, wantOwner: ownerA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, kctx := newGuardForTest(t)
			kctx.ResetEvents()
			args := common.NewArgs().WithIdentity(common.ArgNewOwner, tt.newOwner)
			resp, err := g.TransferOwnership(kctx.With(tt.initiator.Hex(), args))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, kctx.Events())
			} else {
				require.NoError(t, err)
				assert.Equal(t, common.StatusSuccess, resp.Status)
				event := lastOwnershipEvent(t, kctx)
				assert.Equal(t, tt.initiator, event.Previous)
				assert.Equal(t, tt.newOwner, event.New)
			}

			owner, err := g.CurrentOwner(kctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
		})
	}
}

func TestRenounceOwnership(t *testing.T) {
	g, kctx := newGuardForTest(t)

	_, err := g.RenounceOwnership(kctx.With(other.Hex(), nil))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = g.RenounceOwnership(kctx.With(ownerO.Hex(), nil))
	require.NoError(t, err)
	event := lastOwnershipEvent(t, kctx)
	assert.Equal(t, ownerO, event.Previous)
	assert.True(t, common.IsAbsent(event.New))

	ok, err := g.IsOwner(kctx, ownerO)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = g.IsOwner(kctx, common.AbsentIdentity)
	require.NoError(t, err)
	assert.False(t, ok)

	// 放弃后不能再转移，也不会被重新初始化
	args := common.NewArgs().WithIdentity(common.ArgNewOwner, ownerA)
	_, err = g.TransferOwnership(kctx.With(ownerO.Hex(), args))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	require.NoError(t, g.Init(kctx, ownerA))
	owner, err := g.CurrentOwner(kctx)
	require.NoError(t, err)
	assert.True(t, common.IsAbsent(owner))
}

func TestQueryMethods(t *testing.T) {
	g, kctx := newGuardForTest(t)

	resp, err := g.QueryOwner(kctx)
	require.NoError(t, err)
	assert.Equal(t, ownerO.Hex(), string(resp.Body))

	args := common.NewArgs().WithIdentity(common.ArgCandidate, ownerO)
	resp, err = g.QueryIsOwner(kctx.With(other.Hex(), args))
	require.NoError(t, err)
	assert.Equal(t, "true", string(resp.Body))

	args = common.NewArgs().WithIdentity(common.ArgCandidate, other)
	resp, err = g.QueryIsOwner(kctx.With(other.Hex(), args))
	require.NoError(t, err)
	assert.Equal(t, "false", string(resp.Body))
}
