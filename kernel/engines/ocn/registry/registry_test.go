package registry

import (
	"crypto/ecdsa"
	"encoding/json"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/mock"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
)

var (
	admin  = ethcommon.HexToAddress("0x000000000000000000000000000000000000000a")
	aliceA = ethcommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	bobB   = ethcommon.HexToAddress("0x00000000000000000000000000000000000000b1")

	partyDE = common.MustPartyKey("DE", "ABC")
)

type staticOwner struct {
	owner ethcommon.Address
}

func (s *staticOwner) IsOwner(_ contract.XMReader, candidate ethcommon.Address) (bool, error) {
	return !common.IsAbsent(candidate) && candidate == s.owner, nil
}

func newContractForTest(t *testing.T) (*Contract, *mock.FakeKContext) {
	ctx, err := NewRegistryCtx()
	require.NoError(t, err)
	c := NewContract(sigauth.NewEcdsaAuthorizer(), &staticOwner{owner: admin}, ctx)
	return c, mock.NewFakeKContext("", nil)
}

func registerArgs(key common.PartyKey, url string) common.Args {
	return common.NewArgs().WithPartyKey(key).WithString(common.ArgURL, url)
}

func recordOf(t *testing.T, c *Contract, kctx *mock.FakeKContext, key common.PartyKey) *PartyRecord {
	resp, err := c.QueryParty(kctx.With("", common.NewArgs().WithPartyKey(key)))
	require.NoError(t, err)
	record := new(PartyRecord)
	require.NoError(t, json.Unmarshal(resp.Body, record))
	return record
}

func TestRegister(t *testing.T) {
	c, kctx := newContractForTest(t)

	_, err := c.Register(kctx.With(aliceA.Hex(), registerArgs(partyDE, "https://a")))
	require.NoError(t, err)

	record := recordOf(t, c, kctx, partyDE)
	assert.Equal(t, aliceA, record.Owner)
	assert.Equal(t, "https://a", record.URL)

	events := kctx.Events()
	require.Len(t, events, 1)
	assert.Equal(t, common.EventRecordChanged, events[0].Name)
	changed := new(common.RecordChanged)
	require.NoError(t, json.Unmarshal(events[0].Body, changed))
	assert.Equal(t, "DE", changed.CountryCode)
	assert.Equal(t, "ABC", changed.PartyID)
	assert.Equal(t, aliceA, changed.Owner)

	// 已被注册
	kctx.ResetEvents()
	_, err = c.Register(kctx.With(bobB.Hex(), registerArgs(partyDE, "https://b")))
	assert.True(t, errors.Is(err, common.ErrAlreadyRegistered))
	assert.Empty(t, kctx.Events())
	assert.Equal(t, aliceA, recordOf(t, c, kctx, partyDE).Owner)
}

func TestRegisterInvalidArgs(t *testing.T) {
	tests := []struct {
		name      string
		initiator string
		args      common.Args
	}{
		{
			name:      "absent initiator",
			initiator: common.AbsentIdentity.Hex(),
			args:      registerArgs(partyDE, "https://a"),
		},
		{
			name:      "country code too long",
			initiator: aliceA.Hex(),
			args: common.NewArgs().WithString(common.ArgCountryCode, "DEU").
				WithString(common.ArgPartyID, "ABC").WithString(common.ArgURL, "https://a"),
		},
		{
			name:      "url missing",
			initiator: aliceA.Hex(),
			args:      common.NewArgs().WithPartyKey(partyDE),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, kctx := newContractForTest(t)
			_, err := c.Register(kctx.With(tt.initiator, tt.args))
			assert.True(t, errors.Is(err, common.ErrInvalidArgument))
			assert.Equal(t, 0, kctx.Len())
		})
	}
}

func TestOwnerOperations(t *testing.T) {
	tests := []struct {
		name    string
		caller  ethcommon.Address
		key     common.PartyKey
		wantErr error
	}{
		{name: "owner", caller: aliceA, key: partyDE},
		{name: "not owner", caller: bobB, key: partyDE, wantErr: common.ErrUnauthorized},
		{name: "unregistered", caller: aliceA, key: common.MustPartyKey("NL", "XYZ"), wantErr: common.ErrPartyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, kctx := newContractForTest(t)
			_, err := c.Register(kctx.With(aliceA.Hex(), registerArgs(partyDE, "https://a")))
			require.NoError(t, err)

			_, err = c.UpdateInfo(kctx.With(tt.caller.Hex(), registerArgs(tt.key, "https://new")))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, "https://a", recordOf(t, c, kctx, partyDE).URL)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "https://new", recordOf(t, c, kctx, partyDE).URL)
			}

			_, err = c.SetNodeAddress(kctx.With(tt.caller.Hex(), common.NewArgs().WithPartyKey(tt.key).
				WithIdentity(common.ArgNodeAddress, bobB)))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, bobB, recordOf(t, c, kctx, partyDE).NodeAddress)
			}

			_, err = c.Deregister(kctx.With(tt.caller.Hex(), common.NewArgs().WithPartyKey(tt.key)))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, aliceA, recordOf(t, c, kctx, partyDE).Owner)
			} else {
				require.NoError(t, err)
				assert.True(t, common.IsAbsent(recordOf(t, c, kctx, partyDE).Owner))
			}
		})
	}
}

func TestOverwriteInfo(t *testing.T) {
	c, kctx := newContractForTest(t)
	_, err := c.Register(kctx.With(aliceA.Hex(), registerArgs(partyDE, "https://a")))
	require.NoError(t, err)
	_, err = c.SetNodeAddress(kctx.With(aliceA.Hex(), common.NewArgs().WithPartyKey(partyDE).
		WithIdentity(common.ArgNodeAddress, admin)))
	require.NoError(t, err)

	args := registerArgs(partyDE, "https://b").WithIdentity(common.ArgNewOwner, bobB)
	_, err = c.OverwriteInfo(kctx.With(bobB.Hex(), args))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = c.OverwriteInfo(kctx.With(aliceA.Hex(), args))
	require.NoError(t, err)
	record := recordOf(t, c, kctx, partyDE)
	assert.Equal(t, bobB, record.Owner)
	assert.Equal(t, "https://b", record.URL)
	assert.Equal(t, admin, record.NodeAddress)

	// 新owner不能为空
	args = registerArgs(partyDE, "https://c").WithIdentity(common.ArgNewOwner, common.AbsentIdentity)
	_, err = c.OverwriteInfo(kctx.With(bobB.Hex(), args))
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestDeregisterThenRegister(t *testing.T) {
	c, kctx := newContractForTest(t)
	_, err := c.Register(kctx.With(aliceA.Hex(), registerArgs(partyDE, "https://a")))
	require.NoError(t, err)
	_, err = c.Deregister(kctx.With(aliceA.Hex(), common.NewArgs().WithPartyKey(partyDE)))
	require.NoError(t, err)

	events := kctx.Events()
	require.Len(t, events, 2)
	assert.Equal(t, common.EventRecordRemoved, events[1].Name)
	removed := new(common.RecordRemoved)
	require.NoError(t, json.Unmarshal(events[1].Body, removed))
	assert.Equal(t, aliceA, removed.PreviousOwner)

	resp, err := c.QueryURLOf(kctx.With("", common.NewArgs().WithPartyKey(partyDE)))
	require.NoError(t, err)
	assert.Empty(t, resp.Body)

	_, err = c.Register(kctx.With(bobB.Hex(), registerArgs(partyDE, "https://b")))
	require.NoError(t, err)
	assert.Equal(t, bobB, recordOf(t, c, kctx, partyDE).Owner)
}

func TestAdminOverwrite(t *testing.T) {
	c, kctx := newContractForTest(t)
	_, err := c.Register(kctx.With(aliceA.Hex(), registerArgs(partyDE, "https://a")))
	require.NoError(t, err)

	args := registerArgs(partyDE, "https://b").WithIdentity(common.ArgNewOwner, bobB)
	_, err = c.AdminOverwrite(kctx.With(aliceA.Hex(), args))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, aliceA, recordOf(t, c, kctx, partyDE).Owner)

	_, err = c.AdminOverwrite(kctx.With(admin.Hex(), args))
	require.NoError(t, err)
	record := recordOf(t, c, kctx, partyDE)
	assert.Equal(t, bobB, record.Owner)
	assert.Equal(t, "https://b", record.URL)

	// 未登记的key也可以直接写入
	nl := common.MustPartyKey("NL", "XYZ")
	args = registerArgs(nl, "https://nl").WithIdentity(common.ArgNewOwner, aliceA)
	_, err = c.AdminOverwrite(kctx.With(admin.Hex(), args))
	require.NoError(t, err)
	assert.Equal(t, aliceA, recordOf(t, c, kctx, nl).Owner)
}

func signArgs(t *testing.T, args common.Args, owner ethcommon.Address, digest ethcommon.Hash,
	key *ecdsa.PrivateKey) common.Args {
	sig, err := sigauth.SignDigest(digest, key)
	require.NoError(t, err)
	return args.WithIdentity(common.ArgOwner, owner).WithSignature(sig)
}

func TestRegisterRaw(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	relayer := bobB

	digest, err := sigauth.RegisterDigest(partyDE, "https://x")
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    common.Args
		wantErr error
	}{
		{
			name:    "tampered url",
			args:    signArgs(t, registerArgs(partyDE, "https://evil"), signer, digest, key),
			wantErr: common.ErrUnauthorized,
		},
		{
			name:    "tampered party",
			args:    signArgs(t, registerArgs(common.MustPartyKey("DE", "ABD"), "https://x"), signer, digest, key),
			wantErr: common.ErrUnauthorized,
		},
		{
			name:    "owner is not the signer",
			args:    signArgs(t, registerArgs(partyDE, "https://x"), relayer, digest, key),
			wantErr: common.ErrUnauthorized,
		},
		{
			name:    "absent owner",
			args:    signArgs(t, registerArgs(partyDE, "https://x"), common.AbsentIdentity, digest, key),
			wantErr: common.ErrInvalidArgument,
		},
		{
			name:    "owner missing",
			args:    registerArgs(partyDE, "https://x").WithSignature(common.Signature{V: 27}),
			wantErr: common.ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, kctx := newContractForTest(t)
			_, err := c.RegisterRaw(kctx.With(relayer.Hex(), tt.args))
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 0, kctx.Len())

			// 被拒绝的中继不会占用key
			args := signArgs(t, registerArgs(partyDE, "https://x"), signer, digest, key)
			_, err = c.RegisterRaw(kctx.With(relayer.Hex(), args))
			require.NoError(t, err)
			record := recordOf(t, c, kctx, partyDE)
			assert.Equal(t, signer, record.Owner)
			assert.Equal(t, "https://x", record.URL)
		})
	}
}

func TestRawOwnerOperations(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	c, kctx := newContractForTest(t)

	_, err = c.Register(kctx.With(signer.Hex(), registerArgs(partyDE, "https://a")))
	require.NoError(t, err)

	digest, err := sigauth.UpdateInfoDigest(partyDE, "https://b")
	require.NoError(t, err)
	_, err = c.UpdateInfoRaw(kctx.With(bobB.Hex(), signArgs(t, registerArgs(partyDE, "https://evil"), signer, digest, key)))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	_, err = c.UpdateInfoRaw(kctx.With(bobB.Hex(), signArgs(t, registerArgs(partyDE, "https://b"), signer, digest, key)))
	require.NoError(t, err)
	assert.Equal(t, "https://b", recordOf(t, c, kctx, partyDE).URL)

	digest, err = sigauth.SetNodeAddressDigest(partyDE, admin)
	require.NoError(t, err)
	args := common.NewArgs().WithPartyKey(partyDE).WithIdentity(common.ArgNodeAddress, admin)
	_, err = c.SetNodeAddressRaw(kctx.With(bobB.Hex(), signArgs(t, args, signer, digest, key)))
	require.NoError(t, err)
	assert.Equal(t, admin, recordOf(t, c, kctx, partyDE).NodeAddress)

	// 注册签名不能用于注销
	digest, err = sigauth.RegisterDigest(partyDE, "https://b")
	require.NoError(t, err)
	args = common.NewArgs().WithPartyKey(partyDE)
	_, err = c.DeregisterRaw(kctx.With(bobB.Hex(), signArgs(t, args, signer, digest, key)))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, signer, recordOf(t, c, kctx, partyDE).Owner)

	digest, err = sigauth.OverwriteInfoDigest(partyDE, aliceA, "https://c")
	require.NoError(t, err)
	args = registerArgs(partyDE, "https://c").WithIdentity(common.ArgNewOwner, aliceA)
	_, err = c.OverwriteInfoRaw(kctx.With(bobB.Hex(), signArgs(t, args, signer, digest, key)))
	require.NoError(t, err)
	assert.Equal(t, aliceA, recordOf(t, c, kctx, partyDE).Owner)

	// 所有权已转出，原签名者不能再注销
	digest, err = sigauth.DeregisterDigest(partyDE)
	require.NoError(t, err)
	args = common.NewArgs().WithPartyKey(partyDE)
	_, err = c.DeregisterRaw(kctx.With(bobB.Hex(), signArgs(t, args, signer, digest, key)))
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestRawBadSignature(t *testing.T) {
	c, kctx := newContractForTest(t)
	args := registerArgs(partyDE, "https://x").WithIdentity(common.ArgOwner, aliceA).
		WithSignature(common.Signature{V: 27})
	_, err := c.RegisterRaw(kctx.With(bobB.Hex(), args))
	assert.True(t, errors.Is(err, common.ErrSignatureRecoveryFailed))
	assert.Equal(t, 0, kctx.Len())

	args = registerArgs(partyDE, "https://x").WithIdentity(common.ArgOwner, aliceA)
	_, err = c.RegisterRaw(kctx.With(bobB.Hex(), args))
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
}

func TestQueryUnregistered(t *testing.T) {
	c, kctx := newContractForTest(t)
	args := common.NewArgs().WithPartyKey(partyDE)

	resp, err := c.QueryOwnerOf(kctx.With("", args))
	require.NoError(t, err)
	assert.Equal(t, common.AbsentIdentity.Hex(), string(resp.Body))

	resp, err = c.QueryNodeAddressOf(kctx.With("", args))
	require.NoError(t, err)
	assert.Equal(t, common.AbsentIdentity.Hex(), string(resp.Body))
}
