package common

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartyKey(t *testing.T) {
	tests := []struct {
		name    string
		cc      []byte
		pid     []byte
		want    string
		wantErr bool
	}{
		{name: "valid", cc: []byte("DE"), pid: []byte("ABC"), want: "DE/ABC"},
		{name: "case kept", cc: []byte("de"), pid: []byte("abc"), want: "de/abc"},
		{name: "short country code", cc: []byte("D"), pid: []byte("ABC"), wantErr: true},
		{name: "long party id", cc: []byte("DE"), pid: []byte("ABCD"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPartyKey(tt.cc, tt.pid)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, append(append([]byte{}, tt.cc...), tt.pid...), got.Bytes())
		})
	}
}

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity("0xa416d967996b6C1de929C2A07e313f6EC9973853")
	require.NoError(t, err)
	assert.Equal(t, ethcommon.HexToAddress("0xa416d967996b6C1de929C2A07e313f6EC9973853"), id)

	_, err = ParseIdentity("not-an-address")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ParseSubject(AbsentIdentity.Hex())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, StatusSuccess},
		{errors.Wrap(ErrUnauthorized, "not owner"), StatusUnauthorized},
		{ErrAlreadyRegistered, StatusAlreadyRegistered},
		{ErrPartyNotFound, StatusPartyNotFound},
		{InvalidArgf("bad"), StatusInvalidArgument},
		{ErrSignatureRecoveryFailed, StatusSignatureRecoveryFailed},
		{errors.New("disk full"), StatusInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), "%v", tt.err)
	}
}

func TestArgs(t *testing.T) {
	key := MustPartyKey("NL", "XYZ")
	provider := ethcommon.HexToAddress("0x00000000000000000000000000000000000000aa")
	sig := Signature{V: 28}
	sig.R[0] = 1
	sig.S[31] = 2

	args := NewArgs().
		WithPartyKey(key).
		WithString(ArgURL, "https://node.example.com").
		WithIdentity(ArgProvider, provider).
		WithUint64s(ArgPermissions, []uint64{3, 1, 3}).
		WithUint64(ArgIndex, 7).
		WithSignature(sig)

	gotKey, err := ArgPartyKey(args)
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)

	url, err := ArgString(args, ArgURL)
	require.NoError(t, err)
	assert.Equal(t, "https://node.example.com", url)

	gotProvider, err := ArgIdentity(args, ArgProvider)
	require.NoError(t, err)
	assert.Equal(t, provider, gotProvider)

	perms, err := ArgUint64s(args, ArgPermissions)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 3}, perms)

	idx, err := ArgUint64(args, ArgIndex)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), idx)

	gotSig, err := ArgSignature(args)
	require.NoError(t, err)
	assert.Equal(t, sig, gotSig)
	assert.Equal(t, byte(1), gotSig.RecoveryID())

	absent, err := ArgOptionalIdentity(args, ArgNodeAddress)
	require.NoError(t, err)
	assert.True(t, IsAbsent(absent))

	_, err = ArgString(args, ArgName)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestArgSignatureInvalid(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{name: "missing v", args: Args{ArgR: []byte("0x00"), ArgS: []byte("0x00")}},
		{name: "v overflow", args: Args{ArgV: []byte("300")}},
		{name: "short r", args: Args{ArgV: []byte("27"), ArgR: []byte("0x0102"), ArgS: []byte("0x0102")}},
		{name: "r not hex", args: Args{ArgV: []byte("27"), ArgR: []byte("zz"), ArgS: []byte("0x0102")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ArgSignature(tt.args)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestRecoveryID(t *testing.T) {
	tests := []struct {
		v    byte
		want byte
	}{
		{v: 0, want: 0},
		{v: 1, want: 1},
		{v: 27, want: 0},
		{v: 28, want: 1},
		{v: 29, want: 2},
		{v: 2, want: 2},
	}
	for _, tt := range tests {
		sig := Signature{V: tt.v}
		assert.Equal(t, tt.want, sig.RecoveryID(), "v=%d", tt.v)
		assert.Equal(t, tt.want, sig.Bytes()[64], "v=%d", tt.v)
	}
}
