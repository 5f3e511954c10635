package sigauth

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
)

func word(b []byte) []byte {
	w := make([]byte, 32)
	copy(w, b)
	return w
}

func uintWord(n byte) []byte {
	w := make([]byte, 32)
	w[31] = n
	return w
}

func TestRegisterDigestLayout(t *testing.T) {
	party := common.MustPartyKey("DE", "ABC")

	got, err := RegisterDigest(party, "https://x")
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash([]byte("DEABChttps://x")), got)
}

func TestUpdateInfoDigestLayout(t *testing.T) {
	party := common.MustPartyKey("DE", "ABC")
	url := "https://x"

	// offset(tag) | bytes2 | bytes3 | offset(url) | len(tag) | tag | len(url) | url
	var want []byte
	want = append(want, uintWord(0x80)...)
	want = append(want, word([]byte("DE"))...)
	want = append(want, word([]byte("ABC"))...)
	want = append(want, uintWord(0xc0)...)
	want = append(want, uintWord(byte(len(TagUpdateInfo)))...)
	want = append(want, word([]byte(TagUpdateInfo))...)
	want = append(want, uintWord(byte(len(url)))...)
	want = append(want, word([]byte(url))...)

	got, err := UpdateInfoDigest(party, url)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(want), got)
}

func TestDigestsDiffer(t *testing.T) {
	party := common.MustPartyKey("DE", "ABC")
	owner := ethcommon.HexToAddress("0x00000000000000000000000000000000000000b1")
	url := "https://x"

	register, err := RegisterDigest(party, url)
	require.NoError(t, err)
	update, err := UpdateInfoDigest(party, url)
	require.NoError(t, err)
	overwrite, err := OverwriteInfoDigest(party, owner, url)
	require.NoError(t, err)
	node, err := SetNodeAddressDigest(party, owner)
	require.NoError(t, err)
	deregister, err := DeregisterDigest(party)
	require.NoError(t, err)

	seen := map[ethcommon.Hash]bool{}
	for _, d := range []ethcommon.Hash{register, update, overwrite, node, deregister} {
		assert.False(t, seen[d])
		seen[d] = true
	}
}

func TestSetAppDigest(t *testing.T) {
	provider := ethcommon.HexToAddress("0x00000000000000000000000000000000000000c1")

	base, err := SetAppDigest(provider, "App", "https://app", []uint64{1, 2, 3})
	require.NoError(t, err)

	tests := []struct {
		name    string
		appName string
		url     string
		perms   []uint64
	}{
		{name: "name url boundary shifted", appName: "Ap", url: "phttps://app", perms: []uint64{1, 2, 3}},
		{name: "permission order", appName: "App", url: "https://app", perms: []uint64{3, 2, 1}},
		{name: "extra permission", appName: "App", url: "https://app", perms: []uint64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SetAppDigest(provider, tt.appName, tt.url, tt.perms)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestCreateAgreementDigest(t *testing.T) {
	user := ethcommon.HexToAddress("0x00000000000000000000000000000000000000d1")
	provider := ethcommon.HexToAddress("0x00000000000000000000000000000000000000d2")

	d1, err := CreateAgreementDigest(user, provider)
	require.NoError(t, err)
	d2, err := CreateAgreementDigest(provider, user)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}
