package sigauth

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
)

// 操作标签，除register外每种操作的摘要都是以标签开头的abi编码，
// 一种操作的签名不能用于另一种操作
const (
	TagUpdateInfo      = "updateInfo"
	TagOverwriteInfo   = "overwriteInfo"
	TagSetNodeAddress  = "setNodeAddress"
	TagDeregister      = "deregister"
	TagSetApp          = "setApp"
	TagCreateAgreement = "createAgreement"
)

var (
	typeString   = mustNewType("string")
	typeBytes2   = mustNewType("bytes2")
	typeBytes3   = mustNewType("bytes3")
	typeAddress  = mustNewType("address")
	typeUint256s = mustNewType("uint256[]")
)

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func encode(types []abi.Type, values ...interface{}) ([]byte, error) {
	args := make(abi.Arguments, 0, len(types))
	for _, typ := range types {
		args = append(args, abi.Argument{Type: typ})
	}
	return args.Pack(values...)
}

func digestOf(types []abi.Type, values ...interface{}) (ethcommon.Hash, error) {
	data, err := encode(types, values...)
	if err != nil {
		return ethcommon.Hash{}, errors.Wrap(err, "abi encode failed")
	}
	return crypto.Keccak256Hash(data), nil
}

// PrefixedHash = keccak256("\x19Ethereum Signed Message:\n32" ∥ digest)
func PrefixedHash(digest ethcommon.Hash) ethcommon.Hash {
	return ethcommon.BytesToHash(accounts.TextHash(digest[:]))
}

// RegisterDigest keccak256(countryCode ∥ partyId ∥ url)，前两项定长，拼接没有歧义
func RegisterDigest(key common.PartyKey, url string) (ethcommon.Hash, error) {
	return crypto.Keccak256Hash(key.Bytes(), []byte(url)), nil
}

// UpdateInfoDigest abi.encode("updateInfo", bytes2 countryCode, bytes3 partyId, string url)
func UpdateInfoDigest(key common.PartyKey, url string) (ethcommon.Hash, error) {
	return digestOf([]abi.Type{typeString, typeBytes2, typeBytes3, typeString},
		TagUpdateInfo, key.CountryCode, key.PartyID, url)
}

// OverwriteInfoDigest abi.encode("overwriteInfo", bytes2 countryCode, bytes3 partyId, address newOwner, string url)
func OverwriteInfoDigest(key common.PartyKey, newOwner ethcommon.Address, url string) (ethcommon.Hash, error) {
	return digestOf([]abi.Type{typeString, typeBytes2, typeBytes3, typeAddress, typeString},
		TagOverwriteInfo, key.CountryCode, key.PartyID, newOwner, url)
}

// SetNodeAddressDigest abi.encode("setNodeAddress", bytes2 countryCode, bytes3 partyId, address nodeAddress)
func SetNodeAddressDigest(key common.PartyKey, nodeAddress ethcommon.Address) (ethcommon.Hash, error) {
	return digestOf([]abi.Type{typeString, typeBytes2, typeBytes3, typeAddress},
		TagSetNodeAddress, key.CountryCode, key.PartyID, nodeAddress)
}

// DeregisterDigest abi.encode("deregister", bytes2 countryCode, bytes3 partyId)
func DeregisterDigest(key common.PartyKey) (ethcommon.Hash, error) {
	return digestOf([]abi.Type{typeString, typeBytes2, typeBytes3},
		TagDeregister, key.CountryCode, key.PartyID)
}

// SetAppDigest abi.encode("setApp", address provider, string name, string url, uint256[] permissions)
func SetAppDigest(provider ethcommon.Address, name, url string, permissions []uint64) (ethcommon.Hash, error) {
	perms := make([]*big.Int, 0, len(permissions))
	for _, p := range permissions {
		perms = append(perms, new(big.Int).SetUint64(p))
	}
	return digestOf([]abi.Type{typeString, typeAddress, typeString, typeString, typeUint256s},
		TagSetApp, provider, name, url, perms)
}

// CreateAgreementDigest abi.encode("createAgreement", address user, address provider)
func CreateAgreementDigest(user, provider ethcommon.Address) (ethcommon.Hash, error) {
	return digestOf([]abi.Type{typeString, typeAddress, typeAddress},
		TagCreateAgreement, user, provider)
}
