package common

import (
	"encoding/json"
	"strconv"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// 合约参数名
const (
	ArgCountryCode = "country_code"
	ArgPartyID     = "party_id"
	ArgURL         = "url"
	ArgOwner       = "owner"
	ArgName        = "name"
	ArgNewOwner    = "new_owner"
	ArgNodeAddress = "node_address"
	ArgProvider    = "provider"
	ArgUser        = "user"
	ArgCandidate   = "candidate"
	ArgPermissions = "permissions"
	ArgIndex       = "index"
	ArgV           = "v"
	ArgR           = "r"
	ArgS           = "s"
)

// Args 合约调用参数，值统一编码为字节
type Args map[string][]byte

func NewArgs() Args {
	return make(Args)
}

func (a Args) WithPartyKey(key PartyKey) Args {
	a[ArgCountryCode] = append([]byte{}, key.CountryCode[:]...)
	a[ArgPartyID] = append([]byte{}, key.PartyID[:]...)
	return a
}

func (a Args) WithString(name, value string) Args {
	a[name] = []byte(value)
	return a
}

func (a Args) WithIdentity(name string, id ethcommon.Address) Args {
	a[name] = []byte(id.Hex())
	return a
}

func (a Args) WithUint64(name string, value uint64) Args {
	a[name] = []byte(strconv.FormatUint(value, 10))
	return a
}

func (a Args) WithUint64s(name string, values []uint64) Args {
	if values == nil {
		values = []uint64{}
	}
	// []uint64编码不会失败
	data, _ := json.Marshal(values)
	a[name] = data
	return a
}

func (a Args) WithSignature(sig Signature) Args {
	a[ArgV] = []byte(strconv.Itoa(int(sig.V)))
	a[ArgR] = []byte(hexutil.Encode(sig.R[:]))
	a[ArgS] = []byte(hexutil.Encode(sig.S[:]))
	return a
}

func ArgPartyKey(args map[string][]byte) (PartyKey, error) {
	cc, ok := args[ArgCountryCode]
	if !ok {
		return PartyKey{}, InvalidArgf("%s param missing", ArgCountryCode)
	}
	pid, ok := args[ArgPartyID]
	if !ok {
		return PartyKey{}, InvalidArgf("%s param missing", ArgPartyID)
	}
	return NewPartyKey(cc, pid)
}

func ArgString(args map[string][]byte, name string) (string, error) {
	value, ok := args[name]
	if !ok {
		return "", InvalidArgf("%s param missing", name)
	}
	return string(value), nil
}

// ArgIdentity 解析地址参数，允许零地址，由调用方决定是否合法
func ArgIdentity(args map[string][]byte, name string) (ethcommon.Address, error) {
	value, ok := args[name]
	if !ok {
		return AbsentIdentity, InvalidArgf("%s param missing", name)
	}
	return ParseIdentity(string(value))
}

// ArgOptionalIdentity 参数缺失时返回零地址
func ArgOptionalIdentity(args map[string][]byte, name string) (ethcommon.Address, error) {
	if _, ok := args[name]; !ok {
		return AbsentIdentity, nil
	}
	return ArgIdentity(args, name)
}

func ArgUint64(args map[string][]byte, name string) (uint64, error) {
	value, ok := args[name]
	if !ok {
		return 0, InvalidArgf("%s param missing", name)
	}
	n, err := strconv.ParseUint(string(value), 10, 64)
	if err != nil {
		return 0, InvalidArgf("%s param is not uint64: %v", name, err)
	}
	return n, nil
}

func ArgUint64s(args map[string][]byte, name string) ([]uint64, error) {
	value, ok := args[name]
	if !ok {
		return nil, InvalidArgf("%s param missing", name)
	}
	values := []uint64{}
	if err := json.Unmarshal(value, &values); err != nil {
		return nil, InvalidArgf("%s param unmarshal failed: %v", name, err)
	}
	return values, nil
}

// ArgSignature 解析v(十进制)、r和s(0x开头32字节十六进制)
func ArgSignature(args map[string][]byte) (Signature, error) {
	var sig Signature
	v, ok := args[ArgV]
	if !ok {
		return sig, InvalidArgf("%s param missing", ArgV)
	}
	n, err := strconv.ParseUint(string(v), 10, 8)
	if err != nil {
		return sig, InvalidArgf("%s param is not a byte: %v", ArgV, err)
	}
	sig.V = byte(n)

	if err := argBytes32(args, ArgR, &sig.R); err != nil {
		return sig, err
	}
	if err := argBytes32(args, ArgS, &sig.S); err != nil {
		return sig, err
	}
	return sig, nil
}

func argBytes32(args map[string][]byte, name string, out *[32]byte) error {
	value, ok := args[name]
	if !ok {
		return InvalidArgf("%s param missing", name)
	}
	raw, err := hexutil.Decode(string(value))
	if err != nil {
		return InvalidArgf("%s param decode failed: %v", name, err)
	}
	if len(raw) != 32 {
		return InvalidArgf("%s param must be 32 bytes, got %d", name, len(raw))
	}
	copy(out[:], raw)
	return nil
}
