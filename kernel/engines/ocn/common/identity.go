package common

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// AbsentIdentity 全零地址，表示未设置，不能作为注册者或所有者
var AbsentIdentity = ethcommon.Address{}

// IsAbsent reports whether id is the all-zero address
func IsAbsent(id ethcommon.Address) bool {
	return id == AbsentIdentity
}

// ParseIdentity 解析0x开头的十六进制地址
func ParseIdentity(s string) (ethcommon.Address, error) {
	if !ethcommon.IsHexAddress(s) {
		return AbsentIdentity, InvalidArgf("bad address %q", s)
	}
	return ethcommon.HexToAddress(s), nil
}

// ParseSubject 解析调用者地址，调用者不能是零地址
func ParseSubject(s string) (ethcommon.Address, error) {
	id, err := ParseIdentity(s)
	if err != nil {
		return AbsentIdentity, err
	}
	if IsAbsent(id) {
		return AbsentIdentity, InvalidArgf("absent identity can not act")
	}
	return id, nil
}
