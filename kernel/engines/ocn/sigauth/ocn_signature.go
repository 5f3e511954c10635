package sigauth

import (
	"strings"

	hex "github.com/tmthrgd/go-hex"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
)

// ocnSignatureLen r(32) + s(32) + v(1) 的十六进制长度
const ocnSignatureLen = 130

// FormatSignature 编码为OCN-Signature字符串：hex(r) ∥ hex(s) ∥ hex(v)
func FormatSignature(sig common.Signature) string {
	buf := make([]byte, 0, 65)
	buf = append(buf, sig.R[:]...)
	buf = append(buf, sig.S[:]...)
	buf = append(buf, sig.V)
	return hex.EncodeToString(buf)
}

// ParseSignature 解析OCN-Signature字符串，允许0x前缀
func ParseSignature(s string) (common.Signature, error) {
	var sig common.Signature
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != ocnSignatureLen {
		return sig, common.InvalidArgf("signature must be %d hex chars, got %d", ocnSignatureLen, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return sig, common.InvalidArgf("signature decode failed: %v", err)
	}
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64]
	return sig, nil
}
