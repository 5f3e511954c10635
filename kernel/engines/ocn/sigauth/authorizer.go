package sigauth

import (
	"crypto/ecdsa"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/lib/cache"
	"github.com/xuperchain/ocnledger/lib/metrics"
)

const (
	resultRecovered = "recovered"
	resultFailed    = "failed"
	resultCached    = "cached"
)

// Authorizer 从消息hash和签名恢复签名者地址
type Authorizer interface {
	// Recover 恢复失败时返回零地址，不返回错误
	Recover(hash ethcommon.Hash, sig common.Signature) ethcommon.Address
}

// EcdsaAuthorizer recovers secp256k1 signers, it keeps no state
type EcdsaAuthorizer struct{}

func NewEcdsaAuthorizer() *EcdsaAuthorizer {
	return &EcdsaAuthorizer{}
}

func (a *EcdsaAuthorizer) Recover(hash ethcommon.Hash, sig common.Signature) ethcommon.Address {
	signer := Recover(hash, sig.V, sig.R, sig.S)
	if common.IsAbsent(signer) {
		metrics.SigRecoverCounter.WithLabelValues(resultFailed).Inc()
	} else {
		metrics.SigRecoverCounter.WithLabelValues(resultRecovered).Inc()
	}
	return signer
}

// Recover 恢复签名者地址，v取27/28或0/1，签名不合法时返回零地址
func Recover(hash ethcommon.Hash, v byte, r, s [32]byte) ethcommon.Address {
	sig := common.Signature{V: v, R: r, S: s}
	recID := sig.RecoveryID()
	if recID > 1 {
		return common.AbsentIdentity
	}
	// 只接受low-s签名，避免同一签名的另一种形式被重放
	if !crypto.ValidateSignatureValues(recID, new(big.Int).SetBytes(r[:]), new(big.Int).SetBytes(s[:]), true) {
		return common.AbsentIdentity
	}

	pub, err := crypto.SigToPub(hash[:], sig.Bytes())
	if err != nil || pub == nil {
		return common.AbsentIdentity
	}
	return crypto.PubkeyToAddress(*pub)
}

// CachedAuthorizer 缓存恢复结果，恢复是输入的纯函数，缓存不会过期失效
type CachedAuthorizer struct {
	inner Authorizer
	cache *cache.LRUCache
}

func NewCachedAuthorizer(inner Authorizer, size int) *CachedAuthorizer {
	return &CachedAuthorizer{
		inner: inner,
		cache: cache.NewLRUCache(size),
	}
}

type cacheKey struct {
	hash ethcommon.Hash
	sig  common.Signature
}

func (a *CachedAuthorizer) Recover(hash ethcommon.Hash, sig common.Signature) ethcommon.Address {
	key := cacheKey{hash: hash, sig: sig}
	if v, ok := a.cache.Get(key); ok {
		metrics.SigRecoverCounter.WithLabelValues(resultCached).Inc()
		return v.(ethcommon.Address)
	}

	signer := a.inner.Recover(hash, sig)
	a.cache.Add(key, signer)
	return signer
}

// Sign 对已加前缀的消息hash签名，返回V为27/28的签名
func Sign(hash ethcommon.Hash, key *ecdsa.PrivateKey) (common.Signature, error) {
	var sig common.Signature
	raw, err := crypto.Sign(hash[:], key)
	if err != nil {
		return sig, errors.Wrap(err, "sign hash failed")
	}
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	sig.V = raw[64] + 27
	return sig, nil
}

// SignDigest 对操作参数摘要加前缀后签名，链下签名方使用
func SignDigest(digest ethcommon.Hash, key *ecdsa.PrivateKey) (common.Signature, error) {
	return Sign(PrefixedHash(digest), key)
}

// RecoverDigest 对操作参数摘要加前缀后恢复签名者
func RecoverDigest(auth Authorizer, digest ethcommon.Hash, sig common.Signature) ethcommon.Address {
	return auth.Recover(PrefixedHash(digest), sig)
}

// CheckSigner 校验args中的签名由subject对digest签出
// 恢复失败返回ErrSignatureRecoveryFailed，签名者不是subject返回ErrUnauthorized
func CheckSigner(auth Authorizer, args map[string][]byte, digest ethcommon.Hash, subject ethcommon.Address) error {
	sig, err := common.ArgSignature(args)
	if err != nil {
		return err
	}
	signer := RecoverDigest(auth, digest, sig)
	if common.IsAbsent(signer) {
		return errors.Wrapf(common.ErrSignatureRecoveryFailed, "digest %s", digest.Hex())
	}
	if signer != subject {
		return errors.Wrapf(common.ErrUnauthorized, "signed by %s, not %s", signer.Hex(), subject.Hex())
	}
	return nil
}
