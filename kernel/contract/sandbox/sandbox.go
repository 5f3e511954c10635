package sandbox

import (
	"github.com/xuperchain/ocnledger/kernel/contract"
)

// XMCache 在已提交状态之上缓存一次调用的写集，调用失败时直接丢弃
type XMCache struct {
	reader contract.XMReader
	wset   *MemXModel
}

var _ contract.StateSandbox = (*XMCache)(nil)

func NewXMCache(reader contract.XMReader) *XMCache {
	return &XMCache{
		reader: reader,
		wset:   NewMemXModel(),
	}
}

// Get 优先读取本次调用的写集
func (xc *XMCache) Get(bucket string, key []byte) ([]byte, error) {
	if xc.wset.tree.Size() > 0 {
		if _, ok := xc.wset.tree.Get(string(makeRawKey(bucket, key))); ok {
			return xc.wset.Get(bucket, key)
		}
	}
	return xc.reader.Get(bucket, key)
}

func (xc *XMCache) Put(bucket string, key, value []byte) error {
	return xc.wset.Put(bucket, key, value)
}

func (xc *XMCache) Del(bucket string, key []byte) error {
	return xc.wset.Del(bucket, key)
}

// RWSet 返回按key有序的写集
func (xc *XMCache) RWSet() *contract.RWSet {
	return &contract.RWSet{
		WSet: xc.wset.WriteSet(),
	}
}
