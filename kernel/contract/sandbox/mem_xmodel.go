package sandbox

import (
	"errors"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

// ErrHasDel is returned by Get when the key was deleted in the current write set
var ErrHasDel = errors.New("key has been deleted")

// MemXModel 按key有序保存的内存状态，删除以墓碑形式保留
type MemXModel struct {
	tree *redblacktree.Tree
}

func NewMemXModel() *MemXModel {
	return &MemXModel{
		tree: redblacktree.NewWithStringComparator(),
	}
}

// Get 读取一个key的值
func (m *MemXModel) Get(bucket string, key []byte) ([]byte, error) {
	v, ok := m.tree.Get(string(makeRawKey(bucket, key)))
	if !ok {
		return nil, kvdb.ErrKeyNotFound
	}
	data := v.(*contract.PureData)
	if data.IsDelete() {
		return nil, ErrHasDel
	}
	return copyBytes(data.Value), nil
}

func (m *MemXModel) Put(bucket string, key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	m.put(bucket, key, copyBytes(value))
	return nil
}

func (m *MemXModel) Del(bucket string, key []byte) error {
	m.put(bucket, key, nil)
	return nil
}

func (m *MemXModel) put(bucket string, key, value []byte) {
	m.tree.Put(string(makeRawKey(bucket, key)), &contract.PureData{
		Bucket: bucket,
		Key:    copyBytes(key),
		Value:  value,
	})
}

// WriteSet 按key升序返回全部写入，包含删除
func (m *MemXModel) WriteSet() []*contract.PureData {
	wset := make([]*contract.PureData, 0, m.tree.Size())
	iter := m.tree.Iterator()
	for iter.Next() {
		wset = append(wset, iter.Value().(*contract.PureData))
	}
	return wset
}

// Len return the number of keys including deletions
func (m *MemXModel) Len() int {
	return m.tree.Size()
}
