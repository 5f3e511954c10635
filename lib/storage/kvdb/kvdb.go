package kvdb

import (
	"errors"
)

// ErrKeyNotFound is returned by Database.Get when the key does not exist
var ErrKeyNotFound = errors.New("kvdb: key not found")

// ErrNotFound reports whether err means the key does not exist
func ErrNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// Database 对底层kv引擎的统一抽象
type Database interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	NewBatch() Batch
	NewIteratorWithPrefix(prefix []byte) Iterator
	Close() error
}

// Batch 批量写，Write之前的修改对读不可见
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	ValueSize() int
	Write() error
	Reset()
}

// Iterator iterates over key/value pairs in key order.
// 使用完毕后必须调用Release
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}
