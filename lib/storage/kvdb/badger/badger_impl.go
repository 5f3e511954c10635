package badger

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

func init() {
	kvdb.Register(kvdb.KVEngineTypeBadger, NewKVDBInstance)
}

// BadgerDatabase define data structure of storage
type BadgerDatabase struct {
	path string
	db   *badger.DB
}

// NewKVDBInstance open a badger instance with kv parameters
func NewKVDBInstance(param *kvdb.KVParameter) (kvdb.Database, error) {
	bdb := new(BadgerDatabase)
	if err := bdb.Open(param); err != nil {
		return nil, err
	}
	return bdb, nil
}

// Open opens an instance of badger with parameters
func (bdb *BadgerDatabase) Open(param *kvdb.KVParameter) error {
	opts := badger.DefaultOptions(param.DBPath).
		WithLogger(nil).
		WithBlockCacheSize(int64(param.GetMemCacheSize()) << 20)
	if param.IsMemory() {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return errors.Wrap(err, "open badger failed")
	}
	bdb.path = param.DBPath
	bdb.db = db
	return nil
}

// Path returns the path to the database directory
func (bdb *BadgerDatabase) Path() string {
	return bdb.path
}

// Put puts the given key / value
func (bdb *BadgerDatabase) Put(key []byte, value []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Get returns the given key if it's present
func (bdb *BadgerDatabase) Get(key []byte) ([]byte, error) {
	var value []byte
	err := bdb.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kvdb.ErrKeyNotFound
	}
	return value, err
}

// Has if the given key exists
func (bdb *BadgerDatabase) Has(key []byte) (bool, error) {
	_, err := bdb.Get(key)
	if kvdb.ErrNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete deletes the key
func (bdb *BadgerDatabase) Delete(key []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Close close database instance
func (bdb *BadgerDatabase) Close() error {
	return bdb.db.Close()
}

// NewBatch new a batch for writing
func (bdb *BadgerDatabase) NewBatch() kvdb.Batch {
	return &BadgerBatch{db: bdb.db, wb: bdb.db.NewWriteBatch()}
}

// NewIteratorWithPrefix returns a Iterator for traversing the database with the given prefix
func (bdb *BadgerDatabase) NewIteratorWithPrefix(prefix []byte) kvdb.Iterator {
	txn := bdb.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	return &badgerIterator{
		txn:    txn,
		iter:   txn.NewIterator(opts),
		prefix: prefix,
	}
}

// BadgerBatch wraps badger.WriteBatch
type BadgerBatch struct {
	db   *badger.DB
	wb   *badger.WriteBatch
	size int
}

// Put put a key-value pair into batch
func (b *BadgerBatch) Put(key, value []byte) error {
	b.size += len(value)
	return b.wb.Set(key, value)
}

// Delete delete a key from batch
func (b *BadgerBatch) Delete(key []byte) error {
	b.size++
	return b.wb.Delete(key)
}

// Write flush the batch, the batch can not be reused without Reset
func (b *BadgerBatch) Write() error {
	return b.wb.Flush()
}

// ValueSize return the accumulated value size of the batch
func (b *BadgerBatch) ValueSize() int {
	return b.size
}

// Reset drop the pending writes and start a new batch
func (b *BadgerBatch) Reset() {
	b.wb.Cancel()
	b.wb = b.db.NewWriteBatch()
	b.size = 0
}

type badgerIterator struct {
	txn     *badger.Txn
	iter    *badger.Iterator
	prefix  []byte
	started bool
	key     []byte
	value   []byte
	err     error
}

func (it *badgerIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.started {
		it.iter.Seek(it.prefix)
		it.started = true
	} else {
		it.iter.Next()
	}
	if !it.iter.ValidForPrefix(it.prefix) {
		return false
	}

	item := it.iter.Item()
	it.key = item.KeyCopy(nil)
	it.value, it.err = item.ValueCopy(nil)
	return it.err == nil
}

func (it *badgerIterator) Key() []byte {
	return it.key
}

func (it *badgerIterator) Value() []byte {
	return it.value
}

func (it *badgerIterator) Error() error {
	return it.err
}

func (it *badgerIterator) Release() {
	it.iter.Close()
	it.txn.Discard()
}
