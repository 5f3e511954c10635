package leveldb

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

func makeDB(t *testing.T, storageType string) kvdb.Database {
	kvParam := &kvdb.KVParameter{
		DBPath:                t.TempDir(),
		KVEngineType:          kvdb.KVEngineTypeLDB,
		StorageType:           storageType,
		MemCacheSize:          16,
		FileHandlersCacheSize: 64,
	}
	db, err := kvdb.CreateKVInstance(kvParam)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLDBDatabase(t *testing.T) {
	for _, storageType := range []string{kvdb.StorageTypeSingle, kvdb.StorageTypeMemory} {
		t.Run(storageType, func(t *testing.T) {
			db := makeDB(t, storageType)

			_, err := db.Get([]byte("missing"))
			assert.True(t, kvdb.ErrNotFound(err))

			require.NoError(t, db.Put([]byte("k1"), []byte("v1")))
			v, err := db.Get([]byte("k1"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), v)

			ok, err := db.Has([]byte("k1"))
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, db.Delete([]byte("k1")))
			ok, err = db.Has([]byte("k1"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLDBBatchAndIterator(t *testing.T) {
	db := makeDB(t, kvdb.StorageTypeMemory)

	batch := db.NewBatch()
	for i := 0; i < 5; i++ {
		require.NoError(t, batch.Put([]byte(fmt.Sprintf("p/%d", i)), []byte{byte(i)}))
	}
	require.NoError(t, batch.Put([]byte("q/0"), []byte("x")))
	require.NoError(t, batch.Delete([]byte("p/4")))
	assert.Greater(t, batch.ValueSize(), 0)

	// Write之前不可见
	_, err := db.Get([]byte("p/0"))
	assert.True(t, kvdb.ErrNotFound(err))
	require.NoError(t, batch.Write())

	iter := db.NewIteratorWithPrefix([]byte("p/"))
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"p/0", "p/1", "p/2", "p/3"}, keys)

	batch.Reset()
	assert.Equal(t, 0, batch.ValueSize())
}

func TestCreateKVInstanceUnknownEngine(t *testing.T) {
	_, err := kvdb.CreateKVInstance(&kvdb.KVParameter{KVEngineType: "rocksdb"})
	assert.Error(t, err)
}
