package ocn

import (
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/sandbox"
	"github.com/xuperchain/ocnledger/lib/metrics"
	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

const (
	commitSucc = "succ"
	commitFail = "fail"
)

// committedState 已提交状态的只读视图，读取经过缓存
type committedState struct {
	store kvdb.Database
	cache *cache.Cache
}

var _ contract.XMReader = (*committedState)(nil)

func newCommittedState(store kvdb.Database, c *cache.Cache) *committedState {
	return &committedState{store: store, cache: c}
}

func (s *committedState) Get(bucket string, key []byte) ([]byte, error) {
	rawKey := sandbox.MakeRawKey(bucket, key)
	if v, ok := s.cache.Get(string(rawKey)); ok {
		return v.([]byte), nil
	}

	value, err := s.store.Get(rawKey)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(string(rawKey), value)
	return value, nil
}

// commit 在一个batch中写入沙盒的写集，成功后刷新缓存
func (s *committedState) commit(rwSet *contract.RWSet) error {
	if rwSet == nil || len(rwSet.WSet) == 0 {
		return nil
	}

	batch := s.store.NewBatch()
	for _, data := range rwSet.WSet {
		rawKey := sandbox.MakeRawKey(data.Bucket, data.Key)
		var err error
		if data.IsDelete() {
			err = batch.Delete(rawKey)
		} else {
			err = batch.Put(rawKey, data.Value)
		}
		if err != nil {
			metrics.StateCommitCounter.WithLabelValues(commitFail).Inc()
			return errors.Wrap(err, "write batch failed")
		}
	}
	if err := batch.Write(); err != nil {
		metrics.StateCommitCounter.WithLabelValues(commitFail).Inc()
		return errors.Wrap(err, "commit batch failed")
	}

	for _, data := range rwSet.WSet {
		rawKey := string(sandbox.MakeRawKey(data.Bucket, data.Key))
		if data.IsDelete() {
			s.cache.Delete(rawKey)
		} else {
			s.cache.SetDefault(rawKey, data.Value)
		}
	}
	metrics.StateCommitCounter.WithLabelValues(commitSucc).Inc()
	metrics.StateWriteKeysHistogram.Observe(float64(len(rwSet.WSet)))
	return nil
}
