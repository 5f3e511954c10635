package kvdb

import (
	"fmt"
	"sync"
)

// KVParameter structure for kv instance parameters
type KVParameter struct {
	DBPath       string
	KVEngineType string
	StorageType  string
	// 内存缓存大小，单位MB
	MemCacheSize          int
	FileHandlersCacheSize int
}

const (
	KVEngineTypeLDB    = "leveldb"
	KVEngineTypeBadger = "badger"
)

const (
	// 数据落盘
	StorageTypeSingle = "single"
	// 数据只保存在内存，进程退出即丢失，用于测试和临时账本
	StorageTypeMemory = "memory"
)

var (
	servsMu  sync.RWMutex
	services = make(map[string]NewStorageFunc)
)

type NewStorageFunc func(*KVParameter) (Database, error)

// Register 注册kv引擎，同名引擎重复注册会panic
func Register(name string, f NewStorageFunc) {
	servsMu.Lock()
	defer servsMu.Unlock()

	if f == nil {
		panic("storage: Register new func is nil")
	}
	if _, dup := services[name]; dup {
		panic("storage: Register called twice for func " + name)
	}
	services[name] = f
}

// CreateKVInstance 根据KVEngineType创建kv实例，引擎需要提前import注册
func CreateKVInstance(kvParam *KVParameter) (Database, error) {
	if kvParam == nil {
		return nil, fmt.Errorf("kv param is nil")
	}

	servsMu.RLock()
	f, ok := services[kvParam.KVEngineType]
	servsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("kv engine not registered.engine:%s", kvParam.KVEngineType)
	}

	instance, err := f(kvParam)
	if err != nil {
		return nil, fmt.Errorf("create kv instance failed.engine:%s,err:%v", kvParam.KVEngineType, err)
	}
	return instance, nil
}

// IsMemory return whether the instance keeps data in memory only
func (param *KVParameter) IsMemory() bool {
	return param.StorageType == StorageTypeMemory
}

// GetMemCacheSize return MemCacheSize, at least 16MB
func (param *KVParameter) GetMemCacheSize() int {
	if param.MemCacheSize < 16 {
		return 16
	}
	return param.MemCacheSize
}

// GetFileHandlersCacheSize return FileHandlersCacheSize, at least 16
func (param *KVParameter) GetFileHandlersCacheSize() int {
	if param.FileHandlersCacheSize < 16 {
		return 16
	}
	return param.FileHandlersCacheSize
}
