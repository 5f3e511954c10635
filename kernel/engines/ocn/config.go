package ocn

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
	"github.com/xuperchain/ocnledger/lib/utils"
)

const (
	DefaultDBDir            = "ocn"
	DefaultMemCacheSize     = "64MB"
	DefaultFileHandlers     = 64
	DefaultStateCacheTTL    = 10 * time.Minute
	DefaultSigCacheSize     = 4096
	DefaultEventBacklogSize = 1024
	DefaultPublishTimeout   = 3 * time.Second
)

type EngineConf struct {
	// 首次启动时写入的owner地址，已初始化的账本忽略该配置
	InitialOwner string `yaml:"initialOwner,omitempty"`
	// kv引擎: leveldb | badger
	KVEngineType string `yaml:"kvEngineType,omitempty"`
	// single落盘，memory只保存在内存
	StorageType string `yaml:"storageType,omitempty"`
	// 相对DataDir的目录
	DBDir string `yaml:"dbDir,omitempty"`
	// 例如 64MB、1GiB
	MemCacheSize          string `yaml:"memCacheSize,omitempty"`
	FileHandlersCacheSize int    `yaml:"fileHandlersCacheSize,omitempty"`
	// 已提交状态的读缓存过期时间
	StateCacheTTL time.Duration `yaml:"stateCacheTTL,omitempty"`
	// 签名恢复结果缓存条数，0表示不缓存
	SigCacheSize     int           `yaml:"sigCacheSize,omitempty"`
	EventBacklogSize int           `yaml:"eventBacklogSize,omitempty"`
	PublishTimeout   time.Duration `yaml:"publishTimeout,omitempty"`
	Redis            RedisConf     `yaml:"redis,omitempty"`
}

// RedisConf url为空时不发布事件到redis
type RedisConf struct {
	URL     string `yaml:"url,omitempty"`
	Channel string `yaml:"channel,omitempty"`
}

func LoadEngineConf(cfgFile string) (*EngineConf, error) {
	cfg := GetDefEngineConf()
	err := cfg.loadConf(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load engine config failed.err:%s", err)
	}

	return cfg, nil
}

func GetDefEngineConf() *EngineConf {
	return &EngineConf{
		KVEngineType:          kvdb.KVEngineTypeLDB,
		StorageType:           kvdb.StorageTypeSingle,
		DBDir:                 DefaultDBDir,
		MemCacheSize:          DefaultMemCacheSize,
		FileHandlersCacheSize: DefaultFileHandlers,
		StateCacheTTL:         DefaultStateCacheTTL,
		SigCacheSize:          DefaultSigCacheSize,
		EventBacklogSize:      DefaultEventBacklogSize,
		PublishTimeout:        DefaultPublishTimeout,
		Redis: RedisConf{
			Channel: "ocn-events",
		},
	}
}

// MemCacheMB 把MemCacheSize换算为MB
func (t *EngineConf) MemCacheMB() (int, error) {
	size, err := units.RAMInBytes(t.MemCacheSize)
	if err != nil {
		return 0, fmt.Errorf("bad memCacheSize %q: %v", t.MemCacheSize, err)
	}
	return int(size / units.MiB), nil
}

func (t *EngineConf) loadConf(cfgFile string) error {
	if cfgFile == "" || !utils.FileIsExist(cfgFile) {
		return fmt.Errorf("config file set error.path:%s", cfgFile)
	}

	viperObj := viper.New()
	viperObj.SetConfigFile(cfgFile)
	err := viperObj.ReadInConfig()
	if err != nil {
		return fmt.Errorf("read config failed.path:%s,err:%v", cfgFile, err)
	}

	hook := viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())
	if err = viperObj.Unmarshal(t, hook); err != nil {
		return fmt.Errorf("unmatshal config failed.path:%s,err:%v", cfgFile, err)
	}

	return nil
}
