package ocn

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/common/xconfig"
	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/kernel"
	"github.com/xuperchain/ocnledger/kernel/engines"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/event"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/ownership"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/permissions"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/registry"
	"github.com/xuperchain/ocnledger/kernel/engines/ocn/sigauth"
	"github.com/xuperchain/ocnledger/lib/logs"
	"github.com/xuperchain/ocnledger/lib/metrics"
	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
	"github.com/xuperchain/ocnledger/lib/timer"

	// 注册kv引擎
	_ "github.com/xuperchain/ocnledger/lib/storage/kvdb/badger"
	_ "github.com/xuperchain/ocnledger/lib/storage/kvdb/leveldb"
)

const BCEngineName = "ocn"

// Engine OCN身份和权限账本的宿主
// 所有写操作串行执行：读已提交状态 -> 执行合约方法 -> 一次性提交写集 -> 按顺序发布事件
type Engine struct {
	engCtx *EngineCtx
	log    logs.Logger

	// 写操作互斥，查询共享
	mutex sync.RWMutex
	// 事件投递互斥，在释放mutex之前获取，保证按提交顺序投递
	pubMutex sync.Mutex

	store    kvdb.Database
	state    *committedState
	registry contract.KernRegistry
	router   *event.Router
	redis    *event.RedisSink

	ownerMgr *ownership.Manager
	regMgr   *registry.Manager
	permMgr  *permissions.Manager

	closeOnce sync.Once
}

func NewOCNEngine() engines.BCEngine {
	return &Engine{}
}

// 向工厂注册自己的创建方法
func init() {
	engines.Register(BCEngineName, NewOCNEngine)
}

// EngineConvert 转换引擎句柄类型
func EngineConvert(engine engines.BCEngine) (*Engine, error) {
	if engine == nil {
		return nil, fmt.Errorf("transfer engine type failed because param is nil")
	}

	if v, ok := engine.(*Engine); ok {
		return v, nil
	}

	return nil, fmt.Errorf("transfer engine type failed by type assert")
}

// Init 按环境配置加载引擎配置并初始化，工厂创建引擎时调用
func (e *Engine) Init(envCfg *xconfig.EnvConf) error {
	engCfg, err := LoadEngineConf(envCfg.GenConfFilePath(envCfg.EngineConf))
	if err != nil {
		return fmt.Errorf("init engine failed because load engine config failed.err:%v", err)
	}
	return e.InitWithConf(envCfg, engCfg)
}

// InitWithConf 使用给定的引擎配置初始化，单测和嵌入式使用
func (e *Engine) InitWithConf(envCfg *xconfig.EnvConf, engCfg *EngineConf) error {
	engCtx, err := NewEngineCtx(envCfg, engCfg)
	if err != nil {
		return fmt.Errorf("init engine failed because create engine ctx failed.err:%v", err)
	}
	e.engCtx = engCtx
	e.log = engCtx.XLog

	if err := e.openStore(); err != nil {
		return fmt.Errorf("init engine failed because open store failed.err:%v", err)
	}
	e.log.Trace("init open store succ")

	if err := e.initRouter(); err != nil {
		e.Exit()
		return fmt.Errorf("init engine failed because init event router failed.err:%v", err)
	}

	if err := e.initContracts(); err != nil {
		e.Exit()
		return fmt.Errorf("init engine failed because init contracts failed.err:%v", err)
	}
	e.log.Trace("init register kernel contracts succ")

	if envCfg.MetricSwitch {
		metrics.RegisterMetrics()
	}

	if err := e.bootstrapOwner(); err != nil {
		e.Exit()
		return fmt.Errorf("init engine failed because bootstrap owner failed.err:%v", err)
	}

	e.log.Trace("init engine succ")
	return nil
}

func (e *Engine) openStore() error {
	cfg := e.engCtx.EngCfg
	memCache, err := cfg.MemCacheMB()
	if err != nil {
		return err
	}

	param := &kvdb.KVParameter{
		DBPath:                e.engCtx.EnvCfg.GenDataAbsPath(cfg.DBDir),
		KVEngineType:          cfg.KVEngineType,
		StorageType:           cfg.StorageType,
		MemCacheSize:          memCache,
		FileHandlersCacheSize: cfg.FileHandlersCacheSize,
	}
	store, err := kvdb.CreateKVInstance(param)
	if err != nil {
		return err
	}

	ttl := cfg.StateCacheTTL
	if ttl <= 0 {
		ttl = DefaultStateCacheTTL
	}
	e.store = store
	e.state = newCommittedState(store, cache.New(ttl, 2*ttl))
	return nil
}

func (e *Engine) initRouter() error {
	cfg := e.engCtx.EngCfg
	e.router = event.NewRouter(cfg.EventBacklogSize, e.log)
	e.router.AddSink(event.NewLogSink(e.log))

	if cfg.Redis.URL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sink, err := event.DialRedisSink(ctx, cfg.Redis.URL, cfg.Redis.Channel)
	if err != nil {
		return err
	}
	e.redis = sink
	e.router.AddSink(sink)
	return nil
}

func (e *Engine) initContracts() error {
	var auth sigauth.Authorizer = sigauth.NewEcdsaAuthorizer()
	if size := e.engCtx.EngCfg.SigCacheSize; size > 0 {
		auth = sigauth.NewCachedAuthorizer(auth, size)
	}
	e.registry = kernel.NewRegistry()

	ownerCtx, err := ownership.NewOwnershipCtx()
	if err != nil {
		return err
	}
	e.ownerMgr, err = ownership.NewManager(ownerCtx, e.registry)
	if err != nil {
		return err
	}

	regCtx, err := registry.NewRegistryCtx()
	if err != nil {
		return err
	}
	e.regMgr, err = registry.NewManager(regCtx, e.registry, e.ownerMgr.Guard, auth)
	if err != nil {
		return err
	}

	permCtx, err := permissions.NewPermissionsCtx()
	if err != nil {
		return err
	}
	e.permMgr, err = permissions.NewManager(permCtx, e.registry, auth)
	return err
}

// bootstrapOwner 经过与普通调用相同的提交和事件路径写入初始owner
func (e *Engine) bootstrapOwner() error {
	initialOwner := common.AbsentIdentity
	if s := e.engCtx.EngCfg.InitialOwner; s != "" {
		var err error
		initialOwner, err = common.ParseIdentity(s)
		if err != nil {
			return err
		}
	}

	guard := e.ownerMgr.Guard
	initFn := func(ctx contract.KContext) (*contract.Response, error) {
		if err := guard.Init(ctx, initialOwner); err != nil {
			return nil, err
		}
		return &contract.Response{Status: common.StatusSuccess}, nil
	}
	_, err := e.execute(context.Background(), ownership.ContractName, "init", "", nil, initFn, true)
	return err
}

// Invoke 执行一次写操作，失败时状态和事件都不生效
func (e *Engine) Invoke(ctx context.Context, initiator, contractName, method string,
	args map[string][]byte) (*contract.Response, error) {
	kMethod, err := e.registry.GetKernMethod(contractName, method)
	if err != nil {
		return nil, errors.Wrap(common.ErrInvalidArgument, err.Error())
	}
	return e.execute(ctx, contractName, method, initiator, args, kMethod, true)
}

// Query 在已提交状态上执行方法，修改和事件全部丢弃
func (e *Engine) Query(ctx context.Context, contractName, method string,
	args map[string][]byte) (*contract.Response, error) {
	kMethod, err := e.registry.GetKernMethod(contractName, method)
	if err != nil {
		return nil, errors.Wrap(common.ErrInvalidArgument, err.Error())
	}
	return e.execute(ctx, contractName, method, "", args, kMethod, false)
}

func (e *Engine) execute(ctx context.Context, contractName, method, initiator string,
	args map[string][]byte, kMethod contract.KernMethod, commit bool) (*contract.Response, error) {
	if !commit {
		e.mutex.RLock()
		defer e.mutex.RUnlock()
		resp, _, err := e.run(contractName, method, initiator, args, kMethod, timer.NewXTimer())
		return resp, err
	}

	e.mutex.Lock()
	xt := timer.NewXTimer()
	resp, kctx, err := e.run(contractName, method, initiator, args, kMethod, xt)
	if err != nil {
		e.mutex.Unlock()
		return nil, err
	}
	if err := e.state.commit(kctx.RWSet()); err != nil {
		e.mutex.Unlock()
		e.log.Error("commit state failed", "contract", contractName, "method", method, "err", err)
		return nil, err
	}
	xt.Mark("commit")

	// 投递期间查询和下一次执行不再等待，投递顺序仍与提交顺序一致
	e.pubMutex.Lock()
	e.mutex.Unlock()
	defer e.pubMutex.Unlock()

	e.publish(ctx, kctx.events)
	xt.Mark("publish")

	e.log.Debug("contract method invoked", "contract", contractName, "method", method,
		"initiator", initiator, "events", len(kctx.events), "timer", xt.Print())
	return resp, nil
}

// run 在新的沙盒上执行合约方法，调用方持有mutex
func (e *Engine) run(contractName, method, initiator string, args map[string][]byte,
	kMethod contract.KernMethod, xt *timer.XTimer) (*contract.Response, *kcontextImpl, error) {
	kctx := newKContext(e.state, initiator, args)
	resp, err := kMethod(kctx)
	xt.Mark("exec")

	code := common.StatusOf(err)
	metrics.ContractInvokeCounter.WithLabelValues(contractName, method, strconv.Itoa(code)).Inc()
	metrics.ContractInvokeHistogram.WithLabelValues(contractName, method).Observe(xt.Total().Seconds())
	if err != nil {
		e.log.Debug("contract method failed", "contract", contractName, "method", method,
			"initiator", initiator, "code", code, "err", err)
		return nil, nil, err
	}
	return resp, kctx, nil
}

// publish 投递失败只记录日志，状态已经提交
func (e *Engine) publish(ctx context.Context, events []*contract.Event) {
	if len(events) == 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := e.engCtx.EngCfg.PublishTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if _, err := e.router.Publish(ctx, events); err != nil {
		e.log.Warn("publish events failed", "count", len(events), "err", err)
	}
}

// Subscribe 订阅afterSeq之后的事件
func (e *Engine) Subscribe(afterSeq uint64, bufSize int) (<-chan *event.Envelope, func()) {
	return e.router.Subscribe(afterSeq, bufSize)
}

// AddSink 增加事件投递目标
func (e *Engine) AddSink(sink event.Sink) {
	e.router.AddSink(sink)
}

func (e *Engine) Context() *EngineCtx {
	return e.engCtx
}

// Exit 关闭存储和事件连接，需要幂等
func (e *Engine) Exit() {
	e.closeOnce.Do(func() {
		e.mutex.Lock()
		defer e.mutex.Unlock()
		e.pubMutex.Lock()
		defer e.pubMutex.Unlock()

		if e.redis != nil {
			if err := e.redis.Close(); err != nil {
				e.log.Warn("close redis sink failed", "err", err)
			}
		}
		if e.store != nil {
			if err := e.store.Close(); err != nil {
				e.log.Warn("close store failed", "err", err)
			}
		}
		e.log.Trace("engine exit")
	})
}
