package ocn

import (
	"fmt"

	xconf "github.com/xuperchain/ocnledger/kernel/common/xconfig"
	"github.com/xuperchain/ocnledger/kernel/common/xcontext"
	"github.com/xuperchain/ocnledger/lib/logs"
	"github.com/xuperchain/ocnledger/lib/timer"
)

// 引擎运行上下文环境
type EngineCtx struct {
	// 基础上下文
	xcontext.BaseCtx
	// 运行环境配置
	EnvCfg *xconf.EnvConf
	// 引擎配置
	EngCfg *EngineConf
}

func NewEngineCtx(envCfg *xconf.EnvConf, engCfg *EngineConf) (*EngineCtx, error) {
	if envCfg == nil || engCfg == nil {
		return nil, fmt.Errorf("new engine ctx failed because param error")
	}

	log, err := logs.NewLogger("", BCEngineName)
	if err != nil {
		return nil, fmt.Errorf("new engine ctx failed because new logger error. err:%v", err)
	}

	ctx := new(EngineCtx)
	ctx.XLog = log
	ctx.Timer = timer.NewXTimer()
	ctx.EnvCfg = envCfg
	ctx.EngCfg = engCfg
	return ctx, nil
}
