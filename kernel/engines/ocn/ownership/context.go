package ownership

import (
	"fmt"

	"github.com/xuperchain/ocnledger/kernel/common/xcontext"
	"github.com/xuperchain/ocnledger/lib/logs"
	"github.com/xuperchain/ocnledger/lib/timer"
)

type Context struct {
	// 基础上下文
	xcontext.BaseCtx
}

func NewOwnershipCtx() (*Context, error) {
	log, err := logs.NewLogger("", ContractName)
	if err != nil {
		return nil, fmt.Errorf("new ownership ctx failed because new logger error. err:%v", err)
	}

	ctx := new(Context)
	ctx.XLog = log
	ctx.Timer = timer.NewXTimer()
	return ctx, nil
}
