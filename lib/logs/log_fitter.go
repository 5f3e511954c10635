package logs

import (
	"fmt"
	"os"
	"sync"

	"github.com/xuperchain/ocnledger/lib/utils"
)

// Reserve common key
const (
	CommFieldLogId = "log_id"
	CommFieldPid   = "pid"
	CommFieldCall  = "call"
)

const (
	DefaultCallDepth = 4
)

// 底层日志库约束接口
type LogDriver interface {
	Error(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
}

// 在日志库之上做一层轻量级封装，方便日志字段组装和日志库替换
type Logger interface {
	GetLogId() string
	SetCommField(key string, value interface{})
	SetInfoField(key string, value interface{})
	Error(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
}

// LogFitter 为每条日志补充log_id、call、pid公共字段
type LogFitter struct {
	logger     LogDriver
	logId      string
	pid        int
	callDepth  int
	fieldLck   sync.RWMutex
	commFields []interface{}
	infoFields []interface{}
}

func NewLogFitter(logger LogDriver, logId string) (*LogFitter, error) {
	if logger == nil {
		return nil, fmt.Errorf("new logger param error")
	}
	if logId == "" {
		logId = utils.GenLogId()
	}

	return &LogFitter{
		logger:     logger,
		logId:      logId,
		pid:        os.Getpid(),
		callDepth:  DefaultCallDepth,
		commFields: make([]interface{}, 0),
		infoFields: make([]interface{}, 0),
	}, nil
}

func (t *LogFitter) GetLogId() string {
	return t.logId
}

// SetCommField 设置的字段会出现在之后的每一条日志中
func (t *LogFitter) SetCommField(key string, value interface{}) {
	if key == "" || value == nil {
		return
	}

	t.fieldLck.Lock()
	defer t.fieldLck.Unlock()
	t.commFields = append(t.commFields, key, value)
}

// SetInfoField 设置的字段只会出现在下一条Info日志中
func (t *LogFitter) SetInfoField(key string, value interface{}) {
	if key == "" || value == nil {
		return
	}

	t.fieldLck.Lock()
	defer t.fieldLck.Unlock()
	t.infoFields = append(t.infoFields, key, value)
}

func (t *LogFitter) Error(msg string, ctx ...interface{}) {
	t.logger.Error(msg, t.fmtLogger(false, ctx...)...)
}

func (t *LogFitter) Warn(msg string, ctx ...interface{}) {
	t.logger.Warn(msg, t.fmtLogger(false, ctx...)...)
}

func (t *LogFitter) Info(msg string, ctx ...interface{}) {
	t.logger.Info(msg, t.fmtLogger(true, ctx...)...)
}

func (t *LogFitter) Trace(msg string, ctx ...interface{}) {
	t.logger.Trace(msg, t.fmtLogger(false, ctx...)...)
}

func (t *LogFitter) Debug(msg string, ctx ...interface{}) {
	t.logger.Debug(msg, t.fmtLogger(false, ctx...)...)
}

func (t *LogFitter) genBaseField() []interface{} {
	fileLine, _ := utils.GetFuncCall(t.callDepth)

	// 保持log_id是第一个写入，方便替换
	return []interface{}{
		CommFieldLogId, t.logId,
		CommFieldCall, fileLine,
		CommFieldPid, t.pid,
	}
}

func (t *LogFitter) fmtLogger(withInfo bool, ctx ...interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		last := ctx[len(ctx)-1]
		ctx = ctx[:len(ctx)-1]
		ctx = append(ctx, "unknow", last)
	}

	comCtx := t.genBaseField()
	// 如果设置了log_id，用设置的log_id替换公共字段
	if len(ctx) > 1 && fmt.Sprintf("%v", ctx[0]) == CommFieldLogId {
		comCtx[1] = ctx[1]
		ctx = ctx[2:]
	}

	t.fieldLck.Lock()
	comCtx = append(comCtx, t.commFields...)
	if withInfo {
		comCtx = append(comCtx, t.infoFields...)
		t.infoFields = t.infoFields[:0]
	}
	t.fieldLck.Unlock()

	return append(comCtx, ctx...)
}
