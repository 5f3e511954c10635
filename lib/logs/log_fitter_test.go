package logs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	level string
	msg   string
	ctx   []interface{}
}

type recordDriver struct {
	mu      sync.Mutex
	records []record
}

func (d *recordDriver) add(level, msg string, ctx []interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, record{level: level, msg: msg, ctx: ctx})
}

func (d *recordDriver) Error(msg string, ctx ...interface{}) { d.add("error", msg, ctx) }
func (d *recordDriver) Warn(msg string, ctx ...interface{})  { d.add("warn", msg, ctx) }
func (d *recordDriver) Info(msg string, ctx ...interface{})  { d.add("info", msg, ctx) }
func (d *recordDriver) Trace(msg string, ctx ...interface{}) { d.add("trace", msg, ctx) }
func (d *recordDriver) Debug(msg string, ctx ...interface{}) { d.add("debug", msg, ctx) }

func fieldOf(ctx []interface{}, key string) (interface{}, bool) {
	for i := 0; i+1 < len(ctx); i += 2 {
		if fmt.Sprintf("%v", ctx[i]) == key {
			return ctx[i+1], true
		}
	}
	return nil, false
}

func TestNewLogFitter(t *testing.T) {
	_, err := NewLogFitter(nil, "")
	assert.Error(t, err)

	lf, err := NewLogFitter(&recordDriver{}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, lf.GetLogId())
}

func TestLogFitterFields(t *testing.T) {
	driver := &recordDriver{}
	lf, err := NewLogFitter(driver, "abc")
	require.NoError(t, err)

	lf.SetCommField("contract", "Registry")
	lf.SetInfoField("method", "register")
	lf.Info("first", "a", 1)
	lf.Info("second")
	lf.Warn("odd", 1)
	lf.Debug("override", "log_id", "xyz")

	require.Len(t, driver.records, 4)

	first := driver.records[0].ctx
	v, ok := fieldOf(first, CommFieldLogId)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	v, _ = fieldOf(first, "contract")
	assert.Equal(t, "Registry", v)
	v, _ = fieldOf(first, "method")
	assert.Equal(t, "register", v)
	_, ok = fieldOf(first, CommFieldCall)
	assert.True(t, ok)

	// info字段只输出一次
	_, ok = fieldOf(driver.records[1].ctx, "method")
	assert.False(t, ok)

	v, _ = fieldOf(driver.records[2].ctx, "unknow")
	assert.Equal(t, 1, v)

	v, _ = fieldOf(driver.records[3].ctx, CommFieldLogId)
	assert.Equal(t, "xyz", v)
}

func TestLogFitterConcurrent(t *testing.T) {
	driver := &recordDriver{}
	lf, err := NewLogFitter(driver, "")
	require.NoError(t, err)

	wg := &sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			lf.SetInfoField("num", num)
			lf.Info("info", "num", num)
			lf.Debug("debug", "num", num)
		}(i)
	}
	wg.Wait()
	assert.Len(t, driver.records, 16)
}

func TestNewLoggerWithoutInit(t *testing.T) {
	lf, err := NewLogger("", "test")
	require.NoError(t, err)
	lf.Debug("not printed")
}
