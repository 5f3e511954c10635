package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/xuperchain/log15"
)

var (
	logHandle LogDriver
	logOnce   sync.Once
	logMu     sync.RWMutex
)

// InitLog 初始化全局日志句柄，进程内只生效一次
func InitLog(cfgFile, logDir string) {
	logOnce.Do(func() {
		lc, err := LoadLogConf(cfgFile)
		if err != nil {
			panic(fmt.Sprintf("init log failed.err:%v", err))
		}

		driver, err := OpenLog(lc, logDir)
		if err != nil {
			panic(fmt.Sprintf("init log failed.err:%v", err))
		}

		logMu.Lock()
		logHandle = driver
		logMu.Unlock()
	})
}

// NewLogger 基于全局日志句柄创建日志对象，未初始化时输出到标准错误
func NewLogger(logId string, subMod string) (*LogFitter, error) {
	driver := getDriver()
	if subMod != "" {
		if l, ok := driver.(log.Logger); ok {
			driver = l.New("submodule", subMod)
		}
	}

	return NewLogFitter(driver, logId)
}

func getDriver() LogDriver {
	logMu.RLock()
	defer logMu.RUnlock()

	if logHandle != nil {
		return logHandle
	}
	return consoleDriver()
}

var (
	consoleOnce sync.Once
	console     log.Logger
)

func consoleDriver() LogDriver {
	consoleOnce.Do(func() {
		console = log.New("module", GetDefLogConf().Module)
		console.SetHandler(log.LvlFilterHandler(log.LvlWarn,
			log.StreamHandler(os.Stderr, log.LogfmtFormat())))
	})
	return console
}

// OpenLog create and open log stream using LogConfig
func OpenLog(lc *LogConfig, logDir string) (LogDriver, error) {
	if lc == nil {
		return nil, fmt.Errorf("log config is nil")
	}
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create log dir failed.dir:%s,err:%v", logDir, err)
	}
	infoFile := filepath.Join(logDir, lc.Filename+".log")
	wfFile := filepath.Join(logDir, lc.Filename+".log.wf")

	lfmt := log.LogfmtFormat()
	switch lc.Fmt {
	case "json":
		lfmt = log.JsonFormat()
	}

	xlog := log.New("module", lc.Module)
	lvLevel, err := log.LvlFromString(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level error.err:%v", err)
	}
	// set lowest level as level limit, this may improve performance
	xlog.SetLevelLimit(lvLevel)

	// RotateFileHandler only valid if `RotateInterval` and `RotateBackups` greater than 0
	var (
		nmHandler log.Handler
		wfHandler log.Handler
	)
	if lc.RotateInterval > 0 && lc.RotateBackups > 0 {
		nmHandler = log.Must.RotateFileHandler(
			infoFile, lfmt, lc.RotateInterval, lc.RotateBackups)
		wfHandler = log.Must.RotateFileHandler(
			wfFile, lfmt, lc.RotateInterval, lc.RotateBackups)
	} else {
		nmHandler = log.Must.FileHandler(infoFile, lfmt)
		wfHandler = log.Must.FileHandler(wfFile, lfmt)
	}

	if lc.Async {
		bufSize := lc.BufSize
		if bufSize <= 0 {
			bufSize = GetDefLogConf().BufSize
		}
		nmHandler = log.BufferedHandler(bufSize, nmHandler)
		wfHandler = log.BufferedHandler(bufSize, wfHandler)
	}

	// prints log level between `lvLevel` to Info to common log
	nmfileh := log.BoundLvlFilterHandler(lvLevel, log.LvlError, nmHandler)
	// prints log level greater or equal to Warn to wf log
	wffileh := log.LvlFilterHandler(log.LvlWarn, wfHandler)

	var lhd log.Handler
	if lc.Console {
		hstd := log.StreamHandler(os.Stderr, lfmt)
		lhd = log.SyncHandler(log.MultiHandler(hstd, nmfileh, wffileh))
	} else {
		lhd = log.SyncHandler(log.MultiHandler(nmfileh, wffileh))
	}
	xlog.SetHandler(lhd)

	return xlog, nil
}
