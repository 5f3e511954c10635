package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"
)

var (
	seedOnce sync.Once
	randMu   sync.Mutex
	randSrc  *rand.Rand
)

// FileIsExist reports whether the named file or directory exists.
func FileIsExist(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}

	return true
}

// GenPseudoUniqId 生成伪唯一id，冲突概率很低，只用于日志和追踪
func GenPseudoUniqId() uint64 {
	seedOnce.Do(func() {
		randSrc = rand.New(rand.NewSource(time.Now().UnixNano()))
	})

	randMu.Lock()
	randNum1 := randSrc.Int63()
	randNum2 := randSrc.Int63()
	shift1 := randSrc.Intn(16) + 2
	shift2 := randSrc.Intn(8) + 1
	randMu.Unlock()

	nano := time.Now().UnixNano()
	uId := ((randNum1 >> uint(shift1)) + (randNum2 >> uint(shift2)) + (nano >> 1)) &
		0x1FFFFFFFFFFFFF
	return uint64(uId)
}

// GenLogId generate log id, not strictly unique.
func GenLogId() string {
	return fmt.Sprintf("%d_%d", time.Now().Unix(), GenPseudoUniqId())
}

// GetFuncCall return "file:line" and function name of the caller at callDepth
func GetFuncCall(callDepth int) (string, string) {
	pc, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		return "???:0", "???"
	}

	f := runtime.FuncForPC(pc)
	_, function := path.Split(f.Name())
	_, filename := path.Split(file)

	fline := filename + ":" + strconv.Itoa(line)
	return fline, function
}

// 获取当前源文件目录
func GetCurFileDir() string {
	_, filename, _, _ := runtime.Caller(1)
	return path.Dir(filename)
}

// 获取当前执行目录
func GetCurExecDir() string {
	curDir, _ := filepath.Abs(filepath.Dir(os.Args[0]))
	return curDir
}

// F print byte slice data as hex string
func F(b []byte) string {
	return fmt.Sprintf("%x", b)
}
