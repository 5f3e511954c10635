package xutils

import (
	"os"

	"github.com/xuperchain/ocnledger/lib/utils"
)

const (
	// XEnvVarRootPath 设置后优先从该目录加载配置和数据
	XEnvVarRootPath = "X_ROOT_PATH"
)

// GetXRootPath 读取环境变量X_ROOT_PATH，未设置或目录不存在时返回空
func GetXRootPath() string {
	rtPath := os.Getenv(XEnvVarRootPath)
	if rtPath != "" && utils.FileIsExist(rtPath) {
		return rtPath
	}

	return ""
}

// GetCurRootDir 当前bin文件的上级目录
func GetCurRootDir() string {
	return utils.GetCurExecDir() + "/.."
}
