// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，让 config 等包按 "data/..." 路径读取默认配置。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// errNotInitialized 未调用 Init() 时返回的错误
var errNotInitialized = fmt.Errorf("embedded package not initialized, call Init() first")

// Init 初始化数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
// 测试中可以传入 fstest.MapFS
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// cleanPath 标准化路径并校验前缀
func cleanPath(path string) (string, error) {
	// embed.FS 使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")

	if !strings.HasPrefix(path, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// ReadFile 读取嵌入文件内容
// 路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, errNotInitialized
	}

	p, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在于嵌入文件系统中
func Exists(path string) bool {
	if !initialized {
		return false
	}

	p, err := cleanPath(path)
	if err != nil {
		return false
	}
	_, err = fs.Stat(dataFS, p)
	return err == nil
}
