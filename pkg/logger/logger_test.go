package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chinkunlim/Project-Synapse/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("%s 格式初始化失败: %v", format, err)
		}
		if !l.Core().Enabled(-1) {
			t.Errorf("%s 格式应启用 debug 级别", format)
		}
	}

	if _, err := NewLogger(&config.LogConfig{Level: "verbose"}); err == nil {
		t.Error("无效日志级别应返回错误")
	}
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger(&config.LogConfig{Level: "info", Format: "json", Output: []string{path}})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	l.Info("导入完成")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), `"service":"synapse"`) {
		t.Errorf("日志应带 service 字段，实际 %s", data)
	}
}
