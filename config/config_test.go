package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
		Import: ImportConfig{Workers: 4, MaxErrors: 10},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	cases := map[string]func(c *Config){
		"空密钥":      func(c *Config) { c.Auth.JWTSecret = "" },
		"密钥过短":     func(c *Config) { c.Auth.JWTSecret = "short" },
		"端口为0":     func(c *Config) { c.Server.Port = 0 },
		"端口越界":     func(c *Config) { c.Server.Port = 70000 },
		"worker为0": func(c *Config) { c.Import.Workers = 0 },
		"错误上限为0":   func(c *Config) { c.Import.MaxErrors = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
auth:
  jwt_secret: "file-secret-0123456789"
calendar:
  ical_url: "webcal://example.edu/cal.ics"
  lock_ttl: 90s
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	t.Setenv("SYNAPSE_IMPORT_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("期望端口 9090，实际 %d", cfg.Server.Port)
	}
	if cfg.Calendar.ICalURL != "webcal://example.edu/cal.ics" {
		t.Errorf("ical_url 错误: %s", cfg.Calendar.ICalURL)
	}
	if cfg.Calendar.LockTTL != 90*time.Second {
		t.Errorf("期望 lock_ttl=90s，实际 %v", cfg.Calendar.LockTTL)
	}
	if cfg.Import.Workers != 8 {
		t.Errorf("环境变量应覆盖 workers，实际 %d", cfg.Import.Workers)
	}
	if cfg.Import.MaxErrors != 10 {
		t.Errorf("期望默认 max_errors=10，实际 %d", cfg.Import.MaxErrors)
	}
	if cfg.Database.Name != "synapse" {
		t.Errorf("期望默认库名 synapse，实际 %s", cfg.Database.Name)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("缺少 jwt_secret 时应返回错误")
	}
}
