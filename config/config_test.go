package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release 模式返回 fallback，不暴露错误详情
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug 模式返回 err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig 为 nil 时返回 err.Error()（视为开发环境）
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "http://ollama:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "native", cfg.Ollama.Provider)
	assert.Equal(t, 300*time.Second, cfg.Ollama.Timeout)
	assert.InDelta(t, 0.7, cfg.Ollama.Temperature, 1e-6)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfig_ExternalFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "ollama:\n  base_url: http://gpu-box:11434/\n  provider: openai\ndatabase:\n  driver: postgres\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	defer func() { GlobalConfig = nil }()

	t.Setenv("OLLAMA_BASE_URL", "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.BaseURL, "末尾斜杠应被去掉")
	assert.Equal(t, "openai", cfg.Ollama.Provider)
	assert.Equal(t, "postgres", cfg.Database.Driver)

	// 原部署使用的环境变量
	t.Setenv("OLLAMA_BASE_URL", "http://legacy:11434")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://legacy:11434", cfg.Ollama.BaseURL)

	// 带前缀的环境变量优先
	t.Setenv("OLLAMAHUB_OLLAMA_BASE_URL", "http://prefixed:11434")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://prefixed:11434", cfg.Ollama.BaseURL)
}
