// Package config はクライアントの設定を読み込みます。
// 優先順位は 既定値 < TOMLファイル < 環境変数 (.env を含む) です。CLIフラグは呼び出し側で上書きします。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "http://localhost:5025/api"

	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config はクライアントの設定です。
type Config struct {
	APIBaseURL     string        `toml:"api_base_url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	RequestRate    float64       `toml:"request_rate"` // 1秒あたりのリクエスト数 (0 は無制限)
	LogLevel       string        `toml:"log_level"`
	SessionBackend string        `toml:"session_backend"`
	SessionFile    string        `toml:"session_file"`
	RedisURL       string        `toml:"redis_url"`
}

// Default は既定値の設定を返します。
func Default() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		SessionBackend: SessionBackendFile,
	}
}

// DefaultFilePath は既定のTOMLファイルのパスです。
func DefaultFilePath() string {
	if p := os.Getenv("TODO_CLIENT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todo-client", "config.toml")
}

// Load は .env、TOMLファイル、環境変数の順に読み込みます。
// .env とTOMLファイルが存在しない場合は無視します。
func Load(path string) (Config, error) {
	// .env はなくてもよい
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("REQUEST_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_RATE %q: %w", v, err)
		}
		cfg.RequestRate = r
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		cfg.SessionBackend = v
	}
	if v := os.Getenv("SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	return nil
}

// Validate は設定値の組み合わせを検証します。
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url is required")
	}
	switch c.SessionBackend {
	case SessionBackendFile, SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	return nil
}
