package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config はアプリケーション全体の設定です。環境変数（と .env ファイル）から読み込まれます。
type Config struct {
	Rows            int
	Cols            int
	ClearDelay      time.Duration
	HistoryLimit    int
	DoubleTapWindow time.Duration
	Seed            int64 // 0 の場合は現在時刻を使う
	LogLevel        zerolog.Level
	LogFormat       string // "json" または "console"
}

// LoadDotEnv は本番環境以外で .env ファイルを読み込みます。
// ファイルがなくてもエラーにはせず、警告として返すだけです。
func LoadDotEnv(paths ...string) error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	return godotenv.Load(paths...)
}

// Load は環境変数から設定を読み込みます。未設定の項目には既定値を使います。
func Load() (*Config, error) {
	cfg := &Config{LogFormat: "json"}
	var err error

	if cfg.Rows, err = intEnv("PUZZLE_ROWS", 10, 1); err != nil {
		return nil, err
	}
	if cfg.Cols, err = intEnv("PUZZLE_COLS", 14, 1); err != nil {
		return nil, err
	}
	ms, err := intEnv("PUZZLE_CLEAR_DELAY_MS", 500, 0)
	if err != nil {
		return nil, err
	}
	cfg.ClearDelay = time.Duration(ms) * time.Millisecond
	if cfg.HistoryLimit, err = intEnv("PUZZLE_HISTORY_LIMIT", 10, 1); err != nil {
		return nil, err
	}
	if ms, err = intEnv("PUZZLE_DOUBLE_TAP_MS", 300, 1); err != nil {
		return nil, err
	}
	cfg.DoubleTapWindow = time.Duration(ms) * time.Millisecond

	if v := os.Getenv("PUZZLE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("PUZZLE_SEED の値が不正です (%q): %w", v, err)
		}
		cfg.Seed = seed
	}

	cfg.LogLevel = zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := zerolog.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL の値が不正です (%q): %w", v, err)
		}
		cfg.LogLevel = lvl
	}

	switch v := os.Getenv("LOG_FORMAT"); v {
	case "":
	case "json", "console":
		cfg.LogFormat = v
	default:
		return nil, fmt.Errorf("LOG_FORMAT は json または console である必要があります: %q", v)
	}

	return cfg, nil
}

// intEnv は整数の環境変数を読み込みます。未設定なら def、minimum 未満ならエラーです。
func intEnv(key string, def, minimum int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s の値が不正です (%q): %w", key, v, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("%s は %d 以上である必要があります: %d", key, minimum, n)
	}
	return n, nil
}
