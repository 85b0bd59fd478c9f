package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ustclug/revlines/pkg/revlines"
	"github.com/ustclug/revlines/pkg/utils"
)

type AppConfig struct {
	Debug bool `mapstructure:"debug,omitempty" validate:"-"`
	// DbURL is the path of the sqlite database holding scan statistics
	DbURL      string `mapstructure:"db_url,omitempty" validate:"-"`
	LogDir     string `mapstructure:"log_dir,omitempty" validate:"required"`
	LogLevel   string `mapstructure:"log_level,omitempty" validate:"omitempty,eq=debug|eq=info|eq=warn|eq=error"`
	ListenAddr string `mapstructure:"listen_addr,omitempty" validate:"omitempty,hostname_port"`
	BufferSize string `mapstructure:"buffer_size,omitempty" validate:"-"`
	// MaxBufferSize caps the bufferSize a client may request
	MaxBufferSize string        `mapstructure:"max_buffer_size,omitempty" validate:"-"`
	DefaultLimit  int           `mapstructure:"default_limit,omitempty" validate:"omitempty,min=1,max=10000"`
	CursorTTL     time.Duration `mapstructure:"cursor_ttl,omitempty" validate:"omitempty,gte=0"`
	ReapInterval  string        `mapstructure:"reap_interval,omitempty" validate:"omitempty,cron"`
}

type Config struct {
	Debug         bool
	DbURL         string
	LogDir        string
	LogLevel      slog.Level
	ListenAddr    string
	BufferSize    int
	MaxBufferSize int
	DefaultLimit  int
	CursorTTL     time.Duration
	ReapInterval  string
}

var DefaultServerConfig = Config{
	DbURL:         ":memory:",
	LogLevel:      slog.LevelInfo,
	ListenAddr:    "127.0.0.1:9998",
	BufferSize:    revlines.DefaultBufferSize,
	MaxBufferSize: 1 << 20,
	DefaultLimit:  100,
	CursorTTL:     5 * time.Minute,
	ReapInterval:  "@every 1m",
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("revlines")
	v.AutomaticEnv()
	d := DefaultServerConfig
	v.SetDefault("db_url", d.DbURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("buffer_size", units.BytesSize(float64(d.BufferSize)))
	v.SetDefault("max_buffer_size", units.BytesSize(float64(d.MaxBufferSize)))
	v.SetDefault("default_limit", d.DefaultLimit)
	v.SetDefault("cursor_ttl", d.CursorTTL)
	v.SetDefault("reap_interval", d.ReapInterval)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	appCfg := new(AppConfig)
	if err := v.Unmarshal(appCfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(appCfg); err != nil {
		return nil, err
	}
	bufSize, err := utils.ParseSize(appCfg.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("buffer_size: %w", err)
	}
	maxBufSize, err := utils.ParseSize(appCfg.MaxBufferSize)
	if err != nil {
		return nil, fmt.Errorf("max_buffer_size: %w", err)
	}
	if bufSize > maxBufSize {
		return nil, fmt.Errorf("buffer_size %s exceeds max_buffer_size %s", appCfg.BufferSize, appCfg.MaxBufferSize)
	}
	cfg := Config{
		Debug:         appCfg.Debug,
		DbURL:         appCfg.DbURL,
		LogDir:        appCfg.LogDir,
		ListenAddr:    appCfg.ListenAddr,
		BufferSize:    bufSize,
		MaxBufferSize: maxBufSize,
		DefaultLimit:  appCfg.DefaultLimit,
		CursorTTL:     appCfg.CursorTTL,
		ReapInterval:  appCfg.ReapInterval,
	}

	switch appCfg.LogLevel {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	case "info":
		fallthrough
	default:
		cfg.LogLevel = slog.LevelInfo
	}

	return &cfg, nil
}
