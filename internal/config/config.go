package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds paths and backend settings for prefcenter.
type Config struct {
	LogDir       string `validate:"required"`
	StoreDir     string `validate:"required"`
	StoreBackend string `validate:"oneof=file memory redis"`
	RedisURL     string `validate:"required_if=StoreBackend redis"`
	Markup       string `validate:"required"`
	Resources    string
	LogLevel     string `validate:"oneof=debug info warn error"`
	MaxLogs      int    `validate:"gte=1"`
}

const (
	defaultConfigPath   = "~/.config/prefcenter/config.toml"
	defaultLogDir       = "~/.local/share/prefcenter/logs"
	defaultStoreDir     = "~/.config/prefcenter/store"
	defaultMarkup       = "~/.config/prefcenter/preferences.xml"
	defaultResources    = "~/.config/prefcenter/resources.toml"
	defaultStoreBackend = "file"
	defaultLogLevel     = "info"
	defaultMaxLogs      = 100

	envPrefix = "PREFCENTER_"
	envFile   = ".env"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type fileConfig struct {
	LogDir       string `toml:"log_dir"`
	StoreDir     string `toml:"store_dir"`
	StoreBackend string `toml:"store_backend"`
	RedisURL     string `toml:"redis_url"`
	Markup       string `toml:"markup"`
	Resources    string `toml:"resources"`
	LogLevel     string `toml:"log_level"`
	MaxLogs      int    `toml:"max_logs"`
}

// Load reads the config file, applies environment overrides and validates the
// result. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	if err := applyEnv(&raw); err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogDir:       mustExpand(orDefault(raw.LogDir, defaultLogDir)),
		StoreDir:     mustExpand(orDefault(raw.StoreDir, defaultStoreDir)),
		StoreBackend: strings.ToLower(orDefault(raw.StoreBackend, defaultStoreBackend)),
		RedisURL:     strings.TrimSpace(raw.RedisURL),
		Markup:       mustExpand(orDefault(raw.Markup, defaultMarkup)),
		Resources:    mustExpand(orDefault(raw.Resources, defaultResources)),
		LogLevel:     strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel)),
		MaxLogs:      raw.MaxLogs,
	}
	if cfg.MaxLogs == 0 {
		cfg.MaxLogs = defaultMaxLogs
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func applyEnv(raw *fileConfig) error {
	strs := map[string]*string{
		"LOG_DIR":       &raw.LogDir,
		"STORE_DIR":     &raw.StoreDir,
		"STORE_BACKEND": &raw.StoreBackend,
		"REDIS_URL":     &raw.RedisURL,
		"MARKUP":        &raw.Markup,
		"RESOURCES":     &raw.Resources,
		"LOG_LEVEL":     &raw.LogLevel,
	}
	for name, field := range strs {
		if v, ok := lookupEnv(name); ok {
			*field = v
		}
	}
	if v, ok := lookupEnv("MAX_LOGS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_LOGS: %w", envPrefix, err)
		}
		raw.MaxLogs = n
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func orDefault(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
