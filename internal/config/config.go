package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	// Telegram
	TelegramToken string `yaml:"telegram_token"`

	// GoDev backend
	APIBaseURL    string        `yaml:"api_base_url"`
	APITimeout    time.Duration `yaml:"api_timeout"`
	APIMaxRetries int           `yaml:"api_max_retries"`

	// Database
	PostgresDSN   string `yaml:"postgres_dsn"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Where candidate sessions and quota records live
	StorageBackend string `yaml:"storage_backend"`
	StorageDir     string `yaml:"storage_dir"`

	// Bot settings
	CheckInterval        time.Duration `yaml:"check_interval"`
	JobsPageSize         int           `yaml:"jobs_page_size"`
	QuickApplyDailyLimit int           `yaml:"quick_apply_daily_limit"`
	PremiumCheckoutURL   string        `yaml:"premium_checkout_url"`
	PremiumUserIDs       []int64       `yaml:"premium_user_ids"`
	WorkspaceIdleTTL     time.Duration `yaml:"workspace_idle_ttl"`

	// Ops
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		APIBaseURL:           "https://godev-backend.onrender.com",
		APITimeout:           30 * time.Second,
		APIMaxRetries:        3,
		StorageBackend:       StorageFile,
		StorageDir:           ".state",
		RedisAddr:            "localhost:6379",
		CheckInterval:        15 * time.Minute,
		JobsPageSize:         5,
		QuickApplyDailyLimit: 1,
		PremiumCheckoutURL:   "https://pay.kiwify.com.br/J4oFiud",
		WorkspaceIdleTTL:     6 * time.Hour,
		MetricsAddr:          ":9090",
		LogLevel:             "info",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if set),
// then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if baseURL := os.Getenv("GODEV_API_BASE_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	if timeout := os.Getenv("GODEV_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid GODEV_API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}

	if retries := os.Getenv("GODEV_API_MAX_RETRIES"); retries != "" {
		n, err := strconv.Atoi(retries)
		if err != nil {
			return fmt.Errorf("invalid GODEV_API_MAX_RETRIES: %w", err)
		}
		cfg.APIMaxRetries = n
	}

	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.StorageBackend = backend
	}

	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		cfg.StorageDir = dir
	}

	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.PostgresDSN = dsn
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.RedisPassword = password
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if interval := os.Getenv("CHECK_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
		}
		cfg.CheckInterval = d
	}

	if size := os.Getenv("JOBS_PAGE_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return fmt.Errorf("invalid JOBS_PAGE_SIZE: %w", err)
		}
		cfg.JobsPageSize = n
	}

	if limit := os.Getenv("QUICK_APPLY_DAILY_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid QUICK_APPLY_DAILY_LIMIT: %w", err)
		}
		cfg.QuickApplyDailyLimit = n
	}

	if url := os.Getenv("PREMIUM_CHECKOUT_URL"); url != "" {
		cfg.PremiumCheckoutURL = url
	}

	if ids := os.Getenv("PREMIUM_USER_IDS"); ids != "" {
		parsed, err := parseIDs(ids)
		if err != nil {
			return fmt.Errorf("invalid PREMIUM_USER_IDS: %w", err)
		}
		cfg.PremiumUserIDs = parsed
	}

	if ttl := os.Getenv("WORKSPACE_IDLE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid WORKSPACE_IDLE_TTL: %w", err)
		}
		cfg.WorkspaceIdleTTL = d
	}

	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		cfg.MetricsAddr = addr
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return nil
}

// parseIDs reads a comma separated list of Telegram user ids.
func parseIDs(list string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram token is empty")
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}

	if c.APIMaxRetries < 1 || c.APIMaxRetries > 10 {
		return fmt.Errorf("api max retries must be between 1 and 10")
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.RedisAddr == "" {
		return fmt.Errorf("redis addr is empty")
	}

	switch c.StorageBackend {
	case StorageMemory, StorageRedis, StoragePostgres:
	case StorageFile:
		if c.StorageDir == "" {
			return fmt.Errorf("storage dir is empty")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}

	if c.CheckInterval < time.Minute {
		return fmt.Errorf("check interval too small: %v", c.CheckInterval)
	}

	if c.JobsPageSize < 1 || c.JobsPageSize > 50 {
		return fmt.Errorf("jobs page size must be between 1 and 50")
	}

	if c.QuickApplyDailyLimit < 1 {
		return fmt.Errorf("quick apply daily limit must be positive")
	}

	if c.WorkspaceIdleTTL < 10*time.Minute {
		return fmt.Errorf("workspace idle ttl too small: %v", c.WorkspaceIdleTTL)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
