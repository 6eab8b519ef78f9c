package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load: 환경 변수 기반 설정을 로드합니다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig: 설정을 로드하고 검증합니다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate: 설정 유효성을 검사합니다.
// API 키 누락은 오류가 아닙니다. 번역 시점에 설정 필요 안내로 처리됩니다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini model is empty")
	}
	switch strings.ToLower(c.Database.Driver) {
	case DriverPostgres:
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			return errors.New("sqlite path is empty")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.HistoryStore.MaxEntries < 0 {
		return fmt.Errorf("invalid history max entries: %d", c.HistoryStore.MaxEntries)
	}
	if c.Guard.Threshold < 0 {
		return fmt.Errorf("invalid guard threshold: %v", c.Guard.Threshold)
	}
	return nil
}

// LogEnvStatus: 환경 설정 상태를 로그로 남깁니다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	primaryKey := maskSecret(cfg.Gemini.PrimaryKey())
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", primaryKey,
		"model", cfg.Gemini.Model,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"history_store_url", cfg.HistoryStore.URL,
		"history_max_entries", cfg.HistoryStore.MaxEntries,
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"session_ttl", cfg.Session.SessionTTLMinutes,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Warn("env_missing_google_api_key")
	}
	if len(cfg.InvalidEnv) > 0 {
		logger.Warn("env_invalid_values_defaulted", "keys", cfg.InvalidEnv)
	}
}

func buildConfig() *Config {
	r := &envReader{}
	cfg := &Config{
		Gemini: GeminiConfig{
			APIKeys:         parseAPIKeys(),
			Model:           r.text("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature:     r.number("GEMINI_TEMPERATURE", 0.9),
			MaxOutputTokens: r.integer("GEMINI_MAX_TOKENS", 1024),
			TimeoutSeconds:  r.integer("GEMINI_TIMEOUT", 60),
		},
		Session: SessionConfig{
			MaxSessions:       max(1, r.integer("MAX_SESSIONS", 200)),
			SessionTTLMinutes: max(1, r.integer("SESSION_TTL_MINUTES", 60)),
		},
		HistoryStore: HistoryStoreConfig{
			URL:                    r.text("HISTORY_STORE_URL", "redis://localhost:6379"),
			Enabled:                r.flag("HISTORY_STORE_ENABLED", true),
			Required:               r.flag("HISTORY_STORE_REQUIRED", false),
			DisableCache:           r.flag("HISTORY_STORE_DISABLE_CACHE", false),
			MaxEntries:             r.count("HISTORY_MAX_ENTRIES", 100),
			CompressThresholdBytes: r.count("HISTORY_COMPRESS_THRESHOLD_BYTES", 1024),
		},
		Guard: GuardConfig{
			Enabled:         r.flag("GUARD_ENABLED", true),
			Threshold:       r.number("GUARD_THRESHOLD", 0.85),
			RulepacksDir:    r.text("RULEPACKS_DIR", ""),
			CacheMaxSize:    max(1, r.integer("GUARD_CACHE_SIZE", 1000)),
			CacheTTLSeconds: max(1, r.integer("GUARD_CACHE_TTL", 3600)),
		},
		Logging: LoggingConfig{
			Level:      r.text("LOG_LEVEL", "info"),
			LogDir:     r.text("LOG_DIR", ""),
			MaxSizeMB:  r.integer("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: r.integer("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: r.integer("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   r.flag("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         r.text("HTTP_HOST", "127.0.0.1"),
			Port:         r.integer("HTTP_PORT", 40820),
			HTTP2Enabled: r.flag("HTTP2_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: r.text("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: r.count("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, r.count("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, r.count("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Database: DatabaseConfig{
			Driver:                               strings.ToLower(r.text("DB_DRIVER", DriverSQLite)),
			SQLitePath:                           r.text("DB_SQLITE_PATH", "grandtalk.db"),
			Host:                                 r.text("DB_HOST", "localhost"),
			Port:                                 r.integer("DB_PORT", 5432),
			Name:                                 r.text("DB_NAME", "grandtalk"),
			User:                                 r.text("DB_USER", "grandtalk"),
			Password:                             r.text("DB_PASSWORD", ""),
			MinPool:                              r.integer("DB_MIN_POOL", 1),
			MaxPool:                              r.integer("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes:               r.count("DB_CONN_MAX_LIFETIME_MINUTES", 60),
			UsageEnabled:                         r.flag("DB_USAGE_ENABLED", true),
			UsageBatchEnabled:                    r.flag("DB_USAGE_BATCH_ENABLED", false),
			UsageBatchFlushIntervalSeconds:       max(1, r.count("DB_USAGE_BATCH_FLUSH_INTERVAL_SECONDS", 1)),
			UsageBatchFlushTimeoutSeconds:        max(1, r.count("DB_USAGE_BATCH_FLUSH_TIMEOUT_SECONDS", 5)),
			UsageBatchMaxPendingRequests:         max(1, r.count("DB_USAGE_BATCH_MAX_PENDING_REQUESTS", 50)),
			UsageBatchMaxBackoffSeconds:          r.count("DB_USAGE_BATCH_MAX_BACKOFF_SECONDS", 60),
			UsageBatchErrorLogMaxIntervalSeconds: r.count("DB_USAGE_BATCH_ERROR_LOG_MAX_INTERVAL_SECONDS", 60),
		},
		Telemetry: readTelemetryConfig(r),
	}
	cfg.InvalidEnv = r.invalid
	return cfg
}
