package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// GeminiConfig: Gemini 모델 설정입니다.
type GeminiConfig struct {
	APIKeys         []string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TimeoutSeconds  int
}

// PrimaryKey: 기본 API 키를 반환합니다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// Configured: 번역 호출에 필요한 자격 증명이 있는지 반환합니다.
func (g GeminiConfig) Configured() bool {
	return g.PrimaryKey() != ""
}

// SessionConfig: 댓글 작성 세션 설정입니다.
type SessionConfig struct {
	MaxSessions       int
	SessionTTLMinutes int
}

// HistoryStoreConfig: 번역 기록 저장소 연결 설정입니다.
type HistoryStoreConfig struct {
	URL                    string
	Enabled                bool
	Required               bool
	DisableCache           bool
	MaxEntries             int
	CompressThresholdBytes int
}

// GuardConfig: 번역 프롬프트에 들어갈 입력 검사 설정입니다.
// RulepacksDir 이 비어 있으면 내장 규칙을 사용합니다.
type GuardConfig struct {
	Enabled         bool
	Threshold       float64
	RulepacksDir    string
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig: API 키 인증 설정입니다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// TelemetryConfig: OpenTelemetry 설정입니다.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}

const (
	// DriverPostgres 는 PostgreSQL 사용량 저장소 드라이버다.
	DriverPostgres = "postgres"
	// DriverSQLite 는 로컬 SQLite 사용량 저장소 드라이버다.
	DriverSQLite = "sqlite"
)

// DatabaseConfig: 토큰 사용량 DB 연결 및 저장 설정입니다.
type DatabaseConfig struct {
	Driver                               string
	SQLitePath                           string
	Host                                 string
	Port                                 int
	Name                                 string
	User                                 string
	Password                             string
	MinPool                              int
	MaxPool                              int
	ConnMaxLifetimeMinutes               int
	UsageEnabled                         bool
	UsageBatchEnabled                    bool
	UsageBatchFlushIntervalSeconds       int
	UsageBatchFlushTimeoutSeconds        int
	UsageBatchMaxPendingRequests         int
	UsageBatchMaxBackoffSeconds          int
	UsageBatchErrorLogMaxIntervalSeconds int
}

// DSN: DB 접속 문자열을 반환합니다.
// sqlite 드라이버는 파일 경로를 그대로 사용합니다.
func (d DatabaseConfig) DSN() string {
	if strings.EqualFold(d.Driver, DriverSQLite) {
		return d.SQLitePath
	}
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	Gemini        GeminiConfig
	Session       SessionConfig
	HistoryStore  HistoryStoreConfig
	Guard         GuardConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Database      DatabaseConfig
	Telemetry     TelemetryConfig

	// InvalidEnv 는 해석하지 못해 기본값을 쓴 환경 변수 이름이다.
	InvalidEnv []string
}
