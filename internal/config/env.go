package config

import (
	"os"
	"strconv"
	"strings"
)

func parseAPIKeys() []string {
	if keys := splitKeys(os.Getenv("GOOGLE_API_KEYS")); len(keys) > 0 {
		return keys
	}
	for _, name := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return []string{key}
		}
	}
	return nil
}

func splitKeys(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// envReader 는 환경 변수를 읽으며 해석하지 못한 키를 모은다.
// 잘못된 값은 기본값으로 대체되고 시작 로그에 경고로 남는다.
type envReader struct {
	invalid []string
}

func (r *envReader) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func (r *envReader) text(key string, def string) string {
	if value, ok := r.lookup(key); ok {
		return value
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.invalid = append(r.invalid, key)
		return def
	}
	return parsed
}

// count 는 음수를 0 으로 올린다.
func (r *envReader) count(key string, def int) int {
	return max(0, r.integer(key, def))
}

func (r *envReader) number(key string, def float64) float64 {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.invalid = append(r.invalid, key)
		return def
	}
	return parsed
}

func (r *envReader) flag(key string, def bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		r.invalid = append(r.invalid, key)
		return def
	}
}

func maskSecret(value string) string {
	switch {
	case value == "":
		return "<missing>"
	case len(value) <= 4:
		return strings.Repeat("*", len(value))
	default:
		return value[:2] + "***" + value[len(value)-2:]
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readTelemetryConfig: OpenTelemetry 설정을 환경 변수에서 읽습니다.
func readTelemetryConfig(r *envReader) TelemetryConfig {
	return TelemetryConfig{
		Enabled:        r.flag("OTEL_ENABLED", false),
		ServiceName:    r.text("OTEL_SERVICE_NAME", "grandtalk-server"),
		ServiceVersion: r.text("OTEL_SERVICE_VERSION", "1.0.0"),
		Environment:    r.text("OTEL_ENVIRONMENT", "production"),
		OTLPEndpoint:   r.text("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),
		OTLPInsecure:   r.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
		SampleRate:     r.number("OTEL_SAMPLE_RATE", 1.0),
	}
}
