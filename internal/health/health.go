// Package health 는 /health 엔드포인트가 보여 줄 구성 요소 상태를 모은다.
package health

import (
	"context"
	"time"

	"github.com/park285/grandtalk-server-go/internal/config"
)

const deepCheckTimeout = 2 * time.Second

// HistoryProbe 는 기록 저장소 상태 확인에 필요한 기능이다.
type HistoryProbe interface {
	Backend() string
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// SessionCounter 는 활성 세션 수를 반환한다.
type SessionCounter interface {
	Count() int
}

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Checker 는 구성 요소 상태를 수집한다.
type Checker struct {
	cfg       *config.Config
	history   HistoryProbe
	sessions  SessionCounter
	startedAt time.Time
}

// NewChecker 는 Checker 를 생성한다. history, sessions 는 nil 이어도 된다.
func NewChecker(cfg *config.Config, history HistoryProbe, sessions SessionCounter) *Checker {
	return &Checker{
		cfg:       cfg,
		history:   history,
		sessions:  sessions,
		startedAt: time.Now(),
	}
}

// Collect 는 헬스 상태를 수집한다. deepChecks 가 false 면 외부 저장소에 접속하지 않는다.
// API 키가 없으면 degraded 다. 화면은 설정 안내로 동작하므로 서버는 계속 응답한다.
func (c *Checker) Collect(ctx context.Context, deepChecks bool) Response {
	if ctx == nil {
		ctx = context.Background()
	}
	components := map[string]Component{
		"app":      c.appStatus(),
		"gemini":   c.geminiStatus(),
		"history":  c.historyStatus(ctx, deepChecks),
		"sessions": c.sessionStatus(),
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
	}
}

func (c *Checker) appStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(c.startedAt).Seconds()),
		},
	}
}

func (c *Checker) geminiStatus() Component {
	detail := map[string]any{
		"api_key_present": false,
		"api_key_count":   0,
		"model":           "",
		"timeout_seconds": 0,
	}
	status := "degraded"
	if c.cfg != nil {
		detail["api_key_present"] = c.cfg.Gemini.Configured()
		detail["api_key_count"] = len(c.cfg.Gemini.APIKeys)
		detail["model"] = c.cfg.Gemini.Model
		detail["timeout_seconds"] = c.cfg.Gemini.TimeoutSeconds
		if c.cfg.Gemini.Configured() {
			status = "ok"
		}
	}
	return Component{Status: status, Detail: detail}
}

func (c *Checker) historyStatus(ctx context.Context, deepChecks bool) Component {
	if c.history == nil {
		return Component{Status: "ok", Detail: map[string]any{"backend": "none"}}
	}

	detail := map[string]any{
		"backend":      c.history.Backend(),
		"deep_checked": deepChecks,
	}
	if c.cfg != nil {
		detail["max_entries"] = c.cfg.HistoryStore.MaxEntries
	}
	if !deepChecks {
		return Component{Status: "ok", Detail: detail}
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deepCheckTimeout)
	defer cancel()

	if err := c.history.Ping(checkCtx); err != nil {
		detail["connected"] = false
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	detail["connected"] = true
	count, err := c.history.Count(checkCtx)
	if err != nil {
		detail["count_error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	detail["entry_count"] = count
	return Component{Status: "ok", Detail: detail}
}

func (c *Checker) sessionStatus() Component {
	detail := map[string]any{"active": 0}
	if c.sessions != nil {
		detail["active"] = c.sessions.Count()
	}
	if c.cfg != nil {
		detail["max_sessions"] = c.cfg.Session.MaxSessions
		detail["ttl_minutes"] = c.cfg.Session.SessionTTLMinutes
	}
	return Component{Status: "ok", Detail: detail}
}
