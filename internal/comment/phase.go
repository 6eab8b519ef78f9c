package comment

// Phase 는 댓글 작성 화면의 단계다.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseReady       Phase = "ready"
	PhaseTranslating Phase = "translating"
	PhaseResult      Phase = "result"
)
