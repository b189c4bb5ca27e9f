package util

// 出题来源
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// 退回题库的原因，用作日志字段和监控标签
const (
	ReasonNoCredential = "no_credential"
	ReasonThrottled    = "throttled"
	ReasonTimeout      = "timeout"
	ReasonEmpty        = "empty"
	ReasonUnavailable  = "unavailable"
)

// 前端动作
const (
	ActionSkip = "skip"
	ActionDone = "done"
	ActionNone = "none"
)
