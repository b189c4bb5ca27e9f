package util

import "errors"

var (
	ErrAIDisabled      = errors.New("ai generation disabled: no api key configured")
	ErrAIThrottled     = errors.New("ai generation throttled")
	ErrAITimeout       = errors.New("ai generation timed out")
	ErrAIEmptyResponse = errors.New("ai returned an empty question")
	ErrAIUnavailable   = errors.New("ai provider unavailable")
)
