package service

import (
	"context"
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/util"
	"deep_card_backend/pkg/monitoring"
	"deep_card_backend/pkg/tracing"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	AITemperature = 0.9
	AIMaxTokens   = 80
)

// QuestionGenerator 由 GameService 调用，失败时改用题库
type QuestionGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, in PromptInput) (string, error)
}

type AIService struct {
	client *openai.Client
	model  string

	mu      sync.RWMutex
	timeout time.Duration
	limiter *rate.Limiter
}

// NewAIService APIKey 为空时返回的服务 Enabled()==false
func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{model: cfg.Model}
	if s.model == "" {
		s.model = config.DefaultModel
	}

	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}

	s.UpdateConfig(cfg)
	return s
}

func (s *AIService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *AIService) Model() string {
	return s.model
}

// UpdateConfig 热更新超时和限流，模型和密钥不随配置重载变化
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if n := cfg.MaxRequestsPerMinute; n > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}

	s.mu.Lock()
	s.timeout = timeout
	s.limiter = limiter
	s.mu.Unlock()
}

func (s *AIService) settings() (time.Duration, *rate.Limiter) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeout, s.limiter
}

func (s *AIService) Generate(ctx context.Context, in PromptInput) (string, error) {
	if !s.Enabled() {
		return "", util.ErrAIDisabled
	}

	timeout, limiter := s.settings()
	if limiter != nil && !limiter.Allow() {
		return "", util.ErrAIThrottled
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ctx, span := tracing.Start(ctx, "ai.generate_question")
	defer span.End()
	span.SetAttributes(
		attribute.String("game.level", in.Level.String()),
		attribute.String("game.mode", string(in.Mode)),
		attribute.Int("game.recent_count", len(in.Recent)),
		attribute.String("ai.model", s.model),
	)

	prompt := BuildPrompt(in)
	start := time.Now()

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		MaxCompletionTokens: AIMaxTokens,
	}
	if supportsTemperature(s.model) {
		req.Temperature = AITemperature
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)

	question := ""
	if err != nil {
		err = mapAIError(ctx, err)
	} else if len(resp.Choices) == 0 {
		err = util.ErrAIEmptyResponse
	} else if question = NormalizeQuestion(resp.Choices[0].Message.Content); question == "" {
		err = util.ErrAIEmptyResponse
	}

	outcome := "ok"
	if err != nil {
		outcome = FallbackReason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	monitoring.AIRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", err
	}
	return question, nil
}

// 推理系列模型只接受默认温度，SDK 会在本地直接拒绝其它取值
func supportsTemperature(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return false
		}
	}
	return true
}

func mapAIError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", util.ErrAITimeout, err)
	}
	return fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
}

// FallbackReason 把 AI 错误归类为监控标签
func FallbackReason(err error) string {
	switch {
	case errors.Is(err, util.ErrAIDisabled):
		return util.ReasonNoCredential
	case errors.Is(err, util.ErrAIThrottled):
		return util.ReasonThrottled
	case errors.Is(err, util.ErrAITimeout):
		return util.ReasonTimeout
	case errors.Is(err, util.ErrAIEmptyResponse):
		return util.ReasonEmpty
	default:
		return util.ReasonUnavailable
	}
}
