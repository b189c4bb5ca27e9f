package service

import (
	"context"
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/model"
	"deep_card_backend/internal/repository"
	"deep_card_backend/internal/util"
	"deep_card_backend/pkg/logger"
	"deep_card_backend/pkg/monitoring"
	"deep_card_backend/pkg/tracing"
	"strings"

	"go.uber.org/zap"
)

type StartRequest struct {
	Relationship string `json:"relationship" example:"情侶"`
}

type StartResponse struct {
	SessionID string `json:"session_id"`
}

type QuestionRequest struct {
	SessionID string   `json:"session_id"`
	Level     string   `json:"level" example:"A"`
	Action    string   `json:"action,omitempty" example:"skip"` // skip | done | 空
	History   []string `json:"history"`                         // 前端保存的出题历史（有顺序）
	Mode      string   `json:"mode,omitempty" example:"normal"`
}

type QuestionResponse struct {
	Level    string `json:"level"`
	Question string `json:"question"`
}

// QuestionResult 记录本题走了哪条路径，Reason 只在 Source==fallback 时有值
type QuestionResult struct {
	QuestionResponse
	Source    string
	Reason    string
	Exhausted bool
}

type GameService struct {
	sessions *repository.SessionRepository
	ai       QuestionGenerator
	fallback *FallbackService
}

func NewGameService(sessions *repository.SessionRepository, ai QuestionGenerator, fallback *FallbackService) *GameService {
	return &GameService{
		sessions: sessions,
		ai:       ai,
		fallback: fallback,
	}
}

func (s *GameService) Start(ctx context.Context, req StartRequest) StartResponse {
	_, span := tracing.Start(ctx, "game.start")
	defer span.End()

	sess := s.sessions.Create(req.Relationship)
	monitoring.ActiveSessions.Set(float64(s.sessions.Len()))

	logger.Log.Info("game session started",
		zap.String("session_id", sess.ID),
		zap.String("context", sess.Context),
	)
	return StartResponse{SessionID: sess.ID}
}

// NextQuestion 永远返回一道题；AI 不可用、会话不存在、等级非法都不算错误
func (s *GameService) NextQuestion(ctx context.Context, req QuestionRequest) QuestionResult {
	relationship := config.DefaultContext
	var stored []string

	sess, found := s.sessions.Get(req.SessionID)
	if found {
		release := sess.BeginTurn()
		defer release()

		relationship = sess.Context
		stored = sess.History()
	}

	merged := MergeHistory(stored, req.History)
	level := model.NormalizeLevel(req.Level)

	result := s.generate(ctx, level, relationship, merged, NormalizeMode(req.Mode))

	if found {
		s.sessions.Append(sess.ID, result.Question)
	}

	action := normalizeAction(req.Action)
	monitoring.QuestionsServed.WithLabelValues(level.String(), result.Source, action).Inc()

	logger.Log.Debug("question served",
		zap.String("session_id", req.SessionID),
		zap.Bool("session_found", found),
		zap.String("level", level.String()),
		zap.String("source", result.Source),
		zap.String("action", action),
		zap.Int("used", len(merged)),
	)

	return result
}

func (s *GameService) generate(ctx context.Context, level model.Level, relationship string, merged []string, mode Mode) QuestionResult {
	result := QuestionResult{QuestionResponse: QuestionResponse{Level: level.String()}}

	reason := util.ReasonNoCredential
	if s.ai != nil && s.ai.Enabled() {
		q, err := s.ai.Generate(ctx, PromptInput{
			Level:   level,
			Context: relationship,
			Recent:  RecentHistory(merged, RecentHistoryLimit),
			Mode:    mode,
		})
		if err == nil {
			result.Question = EnsureQuestionMark(q)
			result.Source = util.SourceAI
			return result
		}
		reason = FallbackReason(err)
		logger.Log.Warn("ai generation failed, using question bank",
			zap.String("reason", reason),
			zap.String("level", level.String()),
			zap.Error(err),
		)
	}

	pick := s.fallback.Pick(level, relationship, UsedSet(merged))
	if pick.Exhausted {
		monitoring.BankExhausted.WithLabelValues(level.String()).Inc()
	}
	monitoring.FallbackReasons.WithLabelValues(reason).Inc()

	result.Question = pick.Question
	result.Source = util.SourceFallback
	result.Reason = reason
	result.Exhausted = pick.Exhausted
	return result
}

func (s *GameService) SessionCount() int {
	return s.sessions.Len()
}

func (s *GameService) AIEnabled() bool {
	return s.ai != nil && s.ai.Enabled()
}

func normalizeAction(raw string) string {
	switch a := strings.ToLower(strings.TrimSpace(raw)); a {
	case util.ActionSkip, util.ActionDone:
		return a
	default:
		return util.ActionNone
	}
}
