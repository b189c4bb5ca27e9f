package service

import (
	"deep_card_backend/internal/model"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// 题库被配置成空时使用
const lastResortQuestion = "你今天過得怎麼樣？"

type FallbackPick struct {
	Question string
	// Exhausted 该等级题库已全部用过，本题可能重复
	Exhausted bool
}

// FallbackService 从静态题库中挑一道没问过的题
type FallbackService struct {
	bank     model.QuestionBank
	decorate atomic.Bool

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFallbackService(bank model.QuestionBank, decorate bool) *FallbackService {
	seed := uint64(time.Now().UnixNano())
	return NewFallbackServiceWithRand(bank, decorate, rand.New(rand.NewPCG(seed, seed>>1)))
}

func NewFallbackServiceWithRand(bank model.QuestionBank, decorate bool, rnd *rand.Rand) *FallbackService {
	if bank == nil {
		bank = model.DefaultQuestionBank()
	}
	s := &FallbackService{bank: bank, rnd: rnd}
	s.decorate.Store(decorate)
	return s
}

func (s *FallbackService) SetDecorate(decorate bool) {
	s.decorate.Store(decorate)
}

func (s *FallbackService) Pick(level model.Level, context string, used map[string]struct{}) FallbackPick {
	list := s.bank.Get(level)
	if len(list) == 0 {
		list = []string{lastResortQuestion}
	}

	// 历史里可能是加过前缀或问号的展示文本
	usedKeys := make(map[string]struct{}, len(used))
	for q := range used {
		usedKeys[QuestionKey(q)] = struct{}{}
	}

	candidates := make([]string, 0, len(list))
	for _, q := range list {
		if _, ok := usedKeys[QuestionKey(q)]; !ok {
			candidates = append(candidates, q)
		}
	}

	pick := FallbackPick{}
	if len(candidates) > 0 {
		pick.Question = s.choose(candidates)
	} else {
		pick.Question = s.choose(list)
		pick.Exhausted = true
	}

	if s.decorate.Load() && context != "" {
		if pick.Exhausted {
			pick.Question = fmt.Sprintf("【加碼題・%s】%s", context, pick.Question)
		} else {
			pick.Question = fmt.Sprintf("（%s）%s", context, pick.Question)
		}
	}

	pick.Question = EnsureQuestionMark(pick.Question)
	return pick
}

func (s *FallbackService) choose(list []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return list[s.rnd.IntN(len(list))]
}
