package repository

import (
	"context"
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/model"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionRepository 进程内会话存储，重启即丢失
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

// Create 新建会话，context 为空时使用默认关系
func (r *SessionRepository) Create(context string) *model.Session {
	context = strings.TrimSpace(context)
	if context == "" {
		context = config.DefaultContext
	}

	sess := model.NewSession(uuid.New().String(), context, r.now())

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	return sess
}

// Get 查到的会话会刷新活跃时间
func (r *SessionRepository) Get(id string) (*model.Session, bool) {
	sess, ok := r.lookup(id)
	if ok {
		sess.Touch(r.now())
	}
	return sess, ok
}

func (r *SessionRepository) lookup(id string) (*model.Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	return sess, ok
}

func (r *SessionRepository) History(id string) ([]string, bool) {
	sess, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	return sess.History(), true
}

// Append 追加一道题，不做去重；会话不存在返回 false
func (r *SessionRepository) Append(id, question string) bool {
	sess, ok := r.lookup(id)
	if !ok {
		return false
	}
	sess.Append(question, r.now())
	return true
}

func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle 删除最后活跃时间早于 now-ttl 的会话，ttl<=0 不做任何事
func (r *SessionRepository) EvictIdle(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		if now.Sub(sess.LastSeen()) > ttl {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor 定期清理闲置会话，ctx 取消后退出
func (r *SessionRepository) StartJanitor(ctx context.Context, interval, ttl time.Duration, onEvict func(evicted, remaining int)) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n := r.EvictIdle(r.now(), ttl)
				if onEvict != nil {
					onEvict(n, r.Len())
				}
			}
		}
	}()
}
