package announce

import (
	"fmt"
	"sync"
	"time"
)

// PendingForm 一次生成后的会话状态，供后续编辑/重新翻译使用
type PendingForm struct {
	Type      Type
	Result    Result
	FormData  FormData
	CreatedAt time.Time
}

// SessionStore 进程内会话存储，键为 "userID_unix时间戳"。
// 带容量上限与 TTL 淘汰，避免无界增长。
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]PendingForm
	ttl     time.Duration
	cap     int
	now     func() time.Time
}

// NewSessionStore 创建会话存储。ttl<=0 使用 1 小时，cap<=0 使用 256。
func NewSessionStore(ttl time.Duration, capacity int) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if capacity <= 0 {
		capacity = 256
	}
	return &SessionStore{
		entries: make(map[string]PendingForm),
		ttl:     ttl,
		cap:     capacity,
		now:     time.Now,
	}
}

// Put 存入一条会话并返回键，写入时顺带淘汰过期与超量条目
func (s *SessionStore) Put(userID string, form PendingForm) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	key := fmt.Sprintf("%s_%d", userID, now.UnixMilli())
	s.entries[key] = form

	s.evictLocked(now)
	return key
}

// Get 取回会话，过期条目视为不存在
func (s *SessionStore) Get(key string) (PendingForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form, ok := s.entries[key]
	if !ok {
		return PendingForm{}, false
	}
	if s.now().Sub(form.CreatedAt) > s.ttl {
		delete(s.entries, key)
		return PendingForm{}, false
	}
	return form, true
}

// Len 当前条目数
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *SessionStore) evictLocked(now time.Time) {
	for key, form := range s.entries {
		if now.Sub(form.CreatedAt) > s.ttl {
			delete(s.entries, key)
		}
	}

	// 仍超量时按创建时间从老到新淘汰
	for len(s.entries) > s.cap {
		oldestKey := ""
		var oldest time.Time
		for key, form := range s.entries {
			if oldestKey == "" || form.CreatedAt.Before(oldest) {
				oldestKey = key
				oldest = form.CreatedAt
			}
		}
		delete(s.entries, oldestKey)
	}
}
