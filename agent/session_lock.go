package agent

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// sessionLockTTL 锁表项闲置后的过期时间
const sessionLockTTL = time.Hour

// sessionLock 单个会话的锁，refs 为持有者与等待者的数量
type sessionLock struct {
	ch   chan struct{}
	refs int
}

// sessionLocks 按 session_id 串行化同一会话的 读历史 -> 生成 -> 写入
// 有持有者或等待者的表项不过期，只有闲置表项才会被清理
type sessionLocks struct {
	mu    sync.Mutex
	locks *cache.Cache
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		locks: cache.New(sessionLockTTL, 10*time.Minute),
	}
}

// acquire 获取会话锁，ctx 结束时放弃等待
// 返回的 release 必须且只能调用一次
func (s *sessionLocks) acquire(ctx context.Context, sessionID string) (release func(), err error) {
	s.mu.Lock()
	var l *sessionLock
	if x, ok := s.locks.Get(sessionID); ok {
		l = x.(*sessionLock)
	} else {
		l = &sessionLock{ch: make(chan struct{}, 1)}
	}
	l.refs++
	s.locks.Set(sessionID, l, cache.NoExpiration)
	s.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			s.unref(sessionID, l)
		}, nil
	case <-ctx.Done():
		s.unref(sessionID, l)
		return nil, ctx.Err()
	}
}

// unref 最后一个使用者离开后表项开始计时过期
func (s *sessionLocks) unref(sessionID string, l *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		s.locks.Set(sessionID, l, cache.DefaultExpiration)
	}
}
