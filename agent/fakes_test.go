package agent

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"ollamahub/models"
)

// memoryStore 内存版会话存储
type memoryStore struct {
	mu      sync.Mutex
	turns   []models.ChatInteraction
	loads   int
	appends int
	nextID  uint

	loadErr   error
	appendErr error
}

func (s *memoryStore) LoadHistory(_ context.Context, sessionID string) ([]models.ChatInteraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	var out []models.ChatInteraction
	for _, t := range s.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memoryStore) AppendTurn(_ context.Context, turn *models.ChatInteraction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appends++
	if s.appendErr != nil {
		return s.appendErr
	}
	s.nextID++
	turn.ID = s.nextID
	now := time.Now()
	turn.CreatedAt, turn.UpdatedAt = now, now
	s.turns = append(s.turns, *turn)
	return nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// scriptedGenerator 按顺序返回预设回复，并记录每次收到的消息序列
type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]Message
	delay   time.Duration
}

func (g *scriptedGenerator) Generate(ctx context.Context, _ string, messages []Message) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, slices.Clone(messages))
	idx := len(g.calls) - 1
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.err != nil {
		return "", g.err
	}
	if idx < len(g.replies) {
		return g.replies[idx], nil
	}
	return "ok", nil
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// staticLister 固定的模型来源
type staticLister struct {
	names []string
	err   error
	calls int
}

func (l *staticLister) ListModels(context.Context) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.names, nil
}

var errBackendDown = errors.New("dial tcp 10.0.0.5:11434: connect: connection refused")
