package agent

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestOrchestrator(t *testing.T, gen Generator) (*Orchestrator, *memoryStore) {
	t.Helper()
	reg := NewRegistry(&staticLister{names: []string{"llama3.1:8b", "mistral:7b"}}, nil)
	reg.Refresh(context.Background())
	st := &memoryStore{}
	return NewOrchestrator(reg, st, gen, nil), st
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var e *Error
	require.True(t, errors.As(err, &e), "应返回 *agent.Error，实际为 %T", err)
	assert.Equal(t, kind, e.Kind)
	return e
}

func TestHandleChat_EndToEnd(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"Hello!"}}
	o, st := newTestOrchestrator(t, gen)

	res, err := o.HandleChat(context.Background(), ChatInput{Message: "Hi there", ModelName: "llama3.1:8b"})
	require.NoError(t, err)

	assert.Equal(t, "Hello!", res.Response)
	assert.Empty(t, res.Error)
	assert.Equal(t, "llama3.1:8b", res.ModelName)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "Hi there"},
		{Role: RoleAssistant, Content: "Hello!"},
	}, res.ConversationHistory)
	assert.Greater(t, res.ProcessingTime, 0.0)
	_, err = uuid.Parse(res.SessionID)
	assert.NoError(t, err, "未提供 session_id 时应生成 uuid")

	require.Equal(t, 1, st.count())
	turn := st.turns[0]
	assert.Equal(t, res.SessionID, turn.SessionID)
	assert.Equal(t, "Hi there", turn.UserMessage)
	assert.Equal(t, "Hello!", turn.AIResponse)
	require.NotNil(t, turn.ProcessingTime)
	assert.Equal(t, res.ProcessingTime, *turn.ProcessingTime)

	var snapshot []Message
	require.NoError(t, json.Unmarshal(turn.ConversationHistory, &snapshot))
	assert.Equal(t, res.ConversationHistory, snapshot)
}

func TestHandleChat_SessionContinuity(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"Hello!", "Fine, thanks."}}
	o, st := newTestOrchestrator(t, gen)
	ctx := context.Background()

	first, err := o.HandleChat(ctx, ChatInput{Message: "Hi there", ModelName: "llama3.1:8b"})
	require.NoError(t, err)

	second, err := o.HandleChat(ctx, ChatInput{Message: "How are you?", ModelName: "llama3.1:8b", SessionID: first.SessionID})
	require.NoError(t, err)

	require.Equal(t, 2, gen.callCount())
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "Hi there"},
		{Role: RoleAssistant, Content: "Hello!"},
		{Role: RoleUser, Content: "How are you?"},
	}, gen.calls[1], "第二轮应带上第一轮的上下文")

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, second.ConversationHistory, 4)

	// 只追加，不修改已有记录
	require.Equal(t, 2, st.count())
	assert.Equal(t, "Hi there", st.turns[0].UserMessage)
	assert.Equal(t, "Hello!", st.turns[0].AIResponse)
	assert.Equal(t, "How are you?", st.turns[1].UserMessage)
}

func TestHandleChat_ModelMayChangeWithinSession(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{"a", "b"}}
	o, st := newTestOrchestrator(t, gen)
	ctx := context.Background()

	first, err := o.HandleChat(ctx, ChatInput{Message: "one", ModelName: "llama3.1:8b", SessionID: "s-1"})
	require.NoError(t, err)
	_, err = o.HandleChat(ctx, ChatInput{Message: "two", ModelName: "mistral:7b", SessionID: first.SessionID})
	require.NoError(t, err)

	assert.Equal(t, "llama3.1:8b", st.turns[0].ModelName)
	assert.Equal(t, "mistral:7b", st.turns[1].ModelName)
}

func TestHandleChat_ValidationShortCircuit(t *testing.T) {
	tests := []struct {
		name    string
		in      ChatInput
		message string
	}{
		{"empty message", ChatInput{Message: "", ModelName: "m"}, "Message cannot be empty"},
		{"blank message", ChatInput{Message: "  \n\t", ModelName: "llama3.1:8b"}, "Message cannot be empty"},
		{"missing model", ChatInput{Message: "x", ModelName: ""}, "Model name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &scriptedGenerator{}
			o, st := newTestOrchestrator(t, gen)

			res, err := o.HandleChat(context.Background(), tt.in)

			assert.Nil(t, res)
			e := requireKind(t, err, KindClient)
			assert.Equal(t, tt.message, e.Message)
			assert.Zero(t, st.loads, "不应读取存储")
			assert.Zero(t, st.appends, "不应写入存储")
			assert.Zero(t, gen.callCount(), "不应调用后端")
		})
	}
}

func TestHandleChat_UnknownModel(t *testing.T) {
	gen := &scriptedGenerator{}
	o, st := newTestOrchestrator(t, gen)

	_, err := o.HandleChat(context.Background(), ChatInput{Message: "hi", ModelName: "not-a-real-model"})

	e := requireKind(t, err, KindClient)
	assert.Equal(t, "Model not-a-real-model not available. Available models: [llama3.1:8b, mistral:7b]", e.Message)
	assert.Zero(t, st.count())
	assert.Zero(t, gen.callCount())
}

func TestHandleChat_WorkflowErrorIsClientError(t *testing.T) {
	gen := &scriptedGenerator{err: errBackendDown}
	o, st := newTestOrchestrator(t, gen)

	_, err := o.HandleChat(context.Background(), ChatInput{Message: "hi", ModelName: "llama3.1:8b"})

	e := requireKind(t, err, KindClient)
	assert.Equal(t, errBackendDown.Error(), e.Message)
	assert.Zero(t, st.appends, "生成失败时不落库")
}

func TestHandleChat_StorageErrorsAreServerErrors(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		o, st := newTestOrchestrator(t, &scriptedGenerator{})
		st.loadErr = errors.New("database is locked")

		_, err := o.HandleChat(context.Background(), ChatInput{Message: "hi", ModelName: "llama3.1:8b"})
		e := requireKind(t, err, KindServer)
		assert.Equal(t, "Chat processing failed: database is locked", e.Message)
		assert.ErrorIs(t, err, st.loadErr)
	})

	t.Run("append", func(t *testing.T) {
		gen := &scriptedGenerator{}
		o, st := newTestOrchestrator(t, gen)
		st.appendErr = errors.New("duplicate key")

		_, err := o.HandleChat(context.Background(), ChatInput{Message: "hi", ModelName: "llama3.1:8b"})
		requireKind(t, err, KindServer)
		assert.Equal(t, 1, gen.callCount())
		assert.Zero(t, st.count())
	})
}

func TestHandleChat_SameSessionIsSerialized(t *testing.T) {
	gen := &scriptedGenerator{delay: 20 * time.Millisecond}
	o, st := newTestOrchestrator(t, gen)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.HandleChat(context.Background(), ChatInput{Message: "ping", ModelName: "llama3.1:8b", SessionID: "shared"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 串行执行时每一轮都能看到之前所有轮次
	require.Equal(t, 3, gen.callCount())
	lengths := []int{len(gen.calls[0]), len(gen.calls[1]), len(gen.calls[2])}
	assert.ElementsMatch(t, []int{1, 3, 5}, lengths)
	assert.Equal(t, 3, st.count())
}

func TestHandleChat_CancelledWhileWaitingForSession(t *testing.T) {
	gen := &scriptedGenerator{}
	o, _ := newTestOrchestrator(t, gen)

	release, err := o.locks.acquire(context.Background(), "busy")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = o.HandleChat(ctx, ChatInput{Message: "hi", ModelName: "llama3.1:8b", SessionID: "busy"})

	requireKind(t, err, KindServer)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, gen.callCount())
}

func TestHandleChat_FailureLogLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := NewRegistry(&staticLister{names: []string{"llama3.1:8b"}}, nil)
	reg.Refresh(context.Background())
	st := &memoryStore{}
	o := NewOrchestrator(reg, st, &scriptedGenerator{err: errBackendDown}, zap.New(core))

	_, err := o.HandleChat(context.Background(), ChatInput{Message: "hi", ModelName: "llama3.1:8b"})
	require.Error(t, err)

	st.loadErr = errors.New("database is locked")
	_, err = o.HandleChat(context.Background(), ChatInput{Message: "hi", ModelName: "llama3.1:8b"})
	require.Error(t, err)

	entries := logs.FilterMessage("对话失败").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level, "生成失败记为 Warn")
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level, "存储失败记为 Error")
}
