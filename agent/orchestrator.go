package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ollamahub/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ConversationStore 会话记录存储，对话流程只读取和追加
type ConversationStore interface {
	LoadHistory(ctx context.Context, sessionID string) ([]models.ChatInteraction, error)
	AppendTurn(ctx context.Context, turn *models.ChatInteraction) error
}

// ModelCatalog 模型校验所需的注册表能力
type ModelCatalog interface {
	Contains(name string) bool
	List() []string
}

// ChatInput 一次对话请求
type ChatInput struct {
	Message   string
	ModelName string
	SessionID string
}

// ChatResult 一次对话的结果
type ChatResult struct {
	Response            string    `json:"response"`
	Error               string    `json:"error"`
	ModelName           string    `json:"model_name"`
	ConversationHistory []Message `json:"conversation_history"`
	SessionID           string    `json:"session_id"`
	ProcessingTime      float64   `json:"processing_time"`
}

// Orchestrator 会话编排：校验 -> 还原历史 -> 生成 -> 落库
// 自身不保存任何会话状态，每次调用都从存储重建上下文
type Orchestrator struct {
	models ModelCatalog
	store  ConversationStore
	gen    Generator
	locks  *sessionLocks
	log    *zap.Logger
}

// NewOrchestrator 创建会话编排器
func NewOrchestrator(catalog ModelCatalog, store ConversationStore, gen Generator, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		models: catalog,
		store:  store,
		gen:    gen,
		locks:  newSessionLocks(),
		log:    log,
	}
}

// HandleChat 执行一轮对话
// 返回的错误为 *Error：校验失败、模型不可用、生成失败为 KindClient，其余为 KindServer
func (o *Orchestrator) HandleChat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, ClientError("Message cannot be empty")
	}
	if in.ModelName == "" {
		return nil, ClientError("Model name is required")
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}
	if !o.models.Contains(in.ModelName) {
		return nil, ClientError(fmt.Sprintf("Model %s not available. Available models: [%s]",
			in.ModelName, strings.Join(o.models.List(), ", ")))
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "chat.turn", trace.WithAttributes(
		attribute.String("chat.session_id", in.SessionID),
		attribute.String("llm.model", in.ModelName),
	))
	defer span.End()

	result, err := o.runTurn(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		fields := []zap.Field{
			zap.String("session_id", in.SessionID),
			zap.String("model", in.ModelName),
			zap.Error(err),
		}
		// 生成失败属于调用方可见的正常结果，存储失败才是服务端故障
		if KindOf(err) == KindServer {
			o.log.Error("对话失败", fields...)
		} else {
			o.log.Warn("对话失败", fields...)
		}
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, in ChatInput) (*ChatResult, error) {
	release, err := o.locks.acquire(ctx, in.SessionID)
	if err != nil {
		return nil, ServerError("Chat processing failed", err)
	}
	defer release()

	turns, err := o.store.LoadHistory(ctx, in.SessionID)
	if err != nil {
		return nil, ServerError("Chat processing failed", err)
	}

	messages := FlattenTurns(turns)
	messages = append(messages, Message{Role: RoleUser, Content: in.Message})

	start := time.Now()
	final := RunTurn(ctx, o.gen, TurnState{Messages: messages, ModelName: in.ModelName})
	processingTime := time.Since(start).Seconds()

	if final.Error != "" {
		return nil, &Error{Kind: KindClient, Message: final.Error}
	}

	snapshot, err := json.Marshal(final.Messages)
	if err != nil {
		return nil, ServerError("Chat processing failed", err)
	}

	turn := &models.ChatInteraction{
		SessionID:           in.SessionID,
		ModelName:           in.ModelName,
		UserMessage:         in.Message,
		AIResponse:          final.Response,
		ConversationHistory: datatypes.JSON(snapshot),
		ProcessingTime:      &processingTime,
	}
	if err := o.store.AppendTurn(ctx, turn); err != nil {
		return nil, ServerError("Chat processing failed", err)
	}

	o.log.Info("对话完成",
		zap.String("session_id", in.SessionID),
		zap.String("model", in.ModelName),
		zap.Int("prior_turns", len(turns)),
		zap.Uint("turn_id", turn.ID),
		zap.Float64("processing_time", processingTime))

	return &ChatResult{
		Response:            final.Response,
		Error:               "",
		ModelName:           in.ModelName,
		ConversationHistory: final.Messages,
		SessionID:           turn.SessionID,
		ProcessingTime:      processingTime,
	}, nil
}
