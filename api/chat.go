package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ollamahub/agent"
	"ollamahub/models"
	"ollamahub/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatService 对话编排
type ChatService interface {
	HandleChat(ctx context.Context, in agent.ChatInput) (*agent.ChatResult, error)
}

// ModelRegistry 可用模型注册表
type ModelRegistry interface {
	List() []string
	Refresh(ctx context.Context) []string
}

// ModelPuller 向生成后端拉取模型
type ModelPuller interface {
	Pull(ctx context.Context, model string) (map[string]any, error)
}

// HistoryReader 只读的会话记录查询
type HistoryReader interface {
	LoadHistory(ctx context.Context, sessionID string) ([]models.ChatInteraction, error)
}

// ChatHandler 对话处理器
type ChatHandler struct {
	chat      ChatService
	registry  ModelRegistry
	puller    ModelPuller
	history   HistoryReader
	ollamaURL string
	log       *zap.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chat ChatService, registry ModelRegistry, puller ModelPuller, history HistoryReader, ollamaURL string, log *zap.Logger) *ChatHandler {
	RegisterValidators()
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{
		chat:      chat,
		registry:  registry,
		puller:    puller,
		history:   history,
		ollamaURL: ollamaURL,
		log:       log,
	}
}

// ChatRequest 对话请求，字段校验由编排层完成以保证错误信息一致
type ChatRequest struct {
	Message   string  `json:"message" example:"Hi there"`
	ModelName string  `json:"model_name" example:"llama3.1:8b"`
	SessionID *string `json:"session_id,omitempty"`
}

// PullModelRequest 拉取模型请求
type PullModelRequest struct {
	Model string `json:"model" binding:"required,notblank" example:"llama3.1:8b"`
}

// PullModelResponse 拉取模型响应
type PullModelResponse struct {
	Status string         `json:"status"`
	Model  string         `json:"model"`
	Detail map[string]any `json:"detail"`
}

// SessionHistoryResponse 会话记录
type SessionHistoryResponse struct {
	SessionID string                   `json:"session_id"`
	Total     int                      `json:"total"`
	Turns     []models.ChatInteraction `json:"turns"`
}

// Chat 与模型对话
// @Summary 对话
// @Description 在会话中发送一条消息，自动携带该会话的全部历史；未提供 session_id 时创建新会话
// @Tags 对话
// @Accept json
// @Produce json
// @Param request body ChatRequest true "对话请求"
// @Success 200 {object} agent.ChatResult
// @Failure 400 {object} ErrorResponse "参数错误、模型不可用或生成失败"
// @Failure 500 {object} ErrorResponse "存储失败"
// @Router /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	in := agent.ChatInput{Message: req.Message, ModelName: req.ModelName}
	if req.SessionID != nil {
		in.SessionID = *req.SessionID
	}

	result, err := h.chat.HandleChat(c.Request.Context(), in)
	if err != nil {
		ErrorFromOutcome(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health 对话服务健康检查
// @Summary 对话服务健康检查
// @Tags 对话
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /chat/health [get]
func (h *ChatHandler) Health(c *gin.Context) {
	count, err := h.modelCount()
	if err != nil {
		h.log.Error("对话服务健康检查失败", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"available_models": count,
		"ollama_url":       h.ollamaURL,
	})
}

// modelCount 读取注册表，注册表实现出现 panic 时转为错误
func (h *ChatHandler) modelCount() (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("读取模型列表失败: %v", r)
		}
	}()
	return len(h.registry.List()), nil
}

// ReloadModels 重新从后端加载可用模型
// @Summary 重新加载模型列表
// @Tags 对话
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /chat/models/reload [post]
func (h *ChatHandler) ReloadModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.registry.Refresh(c.Request.Context())})
}

// PullModel 拉取模型，成功后刷新可用模型
// @Summary 拉取模型
// @Tags 对话
// @Accept json
// @Produce json
// @Param request body PullModelRequest true "模型名称"
// @Success 200 {object} PullModelResponse
// @Failure 400 {object} ErrorResponse
// @Router /chat/models/pull [post]
func (h *ChatHandler) PullModel(c *gin.Context) {
	var req PullModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "model is required")
		return
	}

	detail, err := h.puller.Pull(c.Request.Context(), req.Model)
	if err != nil {
		msg := err.Error()
		var be *service.BackendError
		if errors.As(err, &be) {
			msg = be.Body
		}
		h.log.Warn("拉取模型失败", zap.String("model", req.Model), zap.Error(err))
		BadRequest(c, fmt.Sprintf("Pull failed for %s: %s", req.Model, msg))
		return
	}

	h.registry.Refresh(c.Request.Context())
	h.log.Info("模型拉取完成", zap.String("model", req.Model))

	c.JSON(http.StatusOK, PullModelResponse{Status: "ok", Model: req.Model, Detail: detail})
}

// SessionHistory 查询会话的全部记录
// @Summary 会话记录
// @Tags 对话
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} SessionHistoryResponse
// @Failure 404 {object} ErrorResponse "会话不存在"
// @Router /chat/sessions/{session_id} [get]
func (h *ChatHandler) SessionHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	turns, ok := h.loadSession(c, sessionID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SessionHistoryResponse{SessionID: sessionID, Total: len(turns), Turns: turns})
}

// loadSession 读取会话记录，失败或会话不存在时写入错误响应
func (h *ChatHandler) loadSession(c *gin.Context, sessionID string) ([]models.ChatInteraction, bool) {
	turns, err := h.history.LoadHistory(c.Request.Context(), sessionID)
	if err != nil {
		h.log.Error("查询会话记录失败", zap.String("session_id", sessionID), zap.Error(err))
		InternalError(c, SafeErrorMessage(err, "Failed to load session"))
		return nil, false
	}
	if len(turns) == 0 {
		NotFound(c, "Session not found")
		return nil, false
	}
	return turns, true
}
