package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ollamahub/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OllamaBackend 模型管理所需的后端能力
type OllamaBackend interface {
	Tags(ctx context.Context) ([]service.OllamaModel, error)
	Pull(ctx context.Context, model string) (map[string]any, error)
	Unload(ctx context.Context, model string) error
	Version(ctx context.Context) (string, error)
	BaseURL() string
}

// OllamaHandler 后端模型管理处理器
type OllamaHandler struct {
	backend         OllamaBackend
	maxLoadedModels int
	keepAlive       string
	log             *zap.Logger
}

// NewOllamaHandler 创建模型管理处理器
func NewOllamaHandler(backend OllamaBackend, maxLoadedModels int, keepAlive string, log *zap.Logger) *OllamaHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OllamaHandler{backend: backend, maxLoadedModels: maxLoadedModels, keepAlive: keepAlive, log: log}
}

// ModelInfo 单个模型状态
type ModelInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
	Status     string `json:"status"`
}

// ModelsStatusResponse 模型状态汇总
type ModelsStatusResponse struct {
	TotalModels      int         `json:"total_models"`
	MaxLoadedModels  int         `json:"max_loaded_models"`
	KeepAliveTimeout string      `json:"keep_alive_timeout"`
	Models           []ModelInfo `json:"models"`
}

// List 获取后端已有模型名称
// @Summary 模型列表
// @Tags 模型管理
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} ErrorResponse
// @Router /ollama/models [get]
func (h *OllamaHandler) List(c *gin.Context) {
	tags, err := h.backend.Tags(c.Request.Context())
	if err != nil {
		InternalError(c, "Failed to fetch models: "+err.Error())
		return
	}
	names := make([]string, 0, len(tags))
	for _, m := range tags {
		names = append(names, m.Name)
	}
	c.JSON(http.StatusOK, names)
}

// Load 拉取并加载模型
// @Summary 加载模型
// @Tags 模型管理
// @Produce json
// @Param model_name path string true "模型名称"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "后端拒绝"
// @Failure 500 {object} ErrorResponse "后端不可达"
// @Router /ollama/models/{model_name}/load [post]
func (h *OllamaHandler) Load(c *gin.Context) {
	name := c.Param("model_name")
	if _, err := h.backend.Pull(c.Request.Context(), name); err != nil {
		h.log.Warn("加载模型失败", zap.String("model", name), zap.Error(err))
		var be *service.BackendError
		if errors.As(err, &be) {
			BadRequest(c, "Failed to load model: "+be.Body)
			return
		}
		InternalError(c, "Error loading model: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Model %s loaded successfully", name)})
}

// Unload 从显存卸载模型
// @Summary 卸载模型
// @Tags 模型管理
// @Produce json
// @Param model_name path string true "模型名称"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "后端拒绝"
// @Failure 500 {object} ErrorResponse "后端不可达"
// @Router /ollama/models/{model_name}/unload [delete]
func (h *OllamaHandler) Unload(c *gin.Context) {
	name := c.Param("model_name")
	if err := h.backend.Unload(c.Request.Context(), name); err != nil {
		h.log.Warn("卸载模型失败", zap.String("model", name), zap.Error(err))
		var be *service.BackendError
		if errors.As(err, &be) {
			BadRequest(c, "Failed to unload model: "+be.Body)
			return
		}
		InternalError(c, "Error unloading model: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Model %s unloaded", name)})
}

// Status 模型状态汇总
// @Summary 模型状态
// @Tags 模型管理
// @Produce json
// @Success 200 {object} ModelsStatusResponse
// @Failure 500 {object} ErrorResponse
// @Router /ollama/models/status [get]
func (h *OllamaHandler) Status(c *gin.Context) {
	tags, err := h.backend.Tags(c.Request.Context())
	if err != nil {
		InternalError(c, "Error getting models status: "+err.Error())
		return
	}

	infos := make([]ModelInfo, 0, len(tags))
	for _, m := range tags {
		modified := m.ModifiedAt
		if modified == "" {
			modified = "Unknown"
		}
		infos = append(infos, ModelInfo{Name: m.Name, Size: m.Size, ModifiedAt: modified, Status: "Available"})
	}
	c.JSON(http.StatusOK, ModelsStatusResponse{
		TotalModels:      len(infos),
		MaxLoadedModels:  h.maxLoadedModels,
		KeepAliveTimeout: h.keepAlive,
		Models:           infos,
	})
}

// Health 后端健康检查，不可用时仍返回 200
// @Summary 后端健康检查
// @Tags 模型管理
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ollama/models/health [get]
func (h *OllamaHandler) Health(c *gin.Context) {
	version, err := h.backend.Version(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":     "unhealthy",
			"ollama_url": h.backend.BaseURL(),
			"error":      err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"ollama_url": h.backend.BaseURL(),
		"version":    version,
	})
}
