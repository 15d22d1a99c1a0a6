package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ollamahub/database"
	"ollamahub/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ModelRequestHandler 模型请求记录处理器
type ModelRequestHandler struct{}

// NewModelRequestHandler 创建模型请求记录处理器
func NewModelRequestHandler() *ModelRequestHandler {
	RegisterValidators()
	return &ModelRequestHandler{}
}

// CreateModelRequest 创建请求记录
type CreateModelRequest struct {
	RequestID      string   `json:"request_id" binding:"omitempty,max=64"`
	ModelName      string   `json:"model_name" binding:"required,notblank,max=100" example:"llama3.1:8b"`
	Prompt         string   `json:"prompt" binding:"required,notblank" example:"Why is the sky blue?"`
	Response       *string  `json:"response"`
	Status         string   `json:"status" binding:"omitempty,oneof=pending processing completed failed"`
	ProcessingTime *float64 `json:"processing_time" binding:"omitempty,min=0"`
	TokensUsed     *int     `json:"tokens_used" binding:"omitempty,min=0"`
	ErrorMessage   *string  `json:"error_message"`
}

// UpdateModelRequest 更新请求记录，只更新传入的字段
type UpdateModelRequest struct {
	ModelName      *string  `json:"model_name" binding:"omitempty,notblank,max=100"`
	Prompt         *string  `json:"prompt" binding:"omitempty,notblank"`
	Response       *string  `json:"response"`
	Status         *string  `json:"status" binding:"omitempty,oneof=pending processing completed failed"`
	ProcessingTime *float64 `json:"processing_time" binding:"omitempty,min=0"`
	TokensUsed     *int     `json:"tokens_used" binding:"omitempty,min=0"`
	ErrorMessage   *string  `json:"error_message"`
}

func (h *ModelRequestHandler) find(c *gin.Context) (*models.ModelRequest, bool) {
	var req models.ModelRequest
	err := database.GetDB().Where("request_id = ?", c.Param("request_id")).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "Model request not found")
		return nil, false
	}
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Query failed"))
		return nil, false
	}
	return &req, true
}

// List 分页获取请求记录
// @Summary 请求记录列表
// @Tags 请求记录
// @Produce json
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "返回条数" default(100)
// @Success 200 {array} models.ModelRequest
// @Failure 400 {object} ErrorResponse
// @Router /models [get]
func (h *ModelRequestHandler) List(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		BadRequest(c, "skip must be a non-negative integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 {
		BadRequest(c, "limit must be a non-negative integer")
		return
	}

	list := []models.ModelRequest{}
	if err := database.GetDB().Order("id ASC").Offset(skip).Limit(limit).Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Query failed"))
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取单个请求记录
// @Summary 获取请求记录
// @Tags 请求记录
// @Produce json
// @Param request_id path string true "请求ID"
// @Success 200 {object} models.ModelRequest
// @Failure 404 {object} ErrorResponse
// @Router /models/{request_id} [get]
func (h *ModelRequestHandler) Get(c *gin.Context) {
	req, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, req)
}

// Create 创建请求记录
// @Summary 创建请求记录
// @Tags 请求记录
// @Accept json
// @Produce json
// @Param request body CreateModelRequest true "请求记录"
// @Success 200 {object} models.ModelRequest
// @Failure 400 {object} ErrorResponse "参数错误或 request_id 已存在"
// @Router /models [post]
func (h *ModelRequestHandler) Create(c *gin.Context) {
	var body CreateModelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request body"))
		return
	}

	if body.RequestID != "" {
		var count int64
		if err := database.GetDB().Model(&models.ModelRequest{}).Where("request_id = ?", body.RequestID).Count(&count).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Query failed"))
			return
		}
		if count > 0 {
			BadRequest(c, "Model request already exists")
			return
		}
	}

	req := models.ModelRequest{
		RequestID:      body.RequestID,
		ModelName:      body.ModelName,
		Prompt:         body.Prompt,
		Response:       body.Response,
		Status:         body.Status,
		ProcessingTime: body.ProcessingTime,
		TokensUsed:     body.TokensUsed,
		ErrorMessage:   body.ErrorMessage,
	}
	if err := database.GetDB().Create(&req).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Create failed"))
		return
	}
	c.JSON(http.StatusOK, req)
}

// Update 更新请求记录
// @Summary 更新请求记录
// @Tags 请求记录
// @Accept json
// @Produce json
// @Param request_id path string true "请求ID"
// @Param request body UpdateModelRequest true "更新字段"
// @Success 200 {object} models.ModelRequest
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /models/{request_id} [put]
func (h *ModelRequestHandler) Update(c *gin.Context) {
	req, ok := h.find(c)
	if !ok {
		return
	}

	var body UpdateModelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request body"))
		return
	}

	// 更新字段
	updates := map[string]interface{}{"updated_at": time.Now()}
	if body.ModelName != nil {
		updates["model_name"] = *body.ModelName
	}
	if body.Prompt != nil {
		updates["prompt"] = *body.Prompt
	}
	if body.Response != nil {
		updates["response"] = *body.Response
	}
	if body.Status != nil {
		updates["status"] = *body.Status
	}
	if body.ProcessingTime != nil {
		updates["processing_time"] = *body.ProcessingTime
	}
	if body.TokensUsed != nil {
		updates["tokens_used"] = *body.TokensUsed
	}
	if body.ErrorMessage != nil {
		updates["error_message"] = *body.ErrorMessage
	}

	if err := database.GetDB().Model(req).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Update failed"))
		return
	}

	// 重新获取更新后的记录
	if err := database.GetDB().First(req, req.ID).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Query failed"))
		return
	}

	c.JSON(http.StatusOK, req)
}

// Delete 删除请求记录
// @Summary 删除请求记录
// @Tags 请求记录
// @Produce json
// @Param request_id path string true "请求ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /models/{request_id} [delete]
func (h *ModelRequestHandler) Delete(c *gin.Context) {
	req, ok := h.find(c)
	if !ok {
		return
	}
	if err := database.GetDB().Delete(req).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Delete failed"))
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Model request deleted"})
}
