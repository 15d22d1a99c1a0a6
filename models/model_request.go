package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 请求状态
const (
	RequestStatusPending    = "pending"
	RequestStatusProcessing = "processing"
	RequestStatusCompleted  = "completed"
	RequestStatusFailed     = "failed"
)

// ModelRequest 模型调用请求追踪记录（与对话流程无关的通用 CRUD 实体）
type ModelRequest struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	RequestID      string    `json:"request_id" gorm:"size:64;uniqueIndex;not null"`
	ModelName      string    `json:"model_name" gorm:"size:100;index;not null"`
	Prompt         string    `json:"prompt" gorm:"type:text;not null"`
	Response       *string   `json:"response" gorm:"type:text"`
	Status         string    `json:"status" gorm:"size:20;default:pending"` // pending, processing, completed, failed
	ProcessingTime *float64  `json:"processing_time"`                       // 秒
	TokensUsed     *int      `json:"tokens_used"`
	ErrorMessage   *string   `json:"error_message" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 设置表名
func (ModelRequest) TableName() string {
	return "model_requests"
}

// BeforeCreate 补齐 request_id 和默认状态
func (m *ModelRequest) BeforeCreate(tx *gorm.DB) error {
	if m.RequestID == "" {
		m.RequestID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = RequestStatusPending
	}
	return nil
}

// ValidRequestStatus 校验状态取值
func ValidRequestStatus(status string) bool {
	switch status {
	case RequestStatusPending, RequestStatusProcessing, RequestStatusCompleted, RequestStatusFailed:
		return true
	}
	return false
}
