package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatInteraction 单轮对话记录（用户输入 + AI 输出）
// 同一 session_id 下按 created_at 升序即可还原完整会话，对话流程只追加不修改
type ChatInteraction struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	SessionID           string         `json:"session_id" gorm:"size:64;index;not null"`
	ModelName           string         `json:"model_name" gorm:"size:100;index;not null"`
	UserMessage         string         `json:"user_message" gorm:"type:text;not null"`
	AIResponse          string         `json:"ai_response" gorm:"type:text;not null"`
	ConversationHistory datatypes.JSON `json:"conversation_history,omitempty" swaggertype:"array,object"` // 本轮结束时的完整消息序列快照
	TokensUsed          *int           `json:"tokens_used,omitempty"`
	ProcessingTime      *float64       `json:"processing_time,omitempty"` // 秒
	ErrorMessage        *string        `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt           time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (ChatInteraction) TableName() string {
	return "chat_interactions"
}
