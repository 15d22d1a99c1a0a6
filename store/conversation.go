package store

import (
	"context"
	"fmt"

	"ollamahub/models"

	"gorm.io/gorm"
)

// ConversationStore 基于 gorm 的会话记录存储
type ConversationStore struct {
	db *gorm.DB
}

// NewConversationStore 创建会话记录存储
func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// LoadHistory 按创建时间升序返回会话的全部记录，未知会话返回空切片
func (s *ConversationStore) LoadHistory(ctx context.Context, sessionID string) ([]models.ChatInteraction, error) {
	turns := []models.ChatInteraction{}
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&turns).Error
	if err != nil {
		return nil, fmt.Errorf("查询会话记录失败: %w", err)
	}
	return turns, nil
}

// AppendTurn 追加一条记录，主键和时间戳由 gorm 填充
func (s *ConversationStore) AppendTurn(ctx context.Context, turn *models.ChatInteraction) error {
	if turn.ID != 0 {
		return fmt.Errorf("会话记录只能追加，不能覆盖已有记录 %d", turn.ID)
	}
	if err := s.db.WithContext(ctx).Create(turn).Error; err != nil {
		return fmt.Errorf("保存会话记录失败: %w", err)
	}
	return nil
}
