package agent

import (
	"context"

	"ollamahub/models"
)

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 组装生成上下文用的消息，只在一次对话调用内存在
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator 生成后端：输入完整消息序列，返回模型回复文本
type Generator interface {
	Generate(ctx context.Context, model string, messages []Message) (string, error)
}

// ModelLister 生成后端的模型列表接口
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// FlattenTurns 将历史记录展开为 user/assistant 交替的消息序列，保持记录顺序
func FlattenTurns(turns []models.ChatInteraction) []Message {
	messages := make([]Message, 0, len(turns)*2+1)
	for _, t := range turns {
		messages = append(messages,
			Message{Role: RoleUser, Content: t.UserMessage},
			Message{Role: RoleAssistant, Content: t.AIResponse},
		)
	}
	return messages
}
