package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ollamahub/agent"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator 通过 OpenAI 兼容接口（Ollama 的 /v1）生成回复
type OpenAIGenerator struct {
	client      *openai.Client
	temperature float32
}

// NewOpenAIGenerator baseURL 为 Ollama 根地址，自动拼接 /v1
func NewOpenAIGenerator(baseURL, apiKey string, timeout time.Duration, temperature float32) *OpenAIGenerator {
	if apiKey == "" {
		// Ollama 不校验密钥，但客户端要求非空
		apiKey = "ollama"
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		temperature: temperature,
	}
}

// Generate 一次非流式对话补全
func (g *OpenAIGenerator) Generate(ctx context.Context, model string, messages []agent.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: g.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("请求生成失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("生成结果为空")
	}
	if resp.Choices[0].Message.Role == "" {
		return "", errors.New("解析生成结果失败: 缺少 message")
	}
	return resp.Choices[0].Message.Content, nil
}
