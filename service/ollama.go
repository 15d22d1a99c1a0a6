package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ollamahub/agent"

	"github.com/go-resty/resty/v2"
)

// BackendError 后端返回了非 2xx 状态码
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	msg := strings.TrimSpace(e.Body)
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return fmt.Sprintf("后端返回状态码 %d: %s", e.StatusCode, msg)
}

// OllamaModel /api/tags 中的单个模型
type OllamaModel struct {
	Name       string `json:"name"`
	Model      string `json:"model"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
	Digest     string `json:"digest"`
}

type tagsResponse struct {
	Models []OllamaModel `json:"models"`
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []agent.Message `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string        `json:"model"`
	Message *agent.Message `json:"message"`
	Done    bool           `json:"done"`
}

// OllamaClient Ollama 原生 HTTP API 客户端
type OllamaClient struct {
	baseURL     string
	temperature float32
	client      *resty.Client
	// 拉取模型耗时不可预估，不设超时
	pullClient *resty.Client
}

// NewOllamaClient 创建 Ollama 客户端，timeout 作用于除拉取外的所有请求
func NewOllamaClient(baseURL string, timeout time.Duration, temperature float32) *OllamaClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &OllamaClient{
		baseURL:     baseURL,
		temperature: temperature,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		pullClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
	}
}

// BaseURL 返回后端地址
func (c *OllamaClient) BaseURL() string {
	return c.baseURL
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &BackendError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// Tags 获取后端已下载的模型
func (c *OllamaClient) Tags(ctx context.Context) ([]OllamaModel, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("请求模型列表失败: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &BackendError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var tags tagsResponse
	if err := json.Unmarshal(resp.Body(), &tags); err != nil {
		return nil, fmt.Errorf("解析模型列表失败: %w", err)
	}
	return tags.Models, nil
}

// ListModels 返回模型名称列表
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	tags, err := c.Tags(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, m := range tags {
		names = append(names, m.Name)
	}
	return names, nil
}

// Generate 调用 /api/chat 生成一次非流式回复
func (c *OllamaClient) Generate(ctx context.Context, model string, messages []agent.Message) (string, error) {
	body := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": c.temperature},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("请求生成失败: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("解析生成结果失败: %w", err)
	}
	// 200 但没有 message 视为格式错误，不能当作空回复
	if out.Message == nil || out.Message.Role == "" {
		return "", errors.New("解析生成结果失败: 缺少 message")
	}
	return out.Message.Content, nil
}

// Pull 拉取模型，返回后端的响应体；非 JSON 响应包装为 {"raw": body}
func (c *OllamaClient) Pull(ctx context.Context, model string) (map[string]any, error) {
	resp, err := c.pullClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": model, "stream": false}).
		Post("/api/pull")
	if err != nil {
		return nil, fmt.Errorf("请求拉取模型失败: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	detail := map[string]any{}
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		detail = map[string]any{"raw": resp.String()}
	}
	return detail, nil
}

// Unload 让后端立即从显存中卸载模型（keep_alive=0）
func (c *OllamaClient) Unload(ctx context.Context, model string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"model": model, "keep_alive": 0}).
		Post("/api/generate")
	if err != nil {
		return fmt.Errorf("请求卸载模型失败: %w", err)
	}
	return checkStatus(resp)
}

// Version 获取后端版本，用于健康检查
func (c *OllamaClient) Version(ctx context.Context) (string, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("请求版本信息失败: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &BackendError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var out struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.Version == "" {
		return "Unknown", nil
	}
	return out.Version, nil
}
