package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ollamahub/config"

	"github.com/sashabaranov/go-openai"
)

// WhisperModels 允许的转写模型
var WhisperModels = []string{"tiny", "base", "small", "medium", "large", "turbo"}

// DefaultWhisperModel 未指定时使用的转写模型
const DefaultWhisperModel = "turbo"

// TranscribeInput 一次转写请求
type TranscribeInput struct {
	Model    string
	Language string
	FileName string
	Audio    io.Reader
}

// Transcription 转写结果
type Transcription struct {
	Text     string
	Language string
	Duration float64
}

// WhisperClient OpenAI 兼容的语音转写服务客户端
type WhisperClient struct {
	client  *openai.Client
	baseURL string
}

// NewWhisperClient 创建转写客户端
func NewWhisperClient(cfg config.WhisperConfig) *WhisperClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "whisper"
	}
	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &WhisperClient{
		client:  openai.NewClientWithConfig(oc),
		baseURL: oc.BaseURL,
	}
}

// Transcribe 上传音频并返回转写文本
func (w *WhisperClient) Transcribe(ctx context.Context, in TranscribeInput) (*Transcription, error) {
	model := in.Model
	if model == "" {
		model = DefaultWhisperModel
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: in.FileName,
		Reader:   in.Audio,
		Language: in.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("转写失败: %w", err)
	}

	lang := resp.Language
	if lang == "" {
		lang = in.Language
	}
	if lang == "" {
		lang = "auto-detected"
	}
	return &Transcription{
		Text:     strings.TrimSpace(resp.Text),
		Language: lang,
		Duration: resp.Duration,
	}, nil
}

// Ping 检查转写服务是否可用
func (w *WhisperClient) Ping(ctx context.Context) error {
	if _, err := w.client.ListModels(ctx); err != nil {
		return fmt.Errorf("转写服务不可用: %w", err)
	}
	return nil
}
