package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"slices"
	"strings"

	"ollamahub/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Transcriber 语音转写后端
type Transcriber interface {
	Transcribe(ctx context.Context, in service.TranscribeInput) (*service.Transcription, error)
	Ping(ctx context.Context) error
}

// STTHandler 语音转写处理器
type STTHandler struct {
	transcriber Transcriber
	log         *zap.Logger
}

// NewSTTHandler 创建语音转写处理器
func NewSTTHandler(transcriber Transcriber, log *zap.Logger) *STTHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &STTHandler{transcriber: transcriber, log: log}
}

// TranscribeResponse 转写结果
type TranscribeResponse struct {
	Success         bool   `json:"success"`
	TranscribedText string `json:"transcribed_text"`
	Language        string `json:"language"`
	FileName        string `json:"file_name"`
	FileSize        int    `json:"file_size"`
	ModelUsed       string `json:"model_used"`
}

// Transcribe 上传音频并转写为文本
// @Summary 语音转写
// @Tags 语音转写
// @Accept multipart/form-data
// @Produce json
// @Param audio_file formData file true "音频文件（wav、mp3、m4a、flac 等）"
// @Param model query string false "转写模型" Enums(tiny, base, small, medium, large, turbo) default(turbo)
// @Param language query string false "语言代码，缺省时自动识别"
// @Success 200 {object} TranscribeResponse
// @Failure 400 {object} ErrorResponse "不是音频文件"
// @Failure 500 {object} ErrorResponse "转写失败"
// @Router /stt/transcribe [post]
func (h *STTHandler) Transcribe(c *gin.Context) {
	header, err := c.FormFile("audio_file")
	if err != nil {
		BadRequest(c, "audio_file is required")
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "audio/") {
		BadRequest(c, "File must be an audio file")
		return
	}

	model := c.DefaultQuery("model", service.DefaultWhisperModel)
	if !slices.Contains(service.WhisperModels, model) {
		BadRequest(c, "Invalid model: "+model+". Choose one of "+strings.Join(service.WhisperModels, ", "))
		return
	}

	file, err := header.Open()
	if err != nil {
		InternalError(c, "Failed to process audio file: "+err.Error())
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		InternalError(c, "Failed to process audio file: "+err.Error())
		return
	}

	result, err := h.transcriber.Transcribe(c.Request.Context(), service.TranscribeInput{
		Model:    model,
		Language: c.Query("language"),
		FileName: header.Filename,
		Audio:    bytes.NewReader(content),
	})
	if err != nil {
		h.log.Error("转写失败", zap.String("file", header.Filename), zap.String("model", model), zap.Error(err))
		InternalError(c, "Transcription failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, TranscribeResponse{
		Success:         true,
		TranscribedText: result.Text,
		Language:        result.Language,
		FileName:        header.Filename,
		FileSize:        len(content),
		ModelUsed:       "whisper-" + model,
	})
}

// Health 转写服务健康检查
// @Summary 转写服务健康检查
// @Tags 语音转写
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /stt/health [get]
func (h *STTHandler) Health(c *gin.Context) {
	if err := h.transcriber.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"service":           "stt",
			"status":            "unhealthy",
			"whisper_available": false,
			"error":             err.Error(),
			"message":           "STT service is not ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service":           "stt",
		"status":            "healthy",
		"whisper_available": true,
		"message":           "STT service is ready with Whisper",
	})
}
