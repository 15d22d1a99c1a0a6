package router

import (
	"net/http"
	"time"

	"ollamahub/api"
	"ollamahub/config"
	_ "ollamahub/docs"
	"ollamahub/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers 路由用到的处理器，由 main 组装
type Handlers struct {
	Chat          *api.ChatHandler
	Ollama        *api.OllamaHandler
	ModelRequests *api.ModelRequestHandler
	STT           *api.STTHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, log *zap.Logger) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	api.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	// CORS 中间件
	r.Use(CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Ollama service is running"})
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 对话
	chat := r.Group("/chat")
	{
		chat.POST("", middleware.RateLimit(cfg.RateLimit.ChatPerMinute, time.Minute), h.Chat.Chat)
		chat.GET("/health", h.Chat.Health)
		chat.POST("/models/reload", h.Chat.ReloadModels)
		chat.POST("/models/pull", h.Chat.PullModel)
		chat.GET("/sessions/:session_id", h.Chat.SessionHistory)
		chat.GET("/sessions/:session_id/export", h.Chat.ExportSession)
	}

	// 后端模型管理
	ollama := r.Group("/ollama/models")
	{
		ollama.GET("", h.Ollama.List)
		ollama.GET("/status", h.Ollama.Status)
		ollama.GET("/health", h.Ollama.Health)
		ollama.POST("/:model_name/load", h.Ollama.Load)
		ollama.DELETE("/:model_name/unload", h.Ollama.Unload)
	}

	// 请求记录
	requests := r.Group("/models")
	{
		requests.GET("", h.ModelRequests.List)
		requests.POST("", h.ModelRequests.Create)
		requests.GET("/:request_id", h.ModelRequests.Get)
		requests.PUT("/:request_id", h.ModelRequests.Update)
		requests.DELETE("/:request_id", h.ModelRequests.Delete)
	}

	// 语音转写
	stt := r.Group("/stt")
	{
		stt.POST("/transcribe", middleware.RateLimit(cfg.RateLimit.STTPerMinute, time.Minute), h.STT.Transcribe)
		stt.GET("/health", h.STT.Health)
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
