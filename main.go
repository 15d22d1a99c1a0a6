package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ollamahub/agent"
	"ollamahub/api"
	"ollamahub/config"
	"ollamahub/database"
	"ollamahub/logger"
	"ollamahub/router"
	"ollamahub/service"
	"ollamahub/store"
	"ollamahub/tracer"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// @title OllamaHub API
// @version 1.0
// @description 基于 Ollama 的多轮对话服务，提供会话管理、模型管理、请求记录和语音转写接口
// @host localhost:8000
// @BasePath /

const version = "v1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8000 或 :8000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println("OllamaHub " + version)
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	config.PrintConfig()

	zl, err := logger.New(cfg.Log, config.IsRelease())
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.SetGlobal(zl)
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracer.InitTracer(cfg.Tracing, zl)

	if err := database.Init(cfg); err != nil {
		zl.Fatal("数据库初始化失败", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			zl.Warn("关闭数据库失败", zap.Error(err))
		}
	}()

	ollama := service.NewOllamaClient(cfg.Ollama.BaseURL, cfg.Ollama.Timeout, cfg.Ollama.Temperature)

	var gen agent.Generator = ollama
	if cfg.Ollama.Provider == "openai" {
		gen = service.NewOpenAIGenerator(cfg.Ollama.BaseURL, "", cfg.Ollama.Timeout, cfg.Ollama.Temperature)
	}

	// 启动时拉取一次模型列表，之后后台定时刷新
	reg := agent.NewRegistry(ollama, zl)
	reg.Refresh(ctx)
	go reg.Run(ctx, cfg.Ollama.RefreshInterval)

	st := store.NewConversationStore(database.GetDB())
	orch := agent.NewOrchestrator(reg, st, gen, zl)

	r := router.SetupRouter(cfg, router.Handlers{
		Chat:          api.NewChatHandler(orch, reg, ollama, st, ollama.BaseURL(), zl),
		Ollama:        api.NewOllamaHandler(ollama, cfg.Ollama.MaxLoadedModels, cfg.Ollama.KeepAlive, zl),
		ModelRequests: api.NewModelRequestHandler(),
		STT:           api.NewSTTHandler(service.NewWhisperClient(cfg.Whisper), zl),
	}, zl)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	printBanner(cfg, reg.List())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zl.Error("服务器启动失败", zap.Error(err))
		}
	case <-ctx.Done():
		zl.Info("收到退出信号，开始关闭服务")
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("服务器关闭失败", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		zl.Warn("链路追踪关闭失败", zap.Error(err))
	}
	zl.Info("服务已退出")
}

func printBanner(cfg *config.Config, models []string) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgGreen)

	title.Println("==========================================")
	title.Printf("  OllamaHub %s 已启动\n", version)
	title.Println("==========================================")
	label.Print("  对话接口: ")
	fmt.Printf("http://localhost%s/chat\n", cfg.Server.Port)
	label.Print("  Swagger:  ")
	fmt.Printf("http://localhost%s/swagger/index.html\n", cfg.Server.Port)
	label.Print("  Ollama:   ")
	fmt.Println(cfg.Ollama.BaseURL)
	label.Print("  可用模型: ")
	if len(models) == 0 {
		color.Yellow("无（后端不可达或未安装模型）")
	} else {
		fmt.Println(strings.Join(models, ", "))
	}
	title.Println("==========================================")
}
