package tracer

import (
	"context"

	"ollamahub/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// ShutdownFunc 退出前调用，刷新未发送的 span
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// InitTracer 初始化 OTLP/HTTP 链路追踪，未启用时返回空操作
// 创建 exporter 失败不影响服务启动，只记录警告
func InitTracer(cfg config.TracingConfig, log *zap.Logger) ShutdownFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("链路追踪未启用")
		return noop
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "localhost:4318"
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ollamahub"
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Warn("创建 OTLP exporter 失败，链路追踪已禁用", zap.Error(err))
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Info("链路追踪已启用", zap.String("endpoint", endpoint), zap.String("service", serviceName))

	return tp.Shutdown
}
