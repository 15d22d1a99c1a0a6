package agent

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultModels 无法从生成后端获取列表时使用的兜底模型
var DefaultModels = []string{"llama3.1:8b", "gpt-oss:20b", "mistral:7b"}

// Registry 当前已知可用的生成模型集合
// 刷新时整体替换快照，读者不会看到半更新的集合
type Registry struct {
	source   ModelLister
	fallback []string
	log      *zap.Logger

	models atomic.Pointer[[]string]
}

// NewRegistry 创建模型注册表，初始为空集合，需调用 Refresh 填充
func NewRegistry(source ModelLister, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		source:   source,
		fallback: slices.Clone(DefaultModels),
		log:      log,
	}
	empty := []string{}
	r.models.Store(&empty)
	return r
}

// Refresh 从生成后端拉取模型列表并替换当前集合
// 任何失败都回退到默认集合，不返回错误
func (r *Registry) Refresh(ctx context.Context) []string {
	names, err := r.fetch(ctx)
	if err != nil {
		r.log.Warn("获取模型列表失败，使用默认模型", zap.Error(err), zap.Strings("fallback", r.fallback))
		names = slices.Clone(r.fallback)
	} else {
		r.log.Info("模型列表已刷新", zap.Int("count", len(names)))
	}
	r.models.Store(&names)
	return slices.Clone(names)
}

func (r *Registry) fetch(ctx context.Context) (names []string, err error) {
	if r.source == nil {
		return nil, fmt.Errorf("未配置模型来源")
	}
	// 后端实现异常也不能影响调用方
	defer func() {
		if p := recover(); p != nil {
			names, err = nil, fmt.Errorf("模型来源异常: %v", p)
		}
	}()
	names, err = r.source.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// List 返回当前模型集合的副本
func (r *Registry) List() []string {
	return slices.Clone(*r.models.Load())
}

// Contains 判断模型是否在当前集合中
func (r *Registry) Contains(name string) bool {
	return slices.Contains(*r.models.Load(), name)
}

// Run 按固定间隔刷新，直到 ctx 结束；interval <= 0 时直接返回
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}
