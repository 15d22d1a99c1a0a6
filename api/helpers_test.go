package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"ollamahub/agent"
	"ollamahub/database"
	"ollamahub/models"
	"ollamahub/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupMockDB 使用 sqlmock 替换全局数据库连接
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type fakeChat struct {
	result *agent.ChatResult
	err    error
	got    agent.ChatInput
}

func (f *fakeChat) HandleChat(_ context.Context, in agent.ChatInput) (*agent.ChatResult, error) {
	f.got = in
	return f.result, f.err
}

type fakeRegistry struct {
	mu        sync.Mutex
	models    []string
	refreshed int
	next      []string
}

func (r *fakeRegistry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.models...)
}

func (r *fakeRegistry) Refresh(context.Context) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshed++
	if r.next != nil {
		r.models = r.next
	}
	return append([]string(nil), r.models...)
}

type fakeHistory struct {
	turns map[string][]models.ChatInteraction
	err   error
}

func (h *fakeHistory) LoadHistory(_ context.Context, sessionID string) ([]models.ChatInteraction, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.turns[sessionID], nil
}

// fakeBackend 同时实现 ModelPuller 和 OllamaBackend
type fakeBackend struct {
	tags       []service.OllamaModel
	tagsErr    error
	pullDetail map[string]any
	pullErr    error
	unloadErr  error
	version    string
	versionErr error

	pulled   []string
	unloaded []string
}

func (b *fakeBackend) Tags(context.Context) ([]service.OllamaModel, error) {
	return b.tags, b.tagsErr
}

func (b *fakeBackend) Pull(_ context.Context, model string) (map[string]any, error) {
	b.pulled = append(b.pulled, model)
	if b.pullErr != nil {
		return nil, b.pullErr
	}
	return b.pullDetail, nil
}

func (b *fakeBackend) Unload(_ context.Context, model string) error {
	b.unloaded = append(b.unloaded, model)
	return b.unloadErr
}

func (b *fakeBackend) Version(context.Context) (string, error) {
	return b.version, b.versionErr
}

func (b *fakeBackend) BaseURL() string { return "http://ollama:11434" }
