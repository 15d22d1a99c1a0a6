package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"ollamahub/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct {
	result  *service.Transcription
	err     error
	pingErr error
	got     service.TranscribeInput
	audio   []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, in service.TranscribeInput) (*service.Transcription, error) {
	f.got = in
	f.audio, _ = io.ReadAll(in.Audio)
	return f.result, f.err
}

func (f *fakeTranscriber) Ping(context.Context) error { return f.pingErr }

func newSTTRouter(tr Transcriber) *gin.Engine {
	h := NewSTTHandler(tr, nil)
	r := gin.New()
	r.POST("/stt/transcribe", h.Transcribe)
	r.GET("/stt/health", h.Health)
	return r
}

// uploadTo 构造带指定 Content-Type 的 multipart 上传请求并交给路由处理
func uploadTo(t *testing.T, r *gin.Engine, path, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="audio_file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSTTHandler_Transcribe(t *testing.T) {
	tr := &fakeTranscriber{result: &service.Transcription{Text: "hello world", Language: "en"}}
	r := newSTTRouter(tr)

	w := uploadTo(t, r, "/stt/transcribe?model=base&language=en", "hello.wav", "audio/wav", []byte("RIFFdata"))

	require.Equal(t, 200, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "hello world", resp["transcribed_text"])
	assert.Equal(t, "en", resp["language"])
	assert.Equal(t, "hello.wav", resp["file_name"])
	assert.Equal(t, float64(8), resp["file_size"])
	assert.Equal(t, "whisper-base", resp["model_used"])

	assert.Equal(t, "base", tr.got.Model)
	assert.Equal(t, "en", tr.got.Language)
	assert.Equal(t, []byte("RIFFdata"), tr.audio)
}

func TestSTTHandler_Transcribe_DefaultModel(t *testing.T) {
	tr := &fakeTranscriber{result: &service.Transcription{Text: "x", Language: "auto-detected"}}
	w := uploadTo(t, newSTTRouter(tr), "/stt/transcribe", "a.mp3", "audio/mpeg", []byte("ID3"))

	require.Equal(t, 200, w.Code)
	assert.Equal(t, service.DefaultWhisperModel, tr.got.Model)
	assert.Equal(t, "whisper-turbo", decodeBody(t, w)["model_used"])
}

func TestSTTHandler_Transcribe_Rejects(t *testing.T) {
	tr := &fakeTranscriber{}
	r := newSTTRouter(tr)

	w := uploadTo(t, r, "/stt/transcribe", "notes.txt", "text/plain", []byte("hi"))
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "File must be an audio file", decodeBody(t, w)["detail"])

	w = uploadTo(t, r, "/stt/transcribe?model=huge", "a.wav", "audio/wav", []byte("x"))
	assert.Equal(t, 400, w.Code)

	req := httptest.NewRequest("POST", "/stt/transcribe", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 400, w.Code)

	assert.Nil(t, tr.audio, "被拒绝的请求不应调用转写后端")
}

func TestSTTHandler_Transcribe_BackendFailure(t *testing.T) {
	tr := &fakeTranscriber{err: errors.New("decoder crashed")}
	w := uploadTo(t, newSTTRouter(tr), "/stt/transcribe", "a.wav", "audio/wav", []byte("x"))

	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "Transcription failed: decoder crashed", decodeBody(t, w)["detail"])
}

func TestSTTHandler_Health(t *testing.T) {
	w := doJSON(newSTTRouter(&fakeTranscriber{}), "GET", "/stt/health", "")
	resp := decodeBody(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, true, resp["whisper_available"])

	w = doJSON(newSTTRouter(&fakeTranscriber{pingErr: errors.New("refused")}), "GET", "/stt/health", "")
	assert.Equal(t, 200, w.Code)
	resp = decodeBody(t, w)
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, false, resp["whisper_available"])
	assert.Equal(t, "refused", resp["error"])
}
