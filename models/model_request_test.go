package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRequest_BeforeCreate(t *testing.T) {
	m := &ModelRequest{ModelName: "llama3.1:8b", Prompt: "hi"}
	require.NoError(t, m.BeforeCreate(nil))

	_, err := uuid.Parse(m.RequestID)
	assert.NoError(t, err, "request_id 应为 uuid")
	assert.Equal(t, RequestStatusPending, m.Status)

	// 已有值不覆盖
	m2 := &ModelRequest{RequestID: "fixed", Status: RequestStatusCompleted}
	require.NoError(t, m2.BeforeCreate(nil))
	assert.Equal(t, "fixed", m2.RequestID)
	assert.Equal(t, RequestStatusCompleted, m2.Status)
}

func TestValidRequestStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "completed", "failed"} {
		assert.True(t, ValidRequestStatus(s), s)
	}
	assert.False(t, ValidRequestStatus(""))
	assert.False(t, ValidRequestStatus("done"))
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "chat_interactions", ChatInteraction{}.TableName())
	assert.Equal(t, "model_requests", ModelRequest{}.TableName())
}
