package agent

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrNoHumanMessage 消息序列为空或最后一条不是用户消息
const ErrNoHumanMessage = "no valid human message found"

const tracerName = "ollamahub/agent"

// TurnState 单轮生成流程的状态：Start -> Generate -> End
type TurnState struct {
	Messages  []Message
	ModelName string
	Response  string
	Error     string
}

// RunTurn 执行一轮生成
// 守卫失败时不调用后端；生成失败时记录错误、不追加消息；每次最多调用一次后端，不重试
func RunTurn(ctx context.Context, gen Generator, st TurnState) TurnState {
	st.Response = ""
	st.Error = ""

	n := len(st.Messages)
	if n == 0 || st.Messages[n-1].Role != RoleUser {
		st.Error = ErrNoHumanMessage
		return st
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "chat.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", st.ModelName),
		attribute.Int("llm.messages", n),
	)

	text, err := gen.Generate(ctx, st.ModelName, st.Messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		st.Error = err.Error()
		return st
	}

	// 复制后追加，避免修改调用方持有的切片
	st.Messages = append(slices.Clip(st.Messages), Message{Role: RoleAssistant, Content: text})
	st.Response = text
	return st
}
