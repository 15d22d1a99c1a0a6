package agent

import "errors"

// Kind 错误归类
type Kind int

const (
	// KindClient 调用方导致：参数校验失败、模型不可用、生成流程失败
	KindClient Kind = iota + 1
	// KindServer 服务端导致：存储失败等意外错误
	KindServer
)

// Error 对话流程的失败结果，按值返回，由 HTTP 层映射为 400 / 500
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ClientError 构造客户端错误
func ClientError(msg string) *Error {
	return &Error{Kind: KindClient, Message: msg}
}

// ServerError 构造服务端错误
func ServerError(msg string, err error) *Error {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: KindServer, Message: msg, Err: err}
}

// KindOf 返回错误归类，非 *Error 一律视为服务端错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}
