package apperrors

import (
	"errors"
	"fmt"

	"github.com/palemoky/sevens/internal/protocol"
)

// GameError 游戏错误（房间、管理器与处理器共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is 按错误码匹配，便于 errors.Is(err, ErrPermissionDenied) 忽略具体原因
func (e *GameError) Is(target error) bool {
	var t *GameError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// 预定义错误，每种对应一个协议错误码
var (
	ErrNotFound          = &GameError{Code: protocol.ErrCodeNotFound, Message: "房间或座位不存在"}
	ErrAlreadyExists     = &GameError{Code: protocol.ErrCodeAlreadyExists, Message: "已经存在"}
	ErrResourceExhausted = &GameError{Code: protocol.ErrCodeResourceExhausted, Message: "房间已满"}
	ErrPermissionDenied  = &GameError{Code: protocol.ErrCodePermissionDenied, Message: "当前不允许该操作"}
	ErrInvalidArgument   = &GameError{Code: protocol.ErrCodeInvalidArgument, Message: "参数不合法"}
	ErrInternal          = &GameError{Code: protocol.ErrCodeInternal, Message: "服务器内部错误"}
)

// New 创建带具体原因的错误
func New(kind *GameError, format string, args ...any) *GameError {
	return &GameError{Code: kind.Code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf 返回错误码；非 GameError 视为内部错误
func CodeOf(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeInternal
}
