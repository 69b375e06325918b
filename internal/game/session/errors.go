package session

import "errors"

// 规则引擎错误类别，具体原因用 fmt.Errorf("%w: ...") 包装
var (
	ErrPermissionDenied = errors.New("不允许的操作")
	ErrNotFound         = errors.New("座位不存在")
	ErrAlreadyDone      = errors.New("重复操作")
	ErrInternal         = errors.New("内部错误")
)
