package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeNotFound          = 2001 // 房间或座位不存在
	ErrCodeAlreadyExists     = 2002 // 房间已存在、重复准备、重复订阅
	ErrCodeResourceExhausted = 2003 // 房间已满
	ErrCodePermissionDenied  = 3001 // 当前状态不允许该操作
	ErrCodeInvalidArgument   = 3002 // 参数不合法
	ErrCodeInternal          = 5000
	ErrCodeServerBusy        = 5003 // 连接数已满
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeNotFound:          "房间或座位不存在",
	ErrCodeAlreadyExists:     "已经存在",
	ErrCodeResourceExhausted: "房间已满",
	ErrCodePermissionDenied:  "当前不允许该操作",
	ErrCodeInvalidArgument:   "参数不合法",
	ErrCodeInternal:          "服务器内部错误",
	ErrCodeServerBusy:        "服务器繁忙",
}
