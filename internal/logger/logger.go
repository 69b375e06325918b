package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

const maxLogSize = 10 * 1024 * 1024 // 超过 10MB 轮转

// Options 日志配置
type Options struct {
	Level  string // debug/info/warn/error
	Format string // text/json
	File   string // 为空时只输出到 stderr
}

var (
	std     = logrus.New()
	logFile *os.File
)

// Init 按配置初始化全局日志
func Init(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
		}
		level = l
	}
	std.SetLevel(level)

	switch opts.Format {
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	}

	if opts.File == "" {
		std.SetOutput(os.Stderr)
		return nil
	}

	f, err := openRotated(opts.File)
	if err != nil {
		return err
	}
	Close()
	logFile = f
	std.SetOutput(io.MultiWriter(os.Stderr, f))

	LogInfo("📝 日志文件: %s", opts.File)
	return nil
}

// openRotated 打开日志文件，过大时先改名备份
func openRotated(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		backup := fmt.Sprintf("%s.%d", path, time.Now().Unix())
		_ = os.Rename(path, backup)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return f, nil
}

// Close 关闭日志文件
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// L 返回全局 logger
func L() *logrus.Logger {
	return std
}

// SetOutput 替换输出，测试用
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// WithRoom 带房间字段
func WithRoom(id string) *logrus.Entry {
	return std.WithField("room", id)
}

// WithClient 带连接字段
func WithClient(id string) *logrus.Entry {
	return std.WithField("client", id)
}

func LogDebug(format string, args ...any) {
	std.Debugf(format, args...)
}

func LogInfo(format string, args ...any) {
	std.Infof(format, args...)
}

func LogWarn(format string, args ...any) {
	std.Warnf(format, args...)
}

func LogError(format string, args ...any) {
	std.Errorf(format, args...)
}

// LogPanic 记录 panic 与调用栈
func LogPanic(r any) {
	std.WithField("stack", string(debug.Stack())).Errorf("[PANIC] %v", r)
}
