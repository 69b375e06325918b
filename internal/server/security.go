package server

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// GetClientIP 获取客户端真实 IP
func GetClientIP(r *http.Request) string {
	// 检查代理头
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// 取第一个 IP（最原始的客户端）
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// newMessageLimiter 单个连接的消息速率限制，突发上限为一秒的配额。
// maxPerSecond <= 0 表示不限制。
func newMessageLimiter(maxPerSecond int) *rate.Limiter {
	if maxPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(maxPerSecond), maxPerSecond)
}
