package server

import (
	"context"
	"runtime"
	"time"

	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
)

const monitorInterval = 30 * time.Second

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats(ctx context.Context) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		logger.LogInfo("📊 [监控] 在线: %d | 房间: %d | 牌局: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.roomManager.Count(),
			s.roomManager.GetActiveGamesCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// Shutdown 优雅关闭：停止接受新连接，通知并断开所有客户端，关闭全部房间
func (s *Server) Shutdown(ctx context.Context) error {
	if games := s.roomManager.GetActiveGamesCount(); games > 0 {
		logger.LogWarn("⚠️ 仍有 %d 个牌局进行中，强制关闭", games)
	}

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.stop()

	s.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeServerBusy, "🚧 服务器正在停机维护"))

	// 关闭所有客户端连接（升级后的连接不归 http.Server 管）
	s.clientsMu.RLock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.RUnlock()

	s.roomManager.Close()
	logger.LogInfo("服务器已关闭")
	return err
}
