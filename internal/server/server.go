package server

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/sevens/internal/config"
	"github.com/palemoky/sevens/internal/game/room"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/server/handler"
	"github.com/palemoky/sevens/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
	// 消息都很小，压缩得不偿失
	EnableCompression: false,
}

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	redisStore  *storage.RedisStore
	leaderboard *storage.LeaderboardManager
	roomManager *room.RoomManager
	handler     *handler.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	httpServer *http.Server
	stop       context.CancelFunc
}

// New 创建服务器实例，Redis 连接由调用方负责建立和关闭
func New(cfg *config.Config, rdb *redis.Client) *Server {
	s := &Server{
		config:         cfg,
		redisStore:     storage.NewRedisStore(rdb),
		leaderboard:    storage.NewLeaderboardManager(rdb),
		clients:        make(map[string]*Client),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		stop:           func() {},
	}

	s.roomManager = room.NewRoomManager(room.Options{
		CheckInterval: cfg.Game.CheckIntervalDuration(),
		ReapInterval:  cfg.Game.ReapIntervalDuration(),
		MailboxSize:   cfg.Game.MailboxSize,
		Store:         s.redisStore,
		Recorder:      s.leaderboard,
	})

	s.handler = handler.NewHandler(handler.HandlerDeps{
		RoomManager: s.roomManager,
		Leaderboard: s.leaderboard,
	})

	logger.LogInfo("🔒 连接配置: 最大连接数=%d, 单连接消息限制=%d/s", cfg.Server.MaxConnections, cfg.Server.MessageRate)
	return s
}

// RoomManager 房间管理器
func (s *Server) RoomManager() *room.RoomManager {
	return s.roomManager
}

// Routes HTTP 路由
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start 启动服务器，阻塞直到 Shutdown
func (s *Server) Start() error {
	addr := s.config.Server.Addr()

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go s.monitorStats(ctx)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.LogInfo("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
