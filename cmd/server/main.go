package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/sevens/internal/config"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	envPath := flag.String("env", ".env", "环境变量文件路径")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		logger.L().Fatalf("加载环境变量失败: %v", err)
	}

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.LogWarn("⚠️ 加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(); err != nil {
		logger.L().Fatalf("环境变量无效: %v", err)
	}

	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}); err != nil {
		logger.L().Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = rdb.Ping(ctx).Err()
	cancel()
	if err != nil {
		logger.L().Fatalf("redis 连接失败: %v", err)
	}

	srv := server.New(cfg, rdb)

	// 上一个进程留下的房间快照已经没有对应的内存状态
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	if _, err := srv.RoomManager().PurgeStale(ctx); err != nil {
		logger.LogWarn("⚠️ 清理遗留房间失败: %v", err)
	}
	cancel()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-quit
		logger.LogInfo("正在关闭服务器...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.LogError("关闭服务器出错: %v", err)
		}
	}()

	logger.LogInfo("🎮 牌七服务器启动中...")
	if err := srv.Start(); err != nil {
		logger.L().Fatalf("服务器启动失败: %v", err)
	}
	<-done
}
