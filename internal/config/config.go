package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 1777
	defaultMaxConnections  = 1000
	defaultShutdownTimeout = 10
	defaultMessageRate     = 20
	defaultRedisAddr       = "localhost:6379"
	defaultCheckInterval   = 60
	defaultReapInterval    = 600
	defaultMailboxSize     = 256
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxConnections  int    `yaml:"max_connections"`  // 最大并发连接数
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // 优雅关闭超时（秒）
	MessageRate     int    `yaml:"message_rate"`     // 单个连接每秒最多消息数
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 房间与活性检测配置
type GameConfig struct {
	CheckInterval int `yaml:"check_interval"` // 房间巡检周期（秒）
	ReapInterval  int `yaml:"reap_interval"`  // 空闲房间回收周期（秒）
	MailboxSize   int `yaml:"mailbox_size"`   // 每个座位的消息队列长度
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// CheckIntervalDuration 返回巡检周期
func (c *GameConfig) CheckIntervalDuration() time.Duration {
	return time.Duration(c.CheckInterval) * time.Second
}

// ReapIntervalDuration 返回回收周期
func (c *GameConfig) ReapIntervalDuration() time.Duration {
	return time.Duration(c.ReapInterval) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭超时
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Addr 监听地址
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Server.MessageRate == 0 {
		c.Server.MessageRate = defaultMessageRate
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Game.CheckInterval == 0 {
		c.Game.CheckInterval = defaultCheckInterval
	}
	if c.Game.ReapInterval == 0 {
		c.Game.ReapInterval = defaultReapInterval
	}
	if c.Game.MailboxSize == 0 {
		c.Game.MailboxSize = defaultMailboxSize
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// LoadEnvFile 读取 .env 文件到进程环境；文件不存在时忽略
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return nil
}

// ApplyEnv 用 SEVENS_* 环境变量覆盖配置
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"SEVENS_HOST":           &c.Server.Host,
		"SEVENS_REDIS_ADDR":     &c.Redis.Addr,
		"SEVENS_REDIS_PASSWORD": &c.Redis.Password,
		"SEVENS_LOG_LEVEL":      &c.Log.Level,
		"SEVENS_LOG_FORMAT":     &c.Log.Format,
		"SEVENS_LOG_FILE":       &c.Log.File,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SEVENS_PORT":            &c.Server.Port,
		"SEVENS_MAX_CONNECTIONS": &c.Server.MaxConnections,
		"SEVENS_MESSAGE_RATE":    &c.Server.MessageRate,
		"SEVENS_REDIS_DB":        &c.Redis.DB,
		"SEVENS_CHECK_INTERVAL":  &c.Game.CheckInterval,
		"SEVENS_REAP_INTERVAL":   &c.Game.ReapInterval,
		"SEVENS_MAILBOX_SIZE":    &c.Game.MailboxSize,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q 不是整数: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}
