// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找，敏感项可由 .env / 环境变量覆盖
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称
	Host     string `toml:"host"`     // 服务器监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 服务器监听端口，如 8000
	Mode     string `toml:"mode"`     // 运行模式：dev / release
	ForceTLS bool   `toml:"forceTLS"` // 是否把 HTTP 重定向到 HTTPS（由 Nginx 处理 SSL 时关闭）
}

// DatabaseConfig 关系型数据库连接配置
type DatabaseConfig struct {
	Driver       string `toml:"driver"`       // mysql / postgres / sqlite
	Host         string `toml:"host"`         // 数据库地址
	Port         int    `toml:"port"`         // 端口
	User         string `toml:"user"`         // 用户名
	Password     string `toml:"password"`     // 密码
	DatabaseName string `toml:"databaseName"` // 库名；sqlite 下为文件路径
	DSN          string `toml:"dsn"`          // 直接给出 DSN 时忽略上面的字段
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`  // 关闭时不使用缓存与单点互踢
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号
	Workers  int    `toml:"workers"`  // 异步缓存任务 worker 数
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig Kafka 消息队列配置
// messageMode=kafka 时，订单广播经 Kafka 扇出到所有实例
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // "channel"（单机）或 "kafka"（多实例）
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	ChatTopic   string        `toml:"chatTopic"`   // 订单消息事件主题
	Partition   int           `toml:"partition"`   // 分区数
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
	// InstanceID 实例标识，兼作消费组名；为空时取主机名
	InstanceID  string        `toml:"instanceId"`
}

// StaticSrcConfig 静态资源路径配置
type StaticSrcConfig struct {
	StaticImagePath string `toml:"staticImagePath"` // 消息图片本地存储路径（未启用 S3 时）
}

// S3Config 消息图片对象存储配置
type S3Config struct {
	Enabled              bool   `toml:"enabled"`
	Region               string `toml:"region"`
	Bucket               string `toml:"bucket"`
	AccessKeyID          string `toml:"accessKeyID"`
	SecretAccessKey      string `toml:"secretAccessKey"`
	PresignExpiryMinutes int    `toml:"presignExpiryMinutes"`
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// MessagingConfig 订单留言配置
type MessagingConfig struct {
	PollIntervalSeconds  int    `toml:"pollIntervalSeconds"`  // 客户端轮询兜底间隔
	DefaultSubjectFormat string `toml:"defaultSubjectFormat"` // 默认主题，%s 为订单号
	GeneralSubject       string `toml:"generalSubject"`       // 非订单留言的默认主题
	ReplySubjectPrefix   string `toml:"replySubjectPrefix"`   // 回复主题前缀
	WelcomeMessage       string `toml:"welcomeMessage"`       // 连接建立时的欢迎语
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
	S3Config        `toml:"s3Config"`
	JWTConfig       `toml:"jwtConfig"`
	MessagingConfig `toml:"messagingConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// DefaultPaths 候选配置文件路径（优先加载本地配置）
var DefaultPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// Default 返回填充了默认值的配置
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "gemstore",
			Host:    "0.0.0.0",
			Port:    8000,
			Mode:    "dev",
		},
		DatabaseConfig: DatabaseConfig{
			Driver:       "mysql",
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			DatabaseName: "gemstore",
		},
		RedisConfig: RedisConfig{
			Host:    "127.0.0.1",
			Port:    6379,
			Workers: 4,
		},
		LogConfig: LogConfig{
			LogPath: "logs",
			Level:   "info",
		},
		KafkaConfig: KafkaConfig{
			MessageMode: "channel",
			HostPort:    "127.0.0.1:9092",
			ChatTopic:   "order_chat_events",
			Partition:   1,
			Timeout:     1,
		},
		StaticSrcConfig: StaticSrcConfig{
			StaticImagePath: "static/images",
		},
		S3Config: S3Config{
			Region:               "us-east-1",
			PresignExpiryMinutes: 60,
		},
		JWTConfig: JWTConfig{
			AccessTokenExpiry:  60,
			RefreshTokenExpiry: 168,
		},
		MessagingConfig: MessagingConfig{
			PollIntervalSeconds:  5,
			DefaultSubjectFormat: "Order #%s",
			GeneralSubject:       "General inquiry",
			ReplySubjectPrefix:   "Re: ",
			WelcomeMessage:       "Connected to order messaging",
		},
	}
}

// Load 依次尝试从候选路径加载配置文件，找到第一个可用的即停止
// 文件中未出现的字段保留默认值；随后应用 .env / 环境变量覆盖
func Load(paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	cfg := Default()
	var loadErr error
	loaded := false
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, cfg); err == nil {
			loaded = true
			break
		} else if !os.IsNotExist(err) {
			loadErr = fmt.Errorf("decode %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if !loaded {
		if loadErr != nil {
			return cfg, loadErr
		}
		return cfg, fmt.Errorf("could not find configuration file in any of the search paths")
	}
	return cfg, nil
}

// applyEnvOverrides 用环境变量覆盖敏感配置
func applyEnvOverrides(cfg *Config) {
	// .env 不存在时直接使用系统环境变量
	_ = godotenv.Load()

	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.DatabaseConfig.Driver = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DatabaseConfig.DSN = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DatabaseConfig.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisConfig.Password = v
	}
	if v := os.Getenv("KAFKA_INSTANCE_ID"); v != "" {
		cfg.KafkaConfig.InstanceID = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTConfig.Secret = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.S3Config.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.S3Config.SecretAccessKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MainConfig.Port = port
		}
	}
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用默认值
func GetConfig() *Config {
	if config == nil {
		config, _ = Load()
	}
	return config
}

// SetConfig 替换全局配置（测试或 CLI 指定配置文件时使用）
func SetConfig(cfg *Config) {
	config = cfg
}

// PollInterval 客户端轮询兜底间隔
func (m MessagingConfig) PollInterval() time.Duration {
	if m.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(m.PollIntervalSeconds) * time.Second
}
