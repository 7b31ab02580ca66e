package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Auth     AuthConfig     `mapstructure:"auth"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// GatewayConfig 网关域名与转发目标配置
type GatewayConfig struct {
	// Domain 所有别名共用的管理域名
	Domain string `mapstructure:"domain"`
	// TargetEmails 入站邮件的转发目标，按配置顺序投递
	TargetEmails []string `mapstructure:"target_emails"`
}

// AuthConfig 管理接口鉴权配置。
// Hash 是 sha256(secret || salt) 的十六进制摘要，由 genauth 工具生成，
// 明文密钥不落地。
type AuthConfig struct {
	Salt string `mapstructure:"salt"`
	Hash string `mapstructure:"hash"`
}

// SMTPConfig SMTP 接收与转发配置
type SMTPConfig struct {
	// BindAddr SMTP 服务器监听地址
	BindAddr string `mapstructure:"bind_addr"`
	// Hostname 服务器问候语中使用的主机名
	Hostname string `mapstructure:"hostname"`
	// RelayAddr 出站转发使用的上游 SMTP 地址（host:port）
	RelayAddr string `mapstructure:"relay_addr"`
	// MaxMessageBytes 单封邮件的最大字节数
	MaxMessageBytes int64 `mapstructure:"max_message_bytes"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 存储类型：memory、postgres、mysql
	Type            string        `mapstructure:"type"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	FilePath    string `mapstructure:"file_path"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load 加载应用配置。
// 优先级：环境变量 > .env 文件 > 默认值，环境变量前缀为 ALIASGATE_。
func Load() (*Config, error) {
	// .env 不存在时忽略错误，生产环境直接用环境变量
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("aliasgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// AutomaticEnv 不会把逗号分隔的字符串解析成切片，手动补一遍
	if raw := v.GetString("gateway.target_emails"); raw != "" {
		cfg.Gateway.TargetEmails = parseList(raw)
	}
	if raw := v.GetString("cors.allowed_origins"); raw != "" {
		cfg.CORS.AllowedOrigins = parseList(raw)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("gateway.domain", "")
	v.SetDefault("gateway.target_emails", "")

	v.SetDefault("auth.salt", "")
	v.SetDefault("auth.hash", "")

	v.SetDefault("smtp.bind_addr", "0.0.0.0:2525")
	v.SetDefault("smtp.hostname", "localhost")
	v.SetDefault("smtp.relay_addr", "")
	v.SetDefault("smtp.max_message_bytes", int64(25*1024*1024))

	v.SetDefault("database.type", "memory")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file_path", "")

	v.SetDefault("cors.allowed_origins", "*")
}

// parseList 把逗号分隔的字符串解析成去空白、去空项的切片
func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Validate 校验配置，缺少关键项时启动失败
func (c *Config) Validate() error {
	if c.Gateway.Domain == "" {
		return fmt.Errorf("gateway.domain is required (set ALIASGATE_GATEWAY_DOMAIN)")
	}
	if len(c.Gateway.TargetEmails) == 0 {
		return fmt.Errorf("gateway.target_emails is required (set ALIASGATE_GATEWAY_TARGET_EMAILS)")
	}
	if c.Auth.Hash == "" || c.Auth.Salt == "" {
		return fmt.Errorf("auth.hash and auth.salt are required, generate them with cmd/genauth")
	}
	if c.SMTP.RelayAddr == "" {
		return fmt.Errorf("smtp.relay_addr is required (set ALIASGATE_SMTP_RELAY_ADDR)")
	}
	switch c.Database.Type {
	case "memory", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Database.Type != "memory" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for database type %s", c.Database.Type)
	}
	return nil
}

// ServerAddr 返回 HTTP 服务器监听地址
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
