package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServerConfig struct {
	Address string `json:"address"`
}

// APIConfig 后端 RecipeHub REST 服务
type APIConfig struct {
	BaseURL        string `json:"baseUrl"`        // 不带结尾斜杠
	DialTimeout    int    `json:"dialTimeout"`    // 单位：秒
	RequestTimeout int    `json:"requestTimeout"` // 单位：秒
}

const (
	SessionDriverCookie   = "cookie"
	SessionDriverRedis    = "redis"
	SessionDriverDatabase = "database"
)

type SessionConfig struct {
	Driver     string `json:"driver"` // cookie | redis | database
	CookieName string `json:"cookieName"`
	MaxAge     int    `json:"maxAge"` // 单位：秒，0 表示会话 cookie
	Secure     bool   `json:"secure"`
	RedisURL   string `json:"redisUrl"`
	KeyPrefix  string `json:"keyPrefix"`
}

type SecurityConfig struct {
	MaxBodySize    int64    `json:"maxBodySize"` // 单位：字节
	AllowedMethods []string `json:"allowedMethods"`
}

type TimeoutConfig struct {
	RequestTimeout int `json:"requestTimeout"` // 单位：秒
}

type CORSConfig struct {
	AllowOrigins     []string      `json:"allowOrigins"`
	AllowMethods     []string      `json:"allowMethods"`
	AllowHeaders     []string      `json:"allowHeaders"`
	ExposeHeaders    []string      `json:"exposeHeaders"`
	AllowCredentials bool          `json:"allowCredentials"`
	MaxAge           time.Duration `json:"maxAge"`
	TrustedDomains   []string      `json:"trustedDomains"`
}

type RateLimitConfig struct {
	Rate  float64 `json:"rate"` // 每秒请求数
	Burst int     `json:"burst"`
}

type MiddlewareConfig struct {
	Security  SecurityConfig  `json:"security"`
	Timeout   TimeoutConfig   `json:"timeout"`
	CORS      CORSConfig      `json:"cors"`
	RateLimit RateLimitConfig `json:"rateLimit"`
}

// DatabaseConfig 仅在 session.driver=database 时使用
type DatabaseConfig struct {
	Host        string `json:"host"`        // 数据库主机地址
	Port        int    `json:"port"`        // 数据库端口
	Username    string `json:"username"`    // 数据库用户名
	Password    string `json:"password"`    // 数据库密码
	DBName      string `json:"dbname"`      // 数据库名称
	UseUnixSock bool   `json:"useUnixSock"` // 是否使用Unix套接字连接
	MinPoolSize int    `json:"minPoolSize"` // 连接池最小连接数
	MaxPoolSize int    `json:"maxPoolSize"` // 连接池最大连接数
	LogLevel    string `json:"logLevel"`    // GORM日志级别
}

type Config struct {
	Server     ServerConfig     `json:"server"`
	API        APIConfig        `json:"api"`
	Session    SessionConfig    `json:"session"`
	Database   DatabaseConfig   `json:"database"`
	Middleware MiddlewareConfig `json:"middleware"`
	LogLevel   string           `json:"logLevel"`
	Env        string           `json:"env"` // 环境标识
}

var defaultConfig = Config{
	Server: ServerConfig{
		Address: ":8080",
	},
	API: APIConfig{
		BaseURL:        "http://localhost:5000",
		DialTimeout:    3,
		RequestTimeout: 10,
	},
	Session: SessionConfig{
		Driver:     SessionDriverCookie,
		CookieName: "token",
		MaxAge:     0,
		RedisURL:   "redis://localhost:6379/0",
		KeyPrefix:  "session:",
	},
	Database: DatabaseConfig{
		Host:        "localhost",
		Port:        3306,
		Username:    "root",
		Password:    "root",
		DBName:      "recipehub_web",
		UseUnixSock: false,
		MinPoolSize: 2,
		MaxPoolSize: 20,
		LogLevel:    "warn",
	},
	Middleware: MiddlewareConfig{
		Security: SecurityConfig{
			MaxBodySize:    1 << 20, // 1MB，表单足够
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		},
		Timeout: TimeoutConfig{
			RequestTimeout: 15,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:8080"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Rate:  20,
			Burst: 40,
		},
	},
	LogLevel: "info",
	Env:      "development",
}

// Default 返回默认配置的副本
func Default() *Config {
	config := defaultConfig
	return &config
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > .env > 配置文件 > 默认值）
func Load() *Config {
	config := defaultConfig

	// 0. .env 只补充尚未设置的环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		hlog.Warnf("Failed to load .env file: %v", err)
	}

	// 1. 尝试从配置文件加载
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(&config, configPath); err != nil {
			hlog.Warnf("Failed to load config file: %v", err)
		}
	}

	// 2. 从环境变量覆盖
	loadFromEnv(&config)
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	return &config
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path
	}

	searchPaths := []string{
		"./config.json",
		"../config.json",
		"/etc/recipehub-web/config.json",
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, config)
}

// loadFromEnv 从环境变量加载配置
func loadFromEnv(config *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.Server.Address = v
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		config.Env = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.LogLevel = strings.ToLower(v)
	}

	// 后端 API
	if v := os.Getenv("API_BASE_URL"); v != "" {
		config.API.BaseURL = v
	}

	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			config.API.RequestTimeout = timeout
		}
	}

	// 会话
	if v := os.Getenv("SESSION_DRIVER"); v != "" {
		switch driver := strings.ToLower(v); driver {
		case SessionDriverCookie, SessionDriverRedis, SessionDriverDatabase:
			config.Session.Driver = driver
		default:
			hlog.Warnf("Unsupported session driver: %s", v)
		}
	}

	if v := os.Getenv("SESSION_SECURE"); v != "" {
		config.Session.Secure = parseBool(v)
	}

	if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
		if age, err := strconv.Atoi(v); err == nil {
			config.Session.MaxAge = age
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		config.Session.RedisURL = v
	}

	// 中间件配置
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Middleware.Security.MaxBodySize = size
		}
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			config.Middleware.Timeout.RequestTimeout = timeout
		}
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			config.Middleware.RateLimit.Rate = rate
		}
	}

	if v := os.Getenv("RATE_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			config.Middleware.RateLimit.Burst = burst
		}
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.Middleware.CORS.AllowOrigins = splitEnvList(v)
	}

	// 数据库配置
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Database.Port = port
		}
	}

	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.Username = v
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}

	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.DBName = v
	}

	if v := os.Getenv("DB_SOCKET"); v != "" {
		config.Database.UseUnixSock = parseBool(v)
	}

	if v := os.Getenv("DB_LOG_LEVEL"); v != "" {
		config.Database.LogLevel = strings.ToLower(v)
	}
}

// 分割环境变量列表（支持逗号分隔的字符串）
func splitEnvList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// 转换字符串为布尔值
func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

// HlogLevel 把配置里的日志级别映射为 hlog.Level
func (c *Config) HlogLevel() hlog.Level {
	switch c.LogLevel {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}

// DSN 组装 MySQL 连接串
func (c *Config) DSN() string {
	charsetParam := "charset=utf8mb4&parseTime=True&loc=Local"

	// 自动切换连接方式
	if c.Database.UseUnixSock {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host, // 这里host存储的是socket路径
			c.Database.DBName,
			charsetParam)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		charsetParam)
}

// GormConfig 按配置的日志级别生成 gorm.Config
func (c *Config) GormConfig() *gorm.Config {
	gormConfig := &gorm.Config{}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gormConfig
}

func (c *Config) InitDB() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(c.DSN()), c.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)

	return db, nil
}

// InitRedis 解析 REDIS_URL 并创建客户端，不主动 Ping
func (c *Config) InitRedis() (*redis.Client, error) {
	opts, err := redis.ParseURL(c.Session.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
