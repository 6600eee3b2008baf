package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr string

	StoreBackend string
	DBPath       string

	FileBackend string
	UploadDir   string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	SessionBackend string
	SessionCookie  string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
	LogFile  string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":3000")
	v.SetDefault("STORE_BACKEND", "memory")
	v.SetDefault("DB_PATH", ":memory:")
	v.SetDefault("FILE_BACKEND", "local")
	v.SetDefault("UPLOAD_DIR", "public/upload")
	v.SetDefault("S3_BUCKET", "uploads")
	v.SetDefault("SESSION_BACKEND", "memory")
	v.SetDefault("SESSION_COOKIE", "sid")
	v.SetDefault("SESSION_TTL", "10m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MAX_UPLOAD_BYTES", 5*1024*1024)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("LOG_LEVEL", "info")

	return &Config{
		ListenAddr:     v.GetString("LISTEN_ADDR"),
		StoreBackend:   v.GetString("STORE_BACKEND"),
		DBPath:         v.GetString("DB_PATH"),
		FileBackend:    v.GetString("FILE_BACKEND"),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		S3Endpoint:     v.GetString("S3_ENDPOINT"),
		S3AccessKey:    v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:    v.GetString("S3_SECRET_KEY"),
		S3Bucket:       v.GetString("S3_BUCKET"),
		SessionBackend: v.GetString("SESSION_BACKEND"),
		SessionCookie:  v.GetString("SESSION_COOKIE"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFile:        v.GetString("LOG_FILE"),
	}
}

// Validate rejects unknown backends and non-positive limits.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.FileBackend {
	case "local", "minio":
	default:
		return fmt.Errorf("unknown FILE_BACKEND %q", c.FileBackend)
	}
	switch c.SessionBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
