package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	SMTP      SMTPConfig
	Render    RenderConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// IsProduction reports whether cookies must be Secure / SameSite=None.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
	// login limiter, applied to POST /api/auth/login only
	LoginRPS   float64
	LoginBurst int
}

// StorageConfig configures the S3-compatible asset host.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type RenderConfig struct {
	ChromePath    string
	Timeout       time.Duration
	MaxConcurrent int64
}

type CORSConfig struct {
	AllowedOrigin string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_MAX_UPLOAD_MB", 10)
	v.SetDefault("MONGODB_DATABASE", "portfolio")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_TTL_DAYS", 7)
	v.SetDefault("JWT_COOKIE_NAME", "jwt")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("RATE_LIMIT_LOGIN_RPS", 0.1)
	v.SetDefault("RATE_LIMIT_LOGIN_BURST", 5)
	v.SetDefault("MINIO_BUCKET", "portfolio")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RENDER_TIMEOUT_SECONDS", 60)
	v.SetDefault("RENDER_MAX_CONCURRENT", 2)
	v.SetDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   90 * time.Second,
			MaxUploadBytes: v.GetInt64("SERVER_MAX_UPLOAD_MB") << 20,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			TTL:        time.Duration(v.GetInt("JWT_TTL_DAYS")) * 24 * time.Hour,
			CookieName: v.GetString("JWT_COOKIE_NAME"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			LoginRPS:      v.GetFloat64("RATE_LIMIT_LOGIN_RPS"),
			LoginBurst:    v.GetInt("RATE_LIMIT_LOGIN_BURST"),
		},
		Storage: StorageConfig{
			Endpoint:      v.GetString("MINIO_ENDPOINT"),
			AccessKey:     v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:     os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:        v.GetBool("MINIO_USE_SSL"),
			Bucket:        v.GetString("MINIO_BUCKET"),
			PublicBaseURL: v.GetString("MINIO_PUBLIC_BASE_URL"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
			To:       v.GetString("SMTP_TO"),
		},
		Render: RenderConfig{
			ChromePath:    v.GetString("CHROME_PATH"),
			Timeout:       time.Duration(v.GetInt("RENDER_TIMEOUT_SECONDS")) * time.Second,
			MaxConcurrent: v.GetInt64("RENDER_MAX_CONCURRENT"),
		},
		CORS: CORSConfig{
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
	}

	// mail goes to the site owner unless told otherwise
	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.Username
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	if cfg.JWT.Secret == "" {
		if cfg.Server.IsProduction() {
			return nil, fmt.Errorf("environment variable JWT_SECRET is required in production")
		}
		log.Println("WARNING: JWT_SECRET is not set; using an insecure development secret")
		cfg.JWT.Secret = "dev-insecure-secret"
	}

	return cfg, nil
}
