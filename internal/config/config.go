// Package config 는 환경 변수 기반 애플리케이션 설정을 제공한다.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 는 애플리케이션 전체 설정을 보관한다.
// 기동 시 환경 변수에서 1회 읽어들이며 이후에는 불변으로 취급한다.
type Config struct {
	// Database
	DatabaseURL string

	// Redis (리프레시 토큰 저장소)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kakao OAuth
	KakaoClientID     string
	KakaoClientSecret string
	KakaoRedirectURL  string

	// JWT
	JWTSecret          string
	AccessTokenExpire  time.Duration
	RefreshTokenExpire time.Duration

	// 로그인 성공 후 프론트엔드로 리다이렉트할 URL
	LoginSuccessRedirect string

	// RabbitMQ (AI 요약/경험추출 파이프라인)
	RabbitMQURL string

	// Rate Limit (req/min/user)
	RateLimitGeneral int

	// Server
	ServerPort string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경 변수에서 Config를 읽어들인다.
// 필수 환경 변수가 설정되지 않은 경우 에러를 반환한다.
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}

	cfg.KakaoClientID = os.Getenv("KAKAO_CLIENT_ID")
	if cfg.KakaoClientID == "" {
		missing = append(missing, "KAKAO_CLIENT_ID")
	}

	cfg.KakaoClientSecret = os.Getenv("KAKAO_CLIENT_SECRET")
	if cfg.KakaoClientSecret == "" {
		missing = append(missing, "KAKAO_CLIENT_SECRET")
	}

	cfg.KakaoRedirectURL = os.Getenv("KAKAO_REDIRECT_URL")
	if cfg.KakaoRedirectURL == "" {
		missing = append(missing, "KAKAO_REDIRECT_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	cfg.LoginSuccessRedirect = os.Getenv("LOGIN_SUCCESS_REDIRECT")
	if cfg.LoginSuccessRedirect == "" {
		missing = append(missing, "LOGIN_SUCCESS_REDIRECT")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.RedisPassword = getEnvString("REDIS_PASSWORD", "")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.AccessTokenExpire = getEnvDuration("ACCESS_TOKEN_EXPIRE", 30*time.Minute)
	cfg.RefreshTokenExpire = getEnvDuration("REFRESH_TOKEN_EXPIRE", 14*24*time.Hour)
	cfg.RabbitMQURL = getEnvString("RABBITMQ_URL", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.LoginSuccessRedirect, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
