package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 聚合运行时配置，尽量通过环境变量注入，避免硬编码。
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka 集群地址（逗号分隔）与订单事件 Topic；留空则不发事件
	KafkaBrokers []string
	KafkaTopic   string

	// JWT 签名密钥与令牌有效期
	JWTSecret string
	TokenTTL  time.Duration

	// 文件上传目录与对外访问前缀
	UploadDir     string
	UploadBaseURL string

	// 菜品列表缓存 TTL
	DishCacheTTL time.Duration

	// 下单接口限流
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// Load 读取并校验配置，缺失时使用默认值。
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", "sky_take_out.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          0,
		KafkaBrokers:     splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "sky-order-events"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:         24 * time.Hour,
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		UploadBaseURL:    getEnv("UPLOAD_BASE_URL", "http://localhost:8080/uploads"),
		DishCacheTTL:     time.Hour,
		SubmitRateLimit:  100,
		SubmitRateWindow: time.Second,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	tokenTTLHour, err := getEnvInt("TOKEN_TTL_HOUR", int(cfg.TokenTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid TOKEN_TTL_HOUR: %w", err)
	}
	if tokenTTLHour <= 0 {
		return AppConfig{}, fmt.Errorf("TOKEN_TTL_HOUR must be > 0")
	}
	cfg.TokenTTL = time.Duration(tokenTTLHour) * time.Hour

	cacheTTLMin, err := getEnvInt("DISH_CACHE_TTL_MIN", int(cfg.DishCacheTTL.Minutes()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid DISH_CACHE_TTL_MIN: %w", err)
	}
	if cacheTTLMin <= 0 {
		return AppConfig{}, fmt.Errorf("DISH_CACHE_TTL_MIN must be > 0")
	}
	cfg.DishCacheTTL = time.Duration(cacheTTLMin) * time.Minute

	rateLimit, err := getEnvInt("SUBMIT_RATE_LIMIT", cfg.SubmitRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid SUBMIT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("SUBMIT_RATE_LIMIT must be > 0")
	}
	cfg.SubmitRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("SUBMIT_RATE_WINDOW_SEC", int(cfg.SubmitRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid SUBMIT_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("SUBMIT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.SubmitRateWindow = time.Duration(rateWindowSec) * time.Second

	if cfg.JWTSecret == "" {
		return AppConfig{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty when brokers are set")
	}

	return cfg, nil
}

// getEnv 读取字符串环境变量，若为空则返回默认值。
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt 读取整数环境变量，若为空则返回默认值。
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV 将逗号分隔字符串解析为字符串切片。
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
