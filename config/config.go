package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTIssuer        string
	JWTAudience      string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string

	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string

	AutoApprove bool
	MFAIssuer   string
	BcryptCost  int

	LoginRateLimit  int
	PublicRateLimit int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}

	return Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		JWTIssuer:        getEnv("JWT_ISSUER", "sitepass"),
		JWTAudience:      getEnv("JWT_AUDIENCE", "sitepass"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 7*24*time.Hour),
		RefreshTokenTTL:  getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnv("EMAIL_FROM", "SitePass <noreply@sitepass.local>"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		AutoApprove: getBool("AUTO_APPROVE", false),
		MFAIssuer:   getEnv("MFA_ISSUER", "SitePass"),
		BcryptCost:  getInt("BCRYPT_COST", 0),

		LoginRateLimit:  getInt("LOGIN_RATE_LIMIT", 10),
		PublicRateLimit: getInt("PUBLIC_RATE_LIMIT", 60),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("invalid duration, using default")
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).WithError(err).Warn("invalid integer, using default")
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
