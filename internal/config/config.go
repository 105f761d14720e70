package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	JWTSecret         string
	AccessTokenExpiry time.Duration

	CORSAllowedOrigins []string

	// Intake rate limiting (per client IP).
	RateLimitMax    int
	RateLimitWindow time.Duration

	// SendGrid email configuration
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	AdminNotifyEmail  string

	// CV delivery
	CVFilePath  string
	CalendlyURL string
	LinkedInURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 30*time.Minute),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"*"}),

		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 3),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Charles Nwankpa"),
		AdminNotifyEmail:  getEnv("ADMIN_NOTIFY_EMAIL", ""),

		CVFilePath:  getEnv("CV_FILE_PATH", "./static/cv/charles_nwankpa_cv.pdf"),
		CalendlyURL: getEnv("CALENDLY_URL", "https://calendly.com/charles-nwankpa/intro-call"),
		LinkedInURL: getEnv("LINKEDIN_URL", "https://www.linkedin.com/in/charles-nwankpa"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
