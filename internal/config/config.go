package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config holds everything the process reads from the environment. It is
// loaded once at startup and treated as immutable afterwards.
type Config struct {
	// Server
	Port      string
	Env       string // "production" enables secure cookies
	ClientURL string

	// Database
	DatabaseURL string

	// Session tokens
	JWTSecret []byte
	TokenTTL  time.Duration

	// Password reset
	ResetTokenTTL time.Duration

	// Mail
	MailProvider string // "smtp" (default) or "plunk"
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	PlunkAPIKey  string
	PlunkFrom    string
	PlunkAPIURL  string

	// Media storage (S3-compatible)
	S3Region        string
	S3Bucket        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// Load reads the Config from environment variables. Missing required
// variables are reported together.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		ClientURL:     strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		TokenTTL:      getDuration("TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL: getDuration("RESET_TOKEN_TTL", 15*time.Minute),

		MailProvider: getEnv("MAIL_PROVIDER", "smtp"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		PlunkAPIKey:  os.Getenv("PLUNK_API_KEY"),
		PlunkFrom:    os.Getenv("PLUNK_FROM"),
		PlunkAPIURL:  getEnv("PLUNK_API_URL", "https://api.useplunk.com/v1/send"),

		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL: strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	cfg.JWTSecret = []byte(secret)

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Production reports whether the process runs with production cookie policy.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// SessionCookie builds the session cookie holding the signed token. The
// cookie policy is fixed at startup from the environment rather than read
// from ambient state at request time.
func (c *Config) SessionCookie(token string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Production(),
		SameSite: http.SameSiteLaxMode,
	}
	if c.Production() {
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// ExpiredSessionCookie returns a cookie that clears the client-held token.
func (c *Config) ExpiredSessionCookie() *http.Cookie {
	cookie := c.SessionCookie("")
	cookie.MaxAge = -1
	return cookie
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
