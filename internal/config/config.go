// Package config loads service settings from defaults, a .env file, the
// environment, and finally command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Common holds settings shared by both services.
type Common struct {
	Addr            string
	LogLevel        string
	LogFormat       string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	ResendAPIKey string
	NotifyFrom   string
	NotifyTo     []string
}

// Scheme configures cmd/scheme-server.
type Scheme struct {
	Common
	DatabaseURL       string
	RunMigrations     bool
	AdminUsername     string
	AdminPasswordHash string
	TokenTTL          time.Duration
	ReceiptTimezone   string
	ReceiptFontFile   string
}

// Feedback configures cmd/feedback-server.
type Feedback struct {
	Common
	MongoURI        string
	DBName          string
	AdminPassword   string
	SessionSecret   string
	SessionLifetime time.Duration
	SecureCookies   bool
}

func loadCommon(env *envParser, defaultAddr string) Common {
	addr := getEnv("ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", strings.TrimPrefix(defaultAddr, ":"))
	}
	return Common{
		Addr:            addr,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		AllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ReadTimeout:     env.duration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    env.duration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		NotifyFrom:      getEnv("FROM_EMAIL", ""),
		NotifyTo:        getList("NOTIFY_EMAILS", nil),
	}
}

func (c *Common) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Addr, "addr", "a", c.Addr, "address and port to listen on")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text or json)")
	fs.StringSliceVar(&c.AllowedOrigins, "cors-origins", c.AllowedOrigins, "allowed CORS origins")
}

// LoadScheme builds the scheme service configuration. args excludes the
// program name.
func LoadScheme(args []string) (*Scheme, error) {
	_ = godotenv.Load()

	env := &envParser{}
	cfg := &Scheme{
		Common:            loadCommon(env, ":8000"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RunMigrations:     env.bool("RUN_MIGRATIONS", true),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		TokenTTL:          env.duration("TOKEN_TTL", time.Hour),
		ReceiptTimezone:   getEnv("RECEIPT_TIMEZONE", "Local"),
		ReceiptFontFile:   getEnv("RECEIPT_FONT_FILE", ""),
	}

	fs := pflag.NewFlagSet("scheme-server", pflag.ContinueOnError)
	cfg.addFlags(fs)
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", cfg.DatabaseURL, "PostgreSQL connection string")
	fs.BoolVar(&cfg.RunMigrations, "migrate", cfg.RunMigrations, "apply schema migrations on startup")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "admin bearer token lifetime")
	fs.StringVar(&cfg.ReceiptTimezone, "receipt-timezone", cfg.ReceiptTimezone, "IANA time zone used on PDF receipts")
	fs.StringVar(&cfg.ReceiptFontFile, "receipt-font", cfg.ReceiptFontFile, "TrueType font for receipt fields (default: embedded DejaVu Sans)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, errors.Join(append(env.errs, cfg.validate())...)
}

func (c *Scheme) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD_HASH is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.ReceiptTimezone); err != nil {
		errs = append(errs, fmt.Errorf("RECEIPT_TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the receipt time zone. validate has already checked it.
func (c *Scheme) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReceiptTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadFeedback builds the feedback service configuration.
func LoadFeedback(args []string) (*Feedback, error) {
	_ = godotenv.Load()

	env := &envParser{}
	cfg := &Feedback{
		Common:          loadCommon(env, ":8080"),
		MongoURI:        getEnv("MONGODB_URI", ""),
		DBName:          getEnv("DB_NAME", "feedback"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionLifetime: env.duration("SESSION_LIFETIME", 24*time.Hour),
		SecureCookies:   env.bool("SECURE_COOKIES", false),
	}

	fs := pflag.NewFlagSet("feedback-server", pflag.ContinueOnError)
	cfg.addFlags(fs)
	fs.StringVarP(&cfg.MongoURI, "mongodb-uri", "m", cfg.MongoURI, "MongoDB connection string")
	fs.StringVar(&cfg.DBName, "db-name", cfg.DBName, "MongoDB database name")
	fs.DurationVar(&cfg.SessionLifetime, "session-lifetime", cfg.SessionLifetime, "admin session cookie lifetime")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "mark the session cookie Secure")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, errors.Join(append(env.errs, cfg.validate())...)
}

func (c *Feedback) validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.SessionLifetime <= 0 {
		errs = append(errs, errors.New("SESSION_LIFETIME must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envParser reads typed variables and keeps the ones that fail to parse,
// so a typo is reported instead of silently becoming the default.
type envParser struct {
	errs []error
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return fallback
	}
	return d
}

func (p *envParser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
