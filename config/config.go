package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries every runtime setting read from the process environment.
type Config struct {
	ServerPort   string
	GinMode      string
	Environment  string
	AppBaseURL   string
	AllowOrigins []string

	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	SMTP     SMTPConfig
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	Username    string
	Password    string
	DebugSQL    bool
	AutoMigrate bool
}

type JWTConfig struct {
	Secret      string
	ExpireHours int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		ServerPort:   v.GetString("SERVER_PORT"),
		GinMode:      v.GetString("GIN_MODE"),
		Environment:  strings.ToLower(v.GetString("ENVIRONMENT")),
		AppBaseURL:   v.GetString("APP_BASE_URL"),
		AllowOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_DATABASE"),
			Username:    v.GetString("DB_USERNAME"),
			Password:    v.GetString("DB_PASSWORD"),
			DebugSQL:    v.GetBool("DEBUG_SQL"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpireHours: v.GetInt("JWT_EXPIRE_HOURS"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
			File:   v.GetString("LOG_FILE"),
		},
		SMTP: SMTPConfig{
			Host:          v.GetString("SMTP_HOST"),
			Port:          v.GetInt("SMTP_PORT"),
			User:          v.GetString("SMTP_USER"),
			Pass:          v.GetString("SMTP_PASS"),
			From:          v.GetString("SMTP_FROM"),
			SkipTLSVerify: v.GetString("SMTP_SKIP_TLS_VERIFY") == "1",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("APP_BASE_URL", "http://localhost:4200")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_DATABASE", "funding")
	v.SetDefault("DB_USERNAME", "root")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("JWT_EXPIRE_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", LogFilePath())
	v.SetDefault("SMTP_PORT", 587)
}

// Validate rejects settings the server cannot safely start with.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.JWT.Secret == "" && c.Environment != "development" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 24
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
