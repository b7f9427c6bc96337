package config

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ScriptURLPlaceholder is the value shipped in .env.example; it must be
// replaced with the deployed Apps Script URL before the service can start.
const ScriptURLPlaceholder = "PASTE_YOUR_APPS_SCRIPT_URL_HERE"

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Sheets    SheetsConfig
	Display   DisplayConfig
	Session   SessionConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	CLI       CLIConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Driver     string // "sqlite" or "postgres"
	SQLitePath string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
}

// SheetsConfig points at the spreadsheet-backed ledger endpoint.
type SheetsConfig struct {
	ScriptURL string
	// RequestTimeout of zero leaves outbound calls bounded only by the caller's context.
	RequestTimeout time.Duration
}

// DisplayConfig controls how ledger dates are shown in tables and exports.
type DisplayConfig struct {
	DateLayout string
	Timezone   string
}

type SessionConfig struct {
	IdleTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// CLIConfig selects the identity ledgerctl stores its preferences under.
type CLIConfig struct {
	Profile string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(viper.GetString("DB_DRIVER")),
			SQLitePath: viper.GetString("SQLITE_PATH"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
		},
		Sheets: SheetsConfig{
			ScriptURL:      strings.TrimSpace(viper.GetString("SHEETS_SCRIPT_URL")),
			RequestTimeout: time.Duration(viper.GetInt("SHEETS_REQUEST_TIMEOUT")) * time.Second,
		},
		Display: DisplayConfig{
			DateLayout: viper.GetString("DISPLAY_DATE_LAYOUT"),
			Timezone:   viper.GetString("DISPLAY_TIMEZONE"),
		},
		Session: SessionConfig{
			IdleTTL: time.Duration(viper.GetInt("SESSION_IDLE_TTL_MINUTES")) * time.Minute,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetStringSlice("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetStringSlice("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetStringSlice("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		CLI: CLIConfig{
			Profile: viper.GetString("LEDGER_PROFILE"),
		},
	}
}

// splitList accepts both space and comma separated values, as found in .env files.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "printledger")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("SQLITE_PATH", "printledger.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "printledger")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("SHEETS_SCRIPT_URL", ScriptURLPlaceholder)
	viper.SetDefault("SHEETS_REQUEST_TIMEOUT", 0)
	viper.SetDefault("DISPLAY_DATE_LAYOUT", "1/2/2006")
	viper.SetDefault("DISPLAY_TIMEZONE", "UTC")
	viper.SetDefault("SESSION_IDLE_TTL_MINUTES", 120)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:8080")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LEDGER_PROFILE", "default")
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if err := c.Sheets.Validate(); err != nil {
		return err
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return errors.New("DB_DRIVER must be sqlite or postgres")
	}
	if _, err := c.Display.Location(); err != nil {
		return errors.New("DISPLAY_TIMEZONE: " + err.Error())
	}
	return nil
}

// Validate checks that the ledger endpoint has been configured.
func (c *SheetsConfig) Validate() error {
	if c.ScriptURL == "" || c.ScriptURL == ScriptURLPlaceholder {
		return errors.New("SHEETS_SCRIPT_URL is not set; paste the deployed Apps Script URL")
	}
	u, err := url.Parse(c.ScriptURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("SHEETS_SCRIPT_URL must be an absolute http(s) URL")
	}
	return nil
}

// Location resolves the display timezone.
func (c *DisplayConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
