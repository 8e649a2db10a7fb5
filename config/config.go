// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DBConfig holds the PostgreSQL connection settings.
type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// AIConfig configures the OpenAI-compatible chat completion endpoint.
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	KeyPrefix   string
	MaxTokens   int
	Temperature float32
}

type Config struct {
	Env      string
	Telegram struct {
		Token string
	}
	DB     DBConfig
	AI     AIConfig
	Server struct {
		Port string
	}
	Budget struct {
		Timezone string
	}
	ShutdownTimeout time.Duration
}

// envBindings maps config keys to the environment variables that may override them.
var envBindings = map[string][]string{
	"env":             {"APP_ENV"},
	"telegram.token":  {"TELEGRAM_TOKEN"},
	"db.host":         {"DB_HOST"},
	"db.port":         {"DB_PORT"},
	"db.user":         {"DB_USER"},
	"db.password":     {"DB_PASSWORD"},
	"db.dbname":       {"DB_NAME"},
	"db.sslmode":      {"DB_SSL_MODE"},
	"ai.apikey":       {"GEMINI_API_KEY", "AI_API_KEY"},
	"ai.model":        {"AI_MODEL"},
	"ai.baseurl":      {"AI_BASE_URL"},
	"ai.keyprefix":    {"AI_KEY_PREFIX"},
	"server.port":     {"SERVER_PORT"},
	"budget.timezone": {"BUDGET_TIMEZONE"},
	"shutdowntimeout": {"SHUTDOWN_TIMEOUT"},
}

// Load reads config.{yaml,json} if present, then applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")
	v.AddConfigPath("$HOME/.unibites")

	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Process any ${ENV_VAR} syntax in the config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			if envValue := os.Getenv(envVar); envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Env", "production")
	v.SetDefault("Telegram.Token", "")
	v.SetDefault("DB.Host", "localhost")
	v.SetDefault("DB.Port", "5432")
	v.SetDefault("DB.User", "postgres")
	v.SetDefault("DB.Password", "postgres")
	v.SetDefault("DB.DBName", "unibites")
	v.SetDefault("DB.SSLMode", "disable")
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)
	v.SetDefault("AI.APIKey", "")
	v.SetDefault("AI.Model", "gemini-1.5-flash")
	v.SetDefault("AI.BaseURL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("AI.KeyPrefix", "AIza")
	v.SetDefault("AI.MaxTokens", 1024)
	v.SetDefault("AI.Temperature", 0.4)
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Budget.Timezone", "Asia/Kolkata")
	v.SetDefault("ShutdownTimeout", 10*time.Second)
}

// Location resolves the budget timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Budget.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Budget.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
