package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/practicum"

	"github.com/joho/godotenv"
)

const (
	defaultRetryPeriod     = 600 * time.Second
	defaultAPITimeout      = 30 * time.Second
	defaultLogFile         = "homework_bot.log"
	defaultStateDBPath     = "data/homework_bot.db"
	defaultCronSpecHeartbt = "0 9 * * *" // 9 AM daily
	heartbeatOff           = "off"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken     string
	PracticumEndpoint  string
	TelegramToken      string
	TelegramChatID     int64
	TelegramRatePerSec int
	RetryPeriod        time.Duration
	APITimeout         time.Duration
	InitialFromDate    homework.Cursor
	LogLevel           string
	Environment        string
	LogFile            string // empty disables the file sink
	DatabaseURL        string // empty selects the sqlite store
	StateDBPath        string
	CronSpecHeartbeat  string // empty disables the heartbeat job
}

// Load reads configuration from environment variables and .env file (if present).
// Every failure is a KindConfig homework.Error.
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return fromEnv(time.Now())
}

func fromEnv(now time.Time) (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.PracticumToken = os.Getenv("PRACTICUM_TOKEN")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")

	var missing []string
	for _, v := range []struct{ name, value string }{
		{"PRACTICUM_TOKEN", cfg.PracticumToken},
		{"TELEGRAM_TOKEN", cfg.TelegramToken},
		{"TELEGRAM_CHAT_ID", chatIDStr},
	} {
		if strings.TrimSpace(v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, homework.NewConfigError(fmt.Sprintf("required environment variables are not set: %s", strings.Join(missing, ", ")), nil)
	}

	cfg.TelegramChatID, err = strconv.ParseInt(strings.TrimSpace(chatIDStr), 10, 64)
	if err != nil {
		return nil, homework.NewConfigError("invalid TELEGRAM_CHAT_ID", err)
	}

	cfg.PracticumEndpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = practicum.DefaultEndpoint
	}

	if cfg.RetryPeriod, err = durationEnv("RETRY_PERIOD", defaultRetryPeriod); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = durationEnv("API_TIMEOUT", defaultAPITimeout); err != nil {
		return nil, err
	}

	cfg.TelegramRatePerSec = 1
	if v := os.Getenv("TELEGRAM_RATE_PER_SEC"); v != "" {
		cfg.TelegramRatePerSec, err = strconv.Atoi(v)
		if err != nil || cfg.TelegramRatePerSec < 0 {
			return nil, homework.NewConfigError("invalid TELEGRAM_RATE_PER_SEC", err)
		}
	}

	// Initial cursor: INITIAL_LOOKBACK wins over INITIAL_FROM_DATE. Default is the epoch.
	if v := os.Getenv("INITIAL_FROM_DATE"); v != "" {
		fromDate, err := strconv.ParseInt(v, 10, 64)
		if err != nil || fromDate < 0 {
			return nil, homework.NewConfigError("invalid INITIAL_FROM_DATE", err)
		}
		cfg.InitialFromDate = homework.Cursor(fromDate)
	}
	if v := os.Getenv("INITIAL_LOOKBACK"); v != "" {
		lookback, err := time.ParseDuration(v)
		if err != nil || lookback < 0 {
			return nil, homework.NewConfigError("invalid INITIAL_LOOKBACK", err)
		}
		cfg.InitialFromDate = homework.Cursor(now.Add(-lookback).Unix())
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = defaultLogFile
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		cfg.LogFile = v
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.StateDBPath = os.Getenv("STATE_DB_PATH")
	if cfg.StateDBPath == "" {
		cfg.StateDBPath = defaultStateDBPath
	}

	cfg.CronSpecHeartbeat = os.Getenv("CRON_SPEC_HEARTBEAT")
	switch strings.ToLower(cfg.CronSpecHeartbeat) {
	case "":
		cfg.CronSpecHeartbeat = defaultCronSpecHeartbt
	case heartbeatOff:
		cfg.CronSpecHeartbeat = ""
	}

	return cfg, nil
}

// durationEnv accepts a Go duration ("10m") or a plain number of seconds ("600").
func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0, homework.NewConfigError(fmt.Sprintf("%s must be positive", name), nil)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, homework.NewConfigError(fmt.Sprintf("invalid %s", name), err)
	}
	if d <= 0 {
		return 0, homework.NewConfigError(fmt.Sprintf("%s must be positive", name), nil)
	}
	return d, nil
}
