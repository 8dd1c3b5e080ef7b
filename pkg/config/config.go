package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PEDIDOSYNC"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv            = "PEDIDOSYNC_APP_ENV"
	EnvAppPort           = "PEDIDOSYNC_APP_PORT"
	EnvSheetsCredentials = "PEDIDOSYNC_SHEETS_CREDENTIALS"
	EnvSheetsURL         = "PEDIDOSYNC_SHEETS_URL"
)

type Config struct {
	App    AppConfig
	API    APIConfig
	Sheets SheetsConfig
	Orders OrdersConfig
	Queue  QueueConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Sheets.applyFileFallback(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PEDIDOSYNC_APP_ENV" default:"dev"`
	Port         string `envconfig:"PEDIDOSYNC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PEDIDOSYNC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEDIDOSYNC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	SharedSecret string `envconfig:"PEDIDOSYNC_API_SHARED_SECRET"`
}

// SheetsConfig carries the service-account credentials and document URL.
// Environment variables win; config.json is the legacy fallback the desktop
// builds still ship with.
type SheetsConfig struct {
	CredentialsJSON string `envconfig:"PEDIDOSYNC_SHEETS_CREDENTIALS"`
	URL             string `envconfig:"PEDIDOSYNC_SHEETS_URL"`
	ConfigFile      string `envconfig:"PEDIDOSYNC_CONFIG_FILE" default:"config.json"`

	LegacyCredentials string `envconfig:"SHEETS_CREDENTIALS"`
	LegacyURL         string `envconfig:"SHEETS_URL"`
}

type OrdersConfig struct {
	Prefix string `envconfig:"PEDIDOSYNC_ORDER_PREFIX" default:"REQ-"`
}

type QueueConfig struct {
	Path     string        `envconfig:"PEDIDOSYNC_QUEUE_PATH" default:"leituras_pendentes.json"`
	Interval time.Duration `envconfig:"PEDIDOSYNC_QUEUE_SYNC_INTERVAL" default:"5s"`
	Operator string        `envconfig:"PEDIDOSYNC_QUEUE_OPERATOR" default:"Pedido Mobile"`
}

type fileConfig struct {
	SheetsCredentials json.RawMessage `json:"sheets_credentials"`
	SheetsURL         string          `json:"sheets_url"`
}

func (s *SheetsConfig) applyFileFallback() error {
	if s.CredentialsJSON == "" {
		s.CredentialsJSON = s.LegacyCredentials
	}
	if s.URL == "" {
		s.URL = s.LegacyURL
	}
	s.CredentialsJSON = trimCredentials(s.CredentialsJSON)
	s.URL = strings.TrimSpace(s.URL)

	if s.CredentialsJSON != "" && s.URL != "" {
		return nil
	}
	if s.ConfigFile == "" {
		return nil
	}

	raw, err := os.ReadFile(s.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", s.ConfigFile, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", s.ConfigFile, err)
	}

	if s.CredentialsJSON == "" && len(fc.SheetsCredentials) > 0 {
		creds := strings.TrimSpace(string(fc.SheetsCredentials))
		// The file may hold the credential block either inline or as a
		// JSON-encoded string.
		if strings.HasPrefix(creds, `"`) {
			var unquoted string
			if err := json.Unmarshal(fc.SheetsCredentials, &unquoted); err != nil {
				return fmt.Errorf("parsing sheets_credentials in %s: %w", s.ConfigFile, err)
			}
			creds = unquoted
		}
		s.CredentialsJSON = trimCredentials(creds)
	}
	if s.URL == "" {
		s.URL = strings.TrimSpace(fc.SheetsURL)
	}
	return nil
}

func trimCredentials(creds string) string {
	creds = strings.TrimSpace(creds)
	return strings.Trim(creds, `"'`)
}
