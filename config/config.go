package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/angas/entsoe-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
}

type AppConfigDatabase struct {
	Path string
	// How many days data should be stored in database before it gets purged
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 90
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigSensor struct {
	// Optional display-name prefix, also namespaces entity and unique ids
	Name *string `mapstructure:"name"`
	// Currency the prices are published in, default: "EUR"
	Currency *string `mapstructure:"currency"`
}

func (s AppConfigSensor) GetName() string {
	if s.Name == nil {
		return ""
	}
	return *s.Name
}

func (s AppConfigSensor) GetCurrency() string {
	if s.Currency == nil {
		return "EUR"
	}
	return *s.Currency
}

type AppConfigPrice struct {
	Area          string `mapstructure:"area"`           // EIC code of the bidding zone, e.g. "10YNL----------L"
	SecurityToken string `mapstructure:"security_token"` // ENTSO-e transparency platform token
	NordpoolArea  string `mapstructure:"nordpool_area"`  // Delivery area for the fallback provider, e.g. "NL"
	RunAt         string `mapstructure:"run_at"`         // Cron spec for the fetch task
}

func (p AppConfigPrice) GetRunAt() string {
	if p.RunAt == "" {
		// Day-ahead prices for tomorrow are published around 13:00 CET,
		// fetch shortly after and retry mid-afternoon.
		return "10 13,15 * * *"
	}
	return p.RunAt
}

type AppConfigMqtt struct {
	Host        string
	Port        int16
	Username    string
	Password    string
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "entsoe"
	}
	return *m.TopicPrefix
}

type AppConfigGui struct {
	// Timezone for displaying times in the GUI, default: UTC
	Timezone *string `mapstructure:"timezone"`
}

func (g AppConfigGui) GetTimezone() string {
	if g.Timezone == nil {
		return "UTC"
	}
	return *g.Timezone
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api      AppConfigApi
	Database AppConfigDatabase
	Sensor   AppConfigSensor  `mapstructure:"sensor"`
	Price    AppConfigPrice   `mapstructure:"price"`
	Mqtt     AppConfigMqtt    `mapstructure:"mqtt"`
	Gui      AppConfigGui     `mapstructure:"gui"`
	Logging  AppConfigLogging `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
