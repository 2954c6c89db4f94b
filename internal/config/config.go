package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	PropertyService PropertyServiceConfig `toml:"property_service"`
	Notifier        NotifierConfig        `toml:"notifier"`
	Sweeper         SweeperConfig         `toml:"sweeper"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// PropertyServiceConfig настройки клиента PropertyService
type PropertyServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotifierConfig настройки публикации событий в RabbitMQ
type NotifierConfig struct {
	Enabled  bool   `toml:"enabled"`
	AMQPURL  string `toml:"amqp_url"`
	Exchange string `toml:"exchange"`
	Timeout  int    `toml:"timeout"` // секунды
}

// SweeperConfig настройки воркера истечения слотов
type SweeperConfig struct {
	Enabled             bool `toml:"enabled"`
	IntervalMinutes     int  `toml:"interval_minutes"`
	HardDeleteAfterDays int  `toml:"hard_delete_after_days"` // 0 = отключено
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.PropertyService.URL == "" {
		return fmt.Errorf("property_service.url is required")
	}
	if c.Notifier.Enabled && c.Notifier.AMQPURL == "" {
		return fmt.Errorf("notifier.amqp_url is required when notifier is enabled")
	}
	if c.Sweeper.Enabled && c.Sweeper.IntervalMinutes <= 0 {
		return fmt.Errorf("sweeper.interval_minutes must be positive when sweeper is enabled")
	}
	return nil
}
