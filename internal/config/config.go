package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	Redis               RedisConfig               `toml:"redis"`
	PlannedAvailability PlannedAvailabilityConfig `toml:"planned_availability"`
	Recap               RecapConfig               `toml:"recap"`
	Refresh             RefreshConfig             `toml:"refresh"`
	PricingPolicy       PricingPolicyConfig       `toml:"pricing_policy"`
}

// ServerConfig HTTP сервер; таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig PostgreSQL
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
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig логирование
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig кэш отчетов и канал уведомлений об изменениях
type RedisConfig struct {
	Enabled       bool   `toml:"enabled"`
	Addr          string `toml:"addr"`
	Password      string `toml:"password"`
	DB            int    `toml:"db"`
	ChangeChannel string `toml:"change_channel"`
}

// PlannedAvailabilityConfig клиент сервиса запланированных слотов
type PlannedAvailabilityConfig struct {
	URL      string   `toml:"url"`
	Timeout  int      `toml:"timeout"` // секунды
	Statuses []string `toml:"statuses"`
}

// RecapConfig параметры агрегации
type RecapConfig struct {
	MaxRangeDays     int `toml:"max_range_days"`
	FetchConcurrency int `toml:"fetch_concurrency"`
	CacheTTL         int `toml:"cache_ttl"` // секунды, 0 - без кэша
}

// RefreshConfig фоновый пересчет отчетов
type RefreshConfig struct {
	Enabled        bool    `toml:"enabled"`
	Schedule       string  `toml:"schedule"`        // cron, например "@every 5m"
	DebounceMillis int     `toml:"debounce_millis"` // окно схлопывания уведомлений
	RatePerMinute  float64 `toml:"rate_per_minute"` // максимум пересчетов тура в минуту
	RetentionDays  int     `toml:"retention_days"`  // сколько дней после окончания периода его обновлять
}

// Debounce окно схлопывания как time.Duration
func (c RefreshConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// Retention срок обновления завершившихся периодов
func (c RefreshConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// PricingPolicyConfig таблицы исключений категорий участников
type PricingPolicyConfig struct {
	Exclude   []ExcludeRule   `toml:"exclude"`
	AllowOnly []AllowOnlyRule `toml:"allow_only"`
}

// ExcludeRule исключить категории по названию для тура
type ExcludeRule struct {
	TourID     string   `toml:"tour_id"`
	Categories []string `toml:"categories"`
}

// AllowOnlyRule учитывать только перечисленные pricing_category_id для тура
type AllowOnlyRule struct {
	TourID      string  `toml:"tour_id"`
	CategoryIDs []int64 `toml:"category_ids"`
}

// Policy собирает domain.PricingPolicy из конфигурации
func (c PricingPolicyConfig) Policy() domain.PricingPolicy {
	policy := domain.PricingPolicy{
		ExcludeByName: make(map[string][]string, len(c.Exclude)),
		AllowOnlyIDs:  make(map[string][]int64, len(c.AllowOnly)),
	}
	for _, rule := range c.Exclude {
		policy.ExcludeByName[rule.TourID] = append(policy.ExcludeByName[rule.TourID], rule.Categories...)
	}
	for _, rule := range c.AllowOnly {
		policy.AllowOnlyIDs[rule.TourID] = append(policy.AllowOnlyIDs[rule.TourID], rule.CategoryIDs...)
	}
	return policy
}

// Load читает конфигурацию из файла, применяет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse как Load, но из строки (используется в тестах)
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "tour_recap_service"
	}

	if c.Redis.ChangeChannel == "" {
		c.Redis.ChangeChannel = "tour_changes"
	}

	if c.PlannedAvailability.Timeout == 0 {
		c.PlannedAvailability.Timeout = 5
	}

	if c.Recap.MaxRangeDays == 0 {
		c.Recap.MaxRangeDays = domain.DefaultMaxRangeDays
	}
	if c.Recap.FetchConcurrency == 0 {
		c.Recap.FetchConcurrency = 8
	}

	if c.Refresh.Schedule == "" {
		c.Refresh.Schedule = "@every 5m"
	}
	if c.Refresh.DebounceMillis == 0 {
		c.Refresh.DebounceMillis = 2000
	}
	if c.Refresh.RatePerMinute == 0 {
		c.Refresh.RatePerMinute = 6
	}
	if c.Refresh.RetentionDays == 0 {
		c.Refresh.RetentionDays = 31
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Recap.MaxRangeDays < 1 {
		return fmt.Errorf("%w: recap.max_range_days must be positive", ErrInvalidConfig)
	}
	if c.Recap.FetchConcurrency < 1 {
		return fmt.Errorf("%w: recap.fetch_concurrency must be positive", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Refresh.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("%w: refresh requires redis to be enabled", ErrInvalidConfig)
	}
	if c.Refresh.RatePerMinute < 0 {
		return fmt.Errorf("%w: refresh.rate_per_minute must not be negative", ErrInvalidConfig)
	}

	for _, rule := range c.PricingPolicy.Exclude {
		if rule.TourID == "" {
			return fmt.Errorf("%w: pricing_policy.exclude without tour_id", ErrInvalidConfig)
		}
	}
	for _, rule := range c.PricingPolicy.AllowOnly {
		if rule.TourID == "" {
			return fmt.Errorf("%w: pricing_policy.allow_only without tour_id", ErrInvalidConfig)
		}
	}

	return nil
}
