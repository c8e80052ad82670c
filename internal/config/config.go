package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig бизнес-параметры бронирования
type BookingConfig struct {
	// PlatformCommissionRate доля платформы от цены сессии, [0, 1)
	PlatformCommissionRate float64 `toml:"platform_commission_rate"`
	DefaultCurrency        string  `toml:"default_currency"`
	// ReminderLeadMinutes за сколько минут до начала отправлять напоминание
	ReminderLeadMinutes int `toml:"reminder_lead_minutes"`
	// Пороги политики отмены в часах
	FullRefundHours int `toml:"full_refund_hours"`
	HalfRefundHours int `toml:"half_refund_hours"`
	// PendingTTLMinutes сколько неоплаченная заявка держит слот
	PendingTTLMinutes int `toml:"pending_ttl_minutes"`
}

// RedisConfig кэш доступных дат. Пустой URL отключает кэш.
type RedisConfig struct {
	URL        string `toml:"url"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// RabbitMQConfig очередь уведомлений и события платежей. Пустой URL включает
// логирующий fallback для уведомлений и отключает consumer платежей.
type RabbitMQConfig struct {
	URL                  string `toml:"url"`
	NotificationExchange string `toml:"notification_exchange"`
	PaymentsExchange     string `toml:"payments_exchange"`
	PaymentsQueue        string `toml:"payments_queue"`
	QueueSize            int    `toml:"queue_size"`
	Workers              int    `toml:"workers"`
}

// SchedulerConfig расписания периодических задач (cron выражения)
type SchedulerConfig struct {
	CompleteElapsedSchedule string `toml:"complete_elapsed_schedule"`
	RemindersSchedule       string `toml:"reminders_schedule"`
	ExpirePendingSchedule   string `toml:"expire_pending_schedule"`
	BatchSize               int    `toml:"batch_size"`
	// MetricsPort порт /metrics процесса планировщика
	MetricsPort int `toml:"metrics_port"`
}

// Load читает TOML файл, применяет значения по умолчанию и переопределения из окружения.
// Если рядом есть .env, он загружается до чтения переменных окружения.
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "consultation-service",
		},
		Booking: BookingConfig{
			PlatformCommissionRate: 0.20,
			DefaultCurrency:        "USD",
			ReminderLeadMinutes:    60,
			FullRefundHours:        24,
			HalfRefundHours:        12,
			PendingTTLMinutes:      30,
		},
		Redis: RedisConfig{TTLSeconds: 60},
		RabbitMQ: RabbitMQConfig{
			NotificationExchange: "notifications",
			PaymentsExchange:     "payments",
			PaymentsQueue:        "consultation.payments",
			QueueSize:            1024,
			Workers:              2,
		},
		Scheduler: SchedulerConfig{
			CompleteElapsedSchedule: "@every 5m",
			RemindersSchedule:       "@every 1m",
			ExpirePendingSchedule:   "@every 1m",
			BatchSize:               100,
			MetricsPort:             9091,
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		c.RabbitMQ.URL = v
	}
	if v := os.Getenv("PLATFORM_COMMISSION_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: PLATFORM_COMMISSION_RATE=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Booking.PlatformCommissionRate = rate
	}
	return nil
}

// Validate проверяет значения, от которых зависит корректность расчетов
func (c *Config) Validate() error {
	if c.Booking.PlatformCommissionRate < 0 || c.Booking.PlatformCommissionRate >= 1 {
		return fmt.Errorf("%w: platform_commission_rate must be in [0, 1), got %v",
			ErrInvalidConfig, c.Booking.PlatformCommissionRate)
	}
	if c.Booking.HalfRefundHours < 0 || c.Booking.FullRefundHours < c.Booking.HalfRefundHours {
		return fmt.Errorf("%w: refund thresholds must satisfy 0 <= half_refund_hours <= full_refund_hours",
			ErrInvalidConfig)
	}
	if c.Booking.ReminderLeadMinutes <= 0 {
		return fmt.Errorf("%w: reminder_lead_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.PendingTTLMinutes <= 0 {
		return fmt.Errorf("%w: pending_ttl_minutes must be positive", ErrInvalidConfig)
	}
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.RabbitMQ.QueueSize <= 0 || c.RabbitMQ.Workers <= 0 {
		return fmt.Errorf("%w: rabbitmq queue_size and workers must be positive", ErrInvalidConfig)
	}
	return nil
}
