package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the store. Driver is "mysql" or "sqlite"; Path is
// only read for sqlite.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_unicode_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type TokenConfig struct {
	ResetExpiresMinutes int `mapstructure:"reset_expires_minutes"`
}

func (t TokenConfig) ResetTTL() time.Duration {
	return time.Duration(t.ResetExpiresMinutes) * time.Minute
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	Issuer           string `mapstructure:"issuer"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	Token    TokenConfig    `mapstructure:"token"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig bounds login and password reset attempts per email
// address and public auth requests per IP.
type RateLimitConfig struct {
	ResetRequests      int `mapstructure:"reset_requests"`
	ResetWindowMinutes int `mapstructure:"reset_window_minutes"`
	LoginAttempts      int `mapstructure:"login_attempts"`
	LoginWindowMinutes int `mapstructure:"login_window_minutes"`
	// IPRequests caps requests per client IP on each public auth route.
	IPRequests         int `mapstructure:"ip_requests"`
	IPWindowSeconds    int `mapstructure:"ip_window_seconds"`
}

type KafkaConfig struct {
	Enabled             bool     `mapstructure:"enabled"`
	Brokers             []string `mapstructure:"brokers"`
	Topic               string   `mapstructure:"topic"`
	ClientID            string   `mapstructure:"client_id"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds"`
}

type StorageConfig struct {
	Root              string   `mapstructure:"root"`
	MaxFileSizeMB     int      `mapstructure:"max_file_size_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

func (s StorageConfig) MaxFileSize() int64 {
	return int64(s.MaxFileSizeMB) << 20
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Status update scope policies.
const (
	StatusScopeAny     = "any"
	StatusScopeVisible = "visible"
)

// PolicyConfig holds behaviour switches for ticket handling.
type PolicyConfig struct {
	// StatusUpdateScope is "any" (staff may change the status of any ticket)
	// or "visible" (the ticket must be inside the actor's visibility scope).
	StatusUpdateScope string `mapstructure:"status_update_scope"`
	BoardDefaultLimit int    `mapstructure:"board_default_limit"`
	ChartDays         int    `mapstructure:"chart_days"`
}
