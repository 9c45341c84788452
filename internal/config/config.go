// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	MDNS     MDNSConfig     `mapstructure:"mdns"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         int           `mapstructure:"port" validate:"required"`
	User         string        `mapstructure:"user" validate:"required"`
	Password     string        `mapstructure:"password" validate:"required"`
	DBName       string        `mapstructure:"dbname" validate:"required"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// CameraConfig represents the camera link and protocol configuration
type CameraConfig struct {
	// Connection is "serial" or "tcp".
	Connection string           `mapstructure:"connection" validate:"required"`
	Serial     SerialPortConfig `mapstructure:"serial"`
	TCP        TCPPortConfig    `mapstructure:"tcp"`

	ResponseTimeout  time.Duration `mapstructure:"response_timeout"`
	ByteTimeout      time.Duration `mapstructure:"byte_timeout"`
	ChunkReadTimeout time.Duration `mapstructure:"chunk_read_timeout"`
	TransferBudget   time.Duration `mapstructure:"transfer_budget"`
	ChunkSize        int           `mapstructure:"chunk_size"`
	ChunkRetries     int           `mapstructure:"chunk_retries"`

	// SnapshotTimeout bounds how long a capture may stay BUSY before the
	// service gives up on it.
	SnapshotTimeout time.Duration `mapstructure:"snapshot_timeout"`
	StatusPoll      time.Duration `mapstructure:"status_poll"`
}

// SerialPortConfig represents serial port configuration
type SerialPortConfig struct {
	Port     string `mapstructure:"port" validate:"required"`
	BaudRate int    `mapstructure:"baud_rate"`
	DataBits int    `mapstructure:"data_bits"`
	StopBits int    `mapstructure:"stop_bits"`
	Parity   string `mapstructure:"parity"`
}

// TCPPortConfig represents TCP serial bridge configuration
type TCPPortConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	KeepAlive      bool          `mapstructure:"keep_alive"`
}

// StorageConfig represents image storage configuration
type StorageConfig struct {
	ImageDir        string        `mapstructure:"image_dir" validate:"required"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MDNSConfig represents mDNS service advertisement configuration
type MDNSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Instance string `mapstructure:"instance"`
	Service  string `mapstructure:"service"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/camera-service")

	// Environment variable support
	viper.SetEnvPrefix("CAMERA_SERVICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env cover everything.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8086")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "300s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.tls.enabled", false)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "camera_service")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_lifetime", "5m")

	// Camera defaults. The HydroCAM talks 115200 8N1, the protocol
	// timeouts match its firmware behavior.
	viper.SetDefault("camera.connection", "serial")
	viper.SetDefault("camera.serial.port", "/dev/ttyUSB0")
	viper.SetDefault("camera.serial.baud_rate", 115200)
	viper.SetDefault("camera.serial.data_bits", 8)
	viper.SetDefault("camera.serial.stop_bits", 1)
	viper.SetDefault("camera.serial.parity", "none")
	viper.SetDefault("camera.tcp.host", "localhost")
	viper.SetDefault("camera.tcp.port", 4001)
	viper.SetDefault("camera.tcp.connect_timeout", "10s")
	viper.SetDefault("camera.tcp.keep_alive", true)
	viper.SetDefault("camera.response_timeout", "5s")
	viper.SetDefault("camera.byte_timeout", "10ms")
	viper.SetDefault("camera.chunk_read_timeout", "15ms")
	viper.SetDefault("camera.transfer_budget", "120s")
	viper.SetDefault("camera.chunk_size", 16384)
	viper.SetDefault("camera.chunk_retries", 8)
	viper.SetDefault("camera.snapshot_timeout", "60s")
	viper.SetDefault("camera.status_poll", "500ms")

	// Storage defaults
	viper.SetDefault("storage.image_dir", "./data/images")
	viper.SetDefault("storage.retention", "720h")
	viper.SetDefault("storage.cleanup_interval", "1h")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)

	// mDNS defaults
	viper.SetDefault("mdns.enabled", false)
	viper.SetDefault("mdns.instance", "camera-service")
	viper.SetDefault("mdns.service", "_camera-service._tcp")

	// Security defaults
	viper.SetDefault("security.rate_limit_enabled", true)
	viper.SetDefault("security.rate_limit_requests", 100)
	viper.SetDefault("security.rate_limit_window", "1m")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	// App defaults
	viper.SetDefault("app.name", "camera-service")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	// Basic validation
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Storage.ImageDir == "" {
		return fmt.Errorf("storage.image_dir is required")
	}

	// Validate camera connection type
	switch config.Camera.Connection {
	case "serial":
		if config.Camera.Serial.Port == "" {
			return fmt.Errorf("camera.serial.port is required")
		}
	case "tcp":
		if config.Camera.TCP.Host == "" || config.Camera.TCP.Port == 0 {
			return fmt.Errorf("camera.tcp.host and camera.tcp.port are required")
		}
	default:
		return fmt.Errorf("camera.connection must be serial or tcp")
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetCameraAddr returns the TCP bridge address for tcp connections
func (c *Config) GetCameraAddr() string {
	return fmt.Sprintf("%s:%d", c.Camera.TCP.Host, c.Camera.TCP.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
