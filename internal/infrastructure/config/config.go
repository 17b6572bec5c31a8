package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Stagelight Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Show      ShowConfig      `yaml:"show"`
	Database  DatabaseConfig  `yaml:"database"`
	DMX       DMXConfig       `yaml:"dmx"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
}

// ShowConfig identifies the installation (venue, rig name).
type ShowConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// DMXConfig contains DMX output and Art-Net transmission settings.
type DMXConfig struct {
	// UniverseCount is the number of DMX universes to allocate (ids 1..N).
	UniverseCount int `yaml:"universe_count"`

	// ActiveRefreshRate is the transmission rate in Hz while channels are
	// changing. Default: 44 (the DMX512 full-frame maximum).
	ActiveRefreshRate float64 `yaml:"active_refresh_rate"`

	// IdleRefreshRate is the keep-alive transmission rate in Hz when no
	// channels have changed for HoldoverMS. Default: 1.
	IdleRefreshRate float64 `yaml:"idle_refresh_rate"`

	// HoldoverMS is how long the sender stays at the active rate after the
	// last detected change before dropping to the idle rate. Default: 2000.
	HoldoverMS int `yaml:"holdover_ms"`

	// ArtNet contains Art-Net network output settings.
	ArtNet ArtNetConfig `yaml:"artnet"`
}

// ArtNetConfig contains Art-Net network output settings.
type ArtNetConfig struct {
	// Enabled controls whether packets are actually sent on the network.
	// When false the output service still tracks state (useful for tests
	// and headless previewing).
	Enabled bool `yaml:"enabled"`

	// BroadcastAddress is the destination for ArtDMX packets. When empty,
	// the broadcast address of Interface is used, falling back to
	// 255.255.255.255.
	BroadcastAddress string `yaml:"broadcast_address"`

	// Interface optionally names a network interface whose broadcast
	// address is used when BroadcastAddress is empty.
	Interface string `yaml:"interface"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains optional MQTT status-bus settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains optional telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains JWT bearer-token settings for the API.
type JWTConfig struct {
	// Enabled controls whether API requests require a bearer token.
	// Disable only on trusted networks (e.g., a dedicated lighting VLAN
	// backstage).
	Enabled bool `yaml:"enabled"`

	Secret         string `yaml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: STAGELIGHT_SECTION_KEY
// For example: STAGELIGHT_DATABASE_PATH, STAGELIGHT_DMX_UNIVERSE_COUNT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in defaults without reading a file.
// Used by tests and by components that only need a valid baseline.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Show: ShowConfig{
			ID:   "show-001",
			Name: "Stagelight",
		},
		Database: DatabaseConfig{
			Path:        "./data/stagelight.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		DMX: DMXConfig{
			UniverseCount:     4,
			ActiveRefreshRate: 44,
			IdleRefreshRate:   1,
			HoldoverMS:        2000,
			ArtNet: ArtNetConfig{
				Enabled: true,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "stagelight-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				Enabled:        true,
				AccessTokenTTL: 60,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: STAGELIGHT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("STAGELIGHT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// DMX
	if v := os.Getenv("STAGELIGHT_DMX_UNIVERSE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DMX.UniverseCount = n
		}
	}
	if v := os.Getenv("STAGELIGHT_DMX_BROADCAST_ADDRESS"); v != "" {
		cfg.DMX.ArtNet.BroadcastAddress = v
	}
	if v := os.Getenv("STAGELIGHT_DMX_ARTNET_ENABLED"); v != "" {
		cfg.DMX.ArtNet.Enabled = v == "true" || v == "1"
	}

	// API
	if v := os.Getenv("STAGELIGHT_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("STAGELIGHT_API_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = n
		}
	}

	// MQTT
	if v := os.Getenv("STAGELIGHT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("STAGELIGHT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("STAGELIGHT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("STAGELIGHT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security - JWT secret (IMPORTANT: always override in production)
	if v := os.Getenv("STAGELIGHT_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Show.ID == "" {
		errs = append(errs, "show.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// DMX validation. The universe ceiling matches the Art-Net 15-bit
	// port-address space; in practice installs use a handful.
	const maxUniverses = 32768
	if c.DMX.UniverseCount < 1 || c.DMX.UniverseCount > maxUniverses {
		errs = append(errs, fmt.Sprintf("dmx.universe_count must be between 1 and %d", maxUniverses))
	}
	if c.DMX.ActiveRefreshRate <= 0 {
		errs = append(errs, "dmx.active_refresh_rate must be positive")
	}
	if c.DMX.IdleRefreshRate <= 0 {
		errs = append(errs, "dmx.idle_refresh_rate must be positive")
	}
	if c.DMX.IdleRefreshRate > c.DMX.ActiveRefreshRate {
		errs = append(errs, "dmx.idle_refresh_rate must not exceed dmx.active_refresh_rate")
	}
	if c.DMX.HoldoverMS < 0 {
		errs = append(errs, "dmx.holdover_ms must not be negative")
	}

	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Security validation - a weak JWT secret would let anyone on the
	// network drive the rig.
	const minJWTSecretLength = 32
	if c.Security.JWT.Enabled {
		if c.Security.JWT.Secret == "" {
			errs = append(errs, "security.jwt.secret is required (set STAGELIGHT_JWT_SECRET environment variable)")
		} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
			errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// HoldoverDuration returns the active-rate holdover window as a Duration.
func (c *DMXConfig) HoldoverDuration() time.Duration {
	return time.Duration(c.HoldoverMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
