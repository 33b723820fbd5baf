package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "FLEETGPS_"

// DefaultPath is the config file used when FLEETGPS_CONFIG is unset.
const DefaultPath = "configs/config.yaml"

// DefaultEnvFile is the optional dotenv file read before the YAML file.
const DefaultEnvFile = ".env"

// Config is everything the service reads at startup. Values come from
// defaults, then the YAML file, then FLEETGPS_* variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	API      APIConfig      `yaml:"api"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig identifies this deployment.
type ServiceConfig struct {
	Name            string `yaml:"name"`
	Environment     string `yaml:"environment"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
}

// ShutdownGrace is ShutdownTimeout as a Duration.
func (s ServiceConfig) ShutdownGrace() time.Duration {
	return seconds(s.ShutdownTimeout)
}

// DatabaseConfig points at the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
	// WALMode enables write-ahead logging; BusyTimeout is in seconds.
	WALMode     bool `yaml:"wal_mode"`
	BusyTimeout int  `yaml:"busy_timeout"`
	// Seed loads the demo fleet when the registry is empty.
	Seed bool `yaml:"seed"`
}

// MQTTConfig covers the broker connection plus the ingest and event topics.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Ingest      MQTTIngestConfig    `yaml:"ingest"`
	Events      MQTTEventsConfig    `yaml:"events"`
}

type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig bounds the client's retry backoff, in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// MQTTIngestConfig controls the device position subscription.
type MQTTIngestConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MQTTEventsConfig controls publishing of integration events over MQTT.
type MQTTEventsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RabbitMQConfig contains the event fanout settings.
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

// APIConfig is the HTTP listener.
type APIConfig struct {
	Host         string           `yaml:"host"`
	Port         int              `yaml:"port"`
	TLS          TLSConfig        `yaml:"tls"`
	Timeouts     APITimeoutConfig `yaml:"timeouts"`
	CORS         CORSConfig       `yaml:"cors"`
	MaxBodyBytes int64            `yaml:"max_body_bytes"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig holds http.Server timeouts in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

func (t APITimeoutConfig) ReadTimeout() time.Duration  { return seconds(t.Read) }
func (t APITimeoutConfig) WriteTimeout() time.Duration { return seconds(t.Write) }
func (t APITimeoutConfig) IdleTimeout() time.Duration  { return seconds(t.Idle) }

// CORSConfig lists what browsers may send. A "*" origin allows any.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// InfluxDBConfig configures the telemetry mirror. FlushInterval is in seconds.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig selects level, format and destination.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"` // json or text
	Output string            `yaml:"output"` // stdout, stderr or file
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig is passed through to lumberjack when Output is "file".
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxBackups int    `yaml:"max_backups"` // rotated files kept
	MaxAge     int    `yaml:"max_age"`     // days
	Compress   bool   `yaml:"compress"`
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// PathFromEnv returns the config file path from FLEETGPS_CONFIG, or DefaultPath.
func PathFromEnv() string {
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
		return v
	}
	return DefaultPath
}

// Load builds a Config from defaults, the optional .env file, the YAML
// file at path and FLEETGPS_* variables, in that order, then validates it.
// Variables already present in the environment win over .env entries.
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit dotenv path. An empty envFile
// skips dotenv loading. A missing file is not an error.
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	cfg := defaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:            "fleetgps",
			Environment:     "development",
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/fleetgps.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: true,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "fleetgps-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     30,
			},
			TopicPrefix: "fleetgps",
			Ingest:      MQTTIngestConfig{Enabled: true},
			Events:      MQTTEventsConfig{Enabled: true},
		},
		RabbitMQ: RabbitMQConfig{
			Exchange: "fleet.events",
			Queue:    "fleet.audit",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			MaxBodyBytes: 1 << 20,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
			File: FileLoggingConfig{
				Path:       "./logs/fleetgps.log",
				MaxSize:    100,
				MaxBackups: 5,
				MaxAge:     30,
			},
		},
	}
}

// applyEnvOverrides applies FLEETGPS_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	var errs problems

	str := func(key string, dst *string) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs.add(EnvPrefix + key + " must be a boolean")
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(EnvPrefix + key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs.add(EnvPrefix + key + " must be an integer")
				return
			}
			*dst = n
		}
	}

	// Database
	str("DATABASE_PATH", &cfg.Database.Path)
	boolean("DATABASE_SEED", &cfg.Database.Seed)

	// MQTT
	boolean("MQTT_ENABLED", &cfg.MQTT.Enabled)
	str("MQTT_HOST", &cfg.MQTT.Broker.Host)
	integer("MQTT_PORT", &cfg.MQTT.Broker.Port)
	str("MQTT_USERNAME", &cfg.MQTT.Auth.Username)
	str("MQTT_PASSWORD", &cfg.MQTT.Auth.Password)
	str("MQTT_TOPIC_PREFIX", &cfg.MQTT.TopicPrefix)

	// RabbitMQ
	boolean("RABBITMQ_ENABLED", &cfg.RabbitMQ.Enabled)
	str("RABBITMQ_URL", &cfg.RabbitMQ.URL)

	// API
	str("API_HOST", &cfg.API.Host)
	integer("API_PORT", &cfg.API.Port)

	// InfluxDB
	boolean("INFLUXDB_ENABLED", &cfg.InfluxDB.Enabled)
	str("INFLUXDB_URL", &cfg.InfluxDB.URL)
	str("INFLUXDB_TOKEN", &cfg.InfluxDB.Token)

	// Logging
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	return errs.err("environment overrides")
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var p problems

	p.require(c.Service.Name != "", "service.name is required")

	p.require(c.Database.Path != "", "database.path is required")
	p.require(c.Database.BusyTimeout >= 0, "database.busy_timeout must not be negative")

	p.require(c.MQTT.QoS >= 0 && c.MQTT.QoS <= 2, "mqtt.qos must be 0, 1, or 2")
	if c.MQTT.Enabled {
		p.require(c.MQTT.Broker.Host != "", "mqtt.broker.host is required when mqtt is enabled")
		p.require(c.MQTT.TopicPrefix != "" && !strings.ContainsAny(c.MQTT.TopicPrefix, "+#"),
			"mqtt.topic_prefix must be non-empty and contain no wildcards")
	}

	if c.RabbitMQ.Enabled {
		p.require(c.RabbitMQ.URL != "", "rabbitmq.url is required when rabbitmq is enabled")
		p.require(c.RabbitMQ.Exchange != "", "rabbitmq.exchange is required when rabbitmq is enabled")
	}

	p.require(c.API.Port > 0 && c.API.Port <= 65535, "api.port must be between 1 and 65535")
	if c.API.TLS.Enabled {
		p.require(c.API.TLS.CertFile != "" && c.API.TLS.KeyFile != "",
			"api.tls.cert_file and api.tls.key_file are required when tls is enabled")
	}

	if c.InfluxDB.Enabled {
		p.require(c.InfluxDB.URL != "" && c.InfluxDB.Org != "" && c.InfluxDB.Bucket != "",
			"influxdb.url, influxdb.org and influxdb.bucket are required when influxdb is enabled")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		p.add("logging.level must be debug, info, warn or error")
	}
	switch c.Logging.Output {
	case "stdout", "stderr":
	case "file":
		p.require(c.Logging.File.Path != "", "logging.file.path is required when logging.output is file")
	default:
		p.add("logging.output must be stdout, stderr or file")
	}

	return p.err("configuration errors")
}

// problems accumulates validation messages.
type problems []string

func (p *problems) add(msg string) { *p = append(*p, msg) }

func (p *problems) require(ok bool, msg string) {
	if !ok {
		p.add(msg)
	}
}

func (p problems) err(prefix string) error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", prefix, strings.Join(p, "; "))
}
