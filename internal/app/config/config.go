package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Store     StoreConfig     `yaml:"store"`
	HTTP      HTTPConfig      `yaml:"http"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type StoreConfig struct {
	// Backend selects the Store adapter: "memory", "postgres" or "redis".
	Backend  string         `yaml:"backend"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type AnalyticsConfig struct {
	// ReferenceTempC is the heat-content baseline temperature.
	ReferenceTempC float64 `yaml:"reference_temp_c"`
	// MaxDepthFactorM bounds the depth term of the heat-content proxy.
	MaxDepthFactorM float64 `yaml:"max_depth_factor_m"`
	ExportTitle     string  `yaml:"export_title"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a ready-to-use in-memory configuration for embedding and
// one-shot CLI commands that run without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg
}

// applyEnvOverrides lets deployment credentials come from the environment
// (an optional .env is loaded by the caller) instead of the YAML file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OCEAN_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("OCEAN_POSTGRES_CONN"); v != "" {
		c.Store.Postgres.ConnString = v
	}
	if v := os.Getenv("OCEAN_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("OCEAN_REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}
	if v := os.Getenv("OCEAN_MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
	}
	if v := os.Getenv("OCEAN_MQTT_USERNAME"); v != "" {
		c.MQTT.Username = v
	}
	if v := os.Getenv("OCEAN_MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
	if v := os.Getenv("OCEAN_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("OCEAN_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = "tcp://localhost:1883"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "ocean-collector"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "ocean/+/readings"
	}
	if c.Analytics.MaxDepthFactorM == 0 {
		c.Analytics.MaxDepthFactorM = 100
	}
	if c.Analytics.ExportTitle == "" {
		c.Analytics.ExportTitle = "BlackRoad Ocean Data Collection"
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Store.Postgres.ConnString == "" {
			return fmt.Errorf("store.postgres.conn_string is required for the postgres backend")
		}
	default:
		return fmt.Errorf("store.backend %q is not one of memory, postgres, redis", c.Store.Backend)
	}
	if c.Analytics.MaxDepthFactorM < 0 {
		return fmt.Errorf("analytics.max_depth_factor_m must be non-negative")
	}
	return nil
}
