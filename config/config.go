package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendLocal    = "local"
	BackendRedis    = "redis"
	BackendUUID     = "uuid"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Storage  StorageConfig  `yaml:"storage"`
	IDs      IDsConfig      `yaml:"ids"`
	Locks    LocksConfig    `yaml:"locks"`
	Flights  FlightsConfig  `yaml:"flights"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	Swagger bool   `yaml:"swagger"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ReservationsTopic  string   `yaml:"reservations_topic"`
	PaymentsTopic      string   `yaml:"payments_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
	PublishAttempts    int      `yaml:"publish_attempts"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type IDsConfig struct {
	Backend           string `yaml:"backend"`
	ReservationPrefix string `yaml:"reservation_prefix"`
	ReservationBase   int64  `yaml:"reservation_base"`
	PaymentPrefix     string `yaml:"payment_prefix"`
	PaymentBase       int64  `yaml:"payment_base"`
}

type LocksConfig struct {
	Backend     string `yaml:"backend"`
	TTLSeconds  int    `yaml:"ttl_seconds"`
	WaitSeconds int    `yaml:"wait_seconds"`
}

func (l LocksConfig) TTL() time.Duration  { return time.Duration(l.TTLSeconds) * time.Second }
func (l LocksConfig) Wait() time.Duration { return time.Duration(l.WaitSeconds) * time.Second }

type FlightsConfig struct {
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	SeedFile        string `yaml:"seed_file"`
}

func (f FlightsConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	if c.IDs.Backend == "" {
		c.IDs.Backend = BackendLocal
	}
	if c.IDs.ReservationPrefix == "" {
		c.IDs.ReservationPrefix = "RES"
	}
	if c.IDs.ReservationBase == 0 {
		c.IDs.ReservationBase = 1000
	}
	if c.IDs.PaymentPrefix == "" {
		c.IDs.PaymentPrefix = "PAY"
	}
	if c.IDs.PaymentBase == 0 {
		c.IDs.PaymentBase = 5000
	}
	if c.Locks.Backend == "" {
		c.Locks.Backend = BackendLocal
	}
	if c.Locks.TTLSeconds == 0 {
		c.Locks.TTLSeconds = 10
	}
	if c.Locks.WaitSeconds == 0 {
		c.Locks.WaitSeconds = 5
	}
	if c.Flights.CacheTTLSeconds == 0 {
		c.Flights.CacheTTLSeconds = 30
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "skyreserve-worker"
	}
	if c.Kafka.PublishAttempts == 0 {
		c.Kafka.PublishAttempts = 3
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Kafka.PublishAttempts < 0 {
		return fmt.Errorf("kafka publish_attempts cannot be negative")
	}
	for name, backend := range map[string]string{"ids": c.IDs.Backend, "locks": c.Locks.Backend} {
		switch backend {
		case BackendLocal:
		case BackendUUID:
			if name != "ids" {
				return fmt.Errorf("unknown %s backend %q", name, backend)
			}
		case BackendRedis:
			if !c.Redis.Enabled {
				return fmt.Errorf("%s backend %q requires redis.enabled", name, backend)
			}
		default:
			return fmt.Errorf("unknown %s backend %q", name, backend)
		}
	}
	return nil
}
