package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Database struct {
		URL             string        `yaml:"url"`
		MaxConns        int32         `yaml:"max_conns"`
		MinConns        int32         `yaml:"min_conns"`
		ConnectTimeout  time.Duration `yaml:"connect_timeout"`
		MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
		AutoMigrate     bool          `yaml:"auto_migrate"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret    string        `yaml:"jwt_secret"`
		TokenTTL     time.Duration `yaml:"token_ttl"`
		CookieName   string        `yaml:"cookie_name"`
		CookieSecure bool          `yaml:"cookie_secure"`
		BcryptCost   int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Cache struct {
		Backend       string        `yaml:"backend"` // memory, redis, layered
		PriceTTL      time.Duration `yaml:"price_ttl"`
		NewsTTL       time.Duration `yaml:"news_ttl"`
		MemoryMaxSize int           `yaml:"memory_max_size"`
		Redis         struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Providers struct {
		Price struct {
			BaseURL string        `yaml:"base_url"`
			APIKey  string        `yaml:"api_key"`
			Timeout time.Duration `yaml:"timeout"`
			Retries int           `yaml:"retries"`
		} `yaml:"price"`
		News struct {
			BaseURL string        `yaml:"base_url"`
			Token   string        `yaml:"token"`
			Timeout time.Duration `yaml:"timeout"`
			Retries int           `yaml:"retries"`
		} `yaml:"news"`
		Insight struct {
			BaseURL     string        `yaml:"base_url"`
			APIKey      string        `yaml:"api_key"`
			Model       string        `yaml:"model"`
			Timeout     time.Duration `yaml:"timeout"`
			MaxTokens   int           `yaml:"max_tokens"`
			Temperature float32       `yaml:"temperature"`
		} `yaml:"insight"`
		Meme struct {
			StaticDir  string `yaml:"static_dir"`
			PublicPath string `yaml:"public_path"`
		} `yaml:"meme"`
	} `yaml:"providers"`
	Dashboard struct {
		StreamInterval time.Duration `yaml:"stream_interval"`
	} `yaml:"dashboard"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Secrets are expected to come from the environment, so validation runs last.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Environment, "APP_ENV")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setString(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Providers.Price.APIKey, "COINGECKO_API_KEY")
	setString(&c.Providers.News.Token, "CRYPTOPANIC_TOKEN")
	setString(&c.Providers.Insight.APIKey, "OPENAI_API_KEY")
	setString(&c.Providers.Insight.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Providers.Insight.Model, "OPENAI_MODEL")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
		c.ClickHouse.Enabled = true
	}
	setString(&c.ClickHouse.Password, "CLICKHOUSE_PASSWORD")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "token"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.PriceTTL == 0 {
		c.Cache.PriceTTL = time.Minute
	}
	if c.Cache.NewsTTL == 0 {
		c.Cache.NewsTTL = 5 * time.Minute
	}
	if c.Cache.MemoryMaxSize == 0 {
		c.Cache.MemoryMaxSize = 1000
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "cryptodash"
	}

	p := &c.Providers
	if p.Price.BaseURL == "" {
		p.Price.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if p.Price.Timeout == 0 {
		p.Price.Timeout = 4 * time.Second
	}
	if p.News.BaseURL == "" {
		p.News.BaseURL = "https://cryptopanic.com/api/v1"
	}
	if p.News.Timeout == 0 {
		p.News.Timeout = 4 * time.Second
	}
	if p.Insight.Model == "" {
		p.Insight.Model = "gpt-4o-mini"
	}
	if p.Insight.Timeout == 0 {
		p.Insight.Timeout = 6 * time.Second
	}
	if p.Insight.MaxTokens == 0 {
		p.Insight.MaxTokens = 160
	}
	if p.Meme.PublicPath == "" {
		p.Meme.PublicPath = "/static/memes"
	}
	if p.Meme.StaticDir == "" {
		p.Meme.StaticDir = "assets/memes"
	}

	if c.Dashboard.StreamInterval == 0 {
		c.Dashboard.StreamInterval = time.Minute
	}

	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "feedback.events"
	}
	if c.Kafka.Consumer.GroupID == "" {
		c.Kafka.Consumer.GroupID = "cryptodash-feedback-analytics"
	}
	if c.ClickHouse.Port == 0 {
		c.ClickHouse.Port = 9000
	}
	if c.ClickHouse.Database == "" {
		c.ClickHouse.Database = "cryptodash"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis", "layered":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for backend '%s'", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
