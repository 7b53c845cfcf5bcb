package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        logger.Config    `mapstructure:"log"`
	Search     SearchConfig     `mapstructure:"search"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	AI         AIConfig         `mapstructure:"ai"`
	Graft      GraftConfig      `mapstructure:"graft"`
	Trends     TrendsConfig     `mapstructure:"trends"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	WorkerPool WorkerPoolConfig `mapstructure:"workerpool"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SearchConfig governs the unified search endpoint itself
type SearchConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	MinQueryLength int           `mapstructure:"min_query_length" validate:"min=1"`
	DefaultLimit   int           `mapstructure:"default_limit" validate:"min=1"`
	MaxLimit       int           `mapstructure:"max_limit" validate:"gtefield=DefaultLimit"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// SourceConfig describes one upstream data source
type SourceConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gte=0"` // requests per second, 0 disables
	Burst     int           `mapstructure:"burst" validate:"gte=0"`
}

type SourcesConfig struct {
	Taxon       SourceConfig `mapstructure:"taxon"`
	Compound    SourceConfig `mapstructure:"compound"`
	Research    SourceConfig `mapstructure:"research"`
	Observation SourceConfig `mapstructure:"observation"`
	Semantic    SourceConfig `mapstructure:"semantic"`
	Environment SourceConfig `mapstructure:"environment"`
	Retry       retry.Config `mapstructure:"retry"`
}

// ProviderConfig describes one AI answer provider. A provider without
// credentials (or, for MYCA, without a base URL) is skipped.
type ProviderConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens" validate:"gte=0"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Timeout   time.Duration  `mapstructure:"timeout" validate:"gt=0"`
	MYCA      ProviderConfig `mapstructure:"myca"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Groq      ProviderConfig `mapstructure:"groq"`
	Retry     retry.Config   `mapstructure:"retry"`
}

type GraftConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxItems int           `mapstructure:"max_items" validate:"min=1"`
}

type TrendsConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// HistoryWindow is how many recent search logs the history summary reads
	HistoryWindow int `mapstructure:"history_window" validate:"gte=0,lte=100"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	PoolSize int    `mapstructure:"pool_size" validate:"gte=0"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type WorkerPoolConfig struct {
	Size             int           `mapstructure:"size" validate:"min=1"`
	MaxBlockingTasks int           `mapstructure:"max_blocking_tasks" validate:"gte=0"`
	Nonblocking      bool          `mapstructure:"nonblocking"`
	ExpiryDuration   time.Duration `mapstructure:"expiry_duration"`
}

// credential environment variables bound regardless of config file layout
var envBindings = map[string]string{
	"ai.myca.base_url":         "MYCA_API_URL",
	"ai.myca.api_key":          "MYCA_API_KEY",
	"ai.openai.api_key":        "OPENAI_API_KEY",
	"ai.anthropic.api_key":     "ANTHROPIC_API_KEY",
	"ai.groq.api_key":          "GROQ_API_KEY",
	"sources.semantic.api_key": "EXA_API_KEY",
	"sources.taxon.api_key":    "MINDEX_API_KEY",
	"sources.compound.api_key": "MINDEX_API_KEY",
	"sources.research.api_key": "MINDEX_API_KEY",
	"graft.api_key":            "MINDEX_API_KEY",
	"redis.password":           "REDIS_PASSWORD",
	"database.password":        "DATABASE_PASSWORD",
}

// LoadConfig reads path (optional) on top of built-in defaults and the
// environment, then validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks struct constraints and the logger section
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	lc := logger.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
	v.SetDefault("log.service", lc.Service)
	v.SetDefault("log.enablecaller", lc.EnableCaller)
	v.SetDefault("log.enablestacktrace", lc.EnableStacktrace)
	v.SetDefault("log.file.filename", lc.File.Filename)
	v.SetDefault("log.file.maxsize", lc.File.MaxSize)
	v.SetDefault("log.file.maxage", lc.File.MaxAge)
	v.SetDefault("log.file.maxbackups", lc.File.MaxBackups)
	v.SetDefault("log.file.compress", lc.File.Compress)

	v.SetDefault("search.request_timeout", 25*time.Second)
	v.SetDefault("search.min_query_length", 2)
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.cache_ttl", 5*time.Minute)

	const mindex = "http://localhost:8000"
	v.SetDefault("sources.taxon.base_url", mindex)
	v.SetDefault("sources.taxon.timeout", 5*time.Second)
	v.SetDefault("sources.compound.base_url", mindex)
	v.SetDefault("sources.compound.timeout", 5*time.Second)
	v.SetDefault("sources.research.base_url", mindex)
	v.SetDefault("sources.research.timeout", 5*time.Second)
	v.SetDefault("sources.observation.base_url", "https://api.inaturalist.org")
	v.SetDefault("sources.observation.timeout", 8*time.Second)
	v.SetDefault("sources.observation.rate_limit", 1.0)
	v.SetDefault("sources.observation.burst", 5)
	v.SetDefault("sources.semantic.base_url", "https://api.exa.ai")
	v.SetDefault("sources.semantic.timeout", 10*time.Second)
	v.SetDefault("sources.environment.base_url", "http://localhost:3000")
	v.SetDefault("sources.environment.timeout", 8*time.Second)

	rc := retry.DefaultConfig()
	v.SetDefault("sources.retry.max_retries", rc.MaxRetries)
	v.SetDefault("sources.retry.initial_delay", rc.InitialDelay)
	v.SetDefault("sources.retry.max_delay", rc.MaxDelay)
	v.SetDefault("sources.retry.retryable_statuses", rc.RetryableStatuses)

	v.SetDefault("ai.timeout", 15*time.Second)
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.max_tokens", 500)
	v.SetDefault("ai.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("ai.anthropic.model", "claude-3-haiku-20240307")
	v.SetDefault("ai.anthropic.max_tokens", 500)
	v.SetDefault("ai.groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.groq.model", "llama-3.1-8b-instant")
	v.SetDefault("ai.groq.max_tokens", 500)
	v.SetDefault("ai.retry.max_retries", 2)
	v.SetDefault("ai.retry.initial_delay", time.Second)
	v.SetDefault("ai.retry.max_delay", 4*time.Second)
	v.SetDefault("ai.retry.retryable_statuses", rc.RetryableStatuses)

	v.SetDefault("graft.enabled", true)
	v.SetDefault("graft.endpoint", mindex+"/api/mindex/graft/batch")
	v.SetDefault("graft.timeout", 10*time.Second)
	v.SetDefault("graft.max_items", 10)

	v.SetDefault("trends.base_url", mindex)
	v.SetDefault("trends.timeout", 3*time.Second)
	v.SetDefault("trends.history_window", 100)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mindex")
	v.SetDefault("database.dbname", "mindex")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("workerpool.size", 64)
	v.SetDefault("workerpool.max_blocking_tasks", 0)
	v.SetDefault("workerpool.nonblocking", true)
	v.SetDefault("workerpool.expiry_duration", time.Minute)
}
