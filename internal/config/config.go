package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// Config contains runtime configuration required by the service.
type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Upload UploadConfig `mapstructure:"upload"`
	Lookup LookupConfig `mapstructure:"lookup"`
	Cache  CacheConfig  `mapstructure:"cache"`
	DB     DBConfig     `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxMemory int64  `mapstructure:"max_memory"`
	MaxBody   int64  `mapstructure:"max_body"`
	// S3Bucket switches uploads from the local directory to S3.
	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Prefix   string `mapstructure:"s3_prefix"`
	S3Region   string `mapstructure:"s3_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
}

type LookupConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Country string        `mapstructure:"country"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects the lookup cache. Without a Redis address the cache is
// in-process.
type CacheConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Prefix        string `mapstructure:"prefix"`
}

// DBConfig points at an optional Postgres gazetteer. Empty URL means the
// built-in reference table is used.
type DBConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{"*"})

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_memory", int64(32<<20))
	v.SetDefault("upload.max_body", int64(64<<20))
	v.SetDefault("upload.s3_bucket", "")
	v.SetDefault("upload.s3_prefix", "")
	v.SetDefault("upload.s3_region", "")
	v.SetDefault("upload.s3_endpoint", "")

	v.SetDefault("lookup.enabled", true)
	v.SetDefault("lookup.base_url", postal.DefaultZippopotamURL)
	v.SetDefault("lookup.country", "de")
	v.SetDefault("lookup.timeout", 5*time.Second)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "intake:")

	v.SetDefault("db.url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration from defaults, an optional config.yaml (./ or
// ./configs), a .env file and the environment. Environment variables use
// upper case keys with "_" for ".", e.g. LOOKUP_TIMEOUT=2s or DB_URL.
func Load() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Upload.Dir = strings.TrimSpace(cfg.Upload.Dir)
	cfg.Lookup.Country = strings.ToLower(strings.TrimSpace(cfg.Lookup.Country))
	cfg.DB.URL = strings.TrimSpace(cfg.DB.URL)

	origins := cfg.HTTP.CORSOrigins[:0]
	for _, o := range cfg.HTTP.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.HTTP.CORSOrigins = origins
}

// Validate rejects values the service cannot start with.
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Upload.Dir == "" && c.Upload.S3Bucket == "" {
		return errors.New("upload.dir is required")
	}
	if c.Upload.MaxMemory <= 0 {
		return errors.New("upload.max_memory must be positive")
	}
	if c.Upload.MaxBody <= 0 {
		return errors.New("upload.max_body must be positive")
	}
	if c.Lookup.Enabled {
		if c.Lookup.BaseURL == "" {
			return errors.New("lookup.base_url is required when lookup is enabled")
		}
		if c.Lookup.Timeout <= 0 {
			return errors.New("lookup.timeout must be positive")
		}
		if c.Lookup.Country == "" {
			return errors.New("lookup.country is required when lookup is enabled")
		}
	}
	return nil
}
