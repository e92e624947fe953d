package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required"`
	Mode string `mapstructure:"mode" validate:"oneof=development production"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Collection     string        `mapstructure:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Enabled        bool          `mapstructure:"enabled"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Enabled  bool          `mapstructure:"enabled"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	APIKey    string        `mapstructure:"api_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Enabled   bool          `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CatalogConfig describes where meal records come from and how festival
// occasions map onto dish names.
type CatalogConfig struct {
	DataDir        string              `mapstructure:"data_dir"`
	CSVFile        string              `mapstructure:"csv_file"`
	FestivalDishes map[string][]string `mapstructure:"festival_dishes"`
}

// EngineConfig holds the tunables of the recommendation engine.
type EngineConfig struct {
	// Records with a numeric id at or above this threshold count as newly
	// added catalog entries for the recency boost and the result mixing
	// policy.
	RecencyThreshold int `mapstructure:"recency_threshold" validate:"min=1"`
	// Every stored recipe is written for this many servings.
	ReferenceServings int `mapstructure:"reference_servings" validate:"min=1"`
	DefaultCount      int `mapstructure:"default_count" validate:"min=1"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "5100")
	viper.SetDefault("server.mode", "development")

	// Mongo defaults
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "culinaryai")
	viper.SetDefault("mongo.collection", "dishes")
	viper.SetDefault("mongo.connect_timeout", "10s")
	viper.SetDefault("mongo.enabled", false)

	// Redis defaults
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")
	viper.SetDefault("redis.cache_ttl", "15m")
	viper.SetDefault("redis.enabled", false)

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")
	viper.SetDefault("auth.enabled", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Catalog defaults
	viper.SetDefault("catalog.data_dir", "./data")
	viper.SetDefault("catalog.csv_file", "meals.csv")
	viper.SetDefault("catalog.festival_dishes", map[string][]string{
		"diwali":    {"Laddoo", "Gulab Jamun", "Kheer", "Samosa"},
		"holi":      {"Gujiya", "Thandai", "Dahi Bhalla"},
		"navratri":  {"Sabudana Khichdi", "Kuttu Puri", "Aloo Sabzi"},
		"eid":       {"Biryani", "Sheer Khurma", "Kebab"},
		"christmas": {"Plum Cake", "Roast Vegetables"},
		"pongal":    {"Ven Pongal", "Sakkarai Pongal"},
		"onam":      {"Avial", "Payasam", "Sambar"},
	})

	// Engine defaults
	viper.SetDefault("engine.recency_threshold", 98)
	viper.SetDefault("engine.reference_servings", 4)
	viper.SetDefault("engine.default_count", 5)

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
