package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// CatalogConfig tunes the admin editor's write coalescing and the
// best-effort Redis mirror of category product lists.
type CatalogConfig struct {
	DebounceWindow time.Duration // inactivity before a debounced overwrite is persisted
	NotifyThrottle time.Duration // minimum gap between admin notifications
	MirrorTTL      time.Duration // Redis mirror entry lifetime
	MirrorMaxBytes int           // mirror entries above this size are skipped
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("CATALOG_DEBOUNCE_MS", 400)
	viper.SetDefault("CATALOG_NOTIFY_THROTTLE_MS", 3000)
	viper.SetDefault("CATALOG_MIRROR_TTL_SECONDS", 300)
	viper.SetDefault("CATALOG_MIRROR_MAX_BYTES", 512*1024)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Catalog: CatalogConfig{
			DebounceWindow: time.Duration(viper.GetInt("CATALOG_DEBOUNCE_MS")) * time.Millisecond,
			NotifyThrottle: time.Duration(viper.GetInt("CATALOG_NOTIFY_THROTTLE_MS")) * time.Millisecond,
			MirrorTTL:      time.Duration(viper.GetInt("CATALOG_MIRROR_TTL_SECONDS")) * time.Second,
			MirrorMaxBytes: viper.GetInt("CATALOG_MIRROR_MAX_BYTES"),
		},
	}
}
