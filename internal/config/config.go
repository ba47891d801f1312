package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings read from the environment.
type Config struct {
	AppName         string
	AppPort         string
	DBDriver        string // postgres, sqlite or memory
	DatabaseDSN     string
	DBMaxIdleConns  int
	DBMaxOpenConns  int
	DBConnMaxLife   time.Duration
	DBLogLevel      string
	SeedData        bool
	DefaultPageSize int
	RabbitMQURL     string // empty disables catalog events
	RabbitMQExch    string
}

// Load reads an optional .env file, then the environment, over built-in defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment only")
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// SetDefaults registers every setting's default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Boutique de Thés")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "thes.db")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		AppName:         v.GetString("APP_NAME"),
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		DBMaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		DBMaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		DBConnMaxLife:   v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBLogLevel:      v.GetString("DB_LOG_LEVEL"),
		SeedData:        v.GetBool("SEED_DATA"),
		DefaultPageSize: v.GetInt("DEFAULT_PAGE_SIZE"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQExch:    v.GetString("RABBITMQ_EXCHANGE"),
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 10
	}
	return cfg
}
