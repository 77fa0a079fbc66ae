package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	Port                string        `mapstructure:"PORT"`
	GinMode             string        `mapstructure:"GIN_MODE"`
	CatalogPath         string        `mapstructure:"CATALOG_PATH"`
	TokenRefillInterval time.Duration `mapstructure:"TOKEN_REFILL_INTERVAL"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	cfg, err := decode(v)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
	AppConfig = cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("TOKEN_REFILL_INTERVAL", "24h")
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.TokenRefillInterval <= 0 {
		cfg.TokenRefillInterval = 24 * time.Hour
	}
	return &cfg, nil
}
