/*
Package config loads server configuration from YAML plus environment.

PURPOSE:
  One Config struct for the whole binary, read once at startup. YAML file
  path comes from CONFIG_PATH (defaults to ./config/local.yaml); any field
  can be overridden via environment variables.

SEE ALSO:
  - cmd/server/main.go: The only consumer
*/
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"APP_ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./data/commission.db"`
	HTTPServer  `yaml:"http_server"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout        time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

// MustLoad reads the config or exits. Missing config file is fine: env
// vars and defaults cover every field.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	var cfg Config
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config %s: %s", configPath, err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	return &cfg
}
