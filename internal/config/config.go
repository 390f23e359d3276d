// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// DefaultPageSize is the number of students per listing page when
	// the client sends no (or an invalid) limit.
	DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" env-default:"10"`

	// AllowedOrigins lists the origins permitted by the CORS
	// middleware. Empty means same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:","`

	// HTTPServer is embedded so its fields are accessible directly
	// on Config: cfg.HTTPServer.Addr.
	HTTPServer `yaml:"http_server"`

	// SeedAdmin is the operator created at first startup if the users
	// table is empty of that email. The password is hashed before it
	// ever touches the store.
	SeedAdmin SeedAdmin `yaml:"seed_admin"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// SeedAdmin is the bootstrap operator identity. Defaults mirror the
// historical deployment so a fresh checkout is immediately usable;
// override them in any real environment.
type SeedAdmin struct {
	Name     string `yaml:"name" env:"SEED_ADMIN_NAME" env-default:"Omar"`
	Email    string `yaml:"email" env:"SEED_ADMIN_EMAIL" env-default:"omar@esisa.ac"`
	Password string `yaml:"password" env:"SEED_ADMIN_PASSWORD" env-default:"123456@"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	var configPath string

	// Source 1: environment variable. Standard way to pass config to a
	// container under Docker / Kubernetes.
	configPath = os.Getenv("CONFIG_PATH")

	// Source 2: command-line flag, for local runs:
	//   go run ./cmd/student-records-api --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// and validates env-required:"true" constraints.
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
