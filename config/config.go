package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StageDev  = "dev"
	StageProd = "prod"

	defaultPort     = 8000
	defaultRelayURL = "ws://localhost:8000/relay"
	defaultCodec    = "json"

	// migrate splits the source URL on its scheme, so this reads as db/migration
	defaultMigrationDir = "file://db/migration"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("wsurl", validateWsURL)
}

// Only websocket schemes make sense for the relay address.
func validateWsURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (u.Scheme == "ws" || u.Scheme == "wss") && u.Host != ""
}

// Config is shared by the relay and the terminal client. Each reads
// the fields it needs; flags may override them before Validate.
type Config struct {
	Stage        string `validate:"required,oneof=dev prod"`
	Port         int    `validate:"min=1,max=65535"`
	DatabaseURL  string `validate:"omitempty,url"`
	MigrationDir string `validate:"required"`
	RelayURL     string `validate:"required,wsurl"`
	Codec        string `validate:"required,oneof=json msgpack"`
	PlayerName   string `validate:"max=32"`
}

// Load reads the environment. Outside prod a .env file is loaded
// first when there is one.
func Load(envFile string) (*Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil {
			log.Println("No .env file found, relying on environment variables")
		}
	}

	cfg := &Config{
		Stage:        getEnv("STAGE", StageDev),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MigrationDir: getEnv("MIGRATION_DIR", defaultMigrationDir),
		RelayURL:     getEnv("RELAY_URL", defaultRelayURL),
		Codec:        getEnv("CODEC", defaultCodec),
		PlayerName:   os.Getenv("PLAYER_NAME"),
	}

	port, err := strconv.Atoi(getEnv("PORT", strconv.Itoa(defaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	return cfg, nil
}

func (c *Config) Validate() error {
	return validate.Struct(c)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
