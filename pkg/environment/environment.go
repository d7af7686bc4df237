package environment

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds all configuration the process reads from its .env file
type Environment struct {
	Environment   string `mapstructure:"APP_ENV"`
	Cors          string `mapstructure:"CORS"`
	Secret        string `mapstructure:"SECRET"`
	Port          string `mapstructure:"PORT"`
	Database      string `mapstructure:"DATABASE"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	Redis         string `mapstructure:"REDIS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
}

// Global is the active configuration, populated by Initialize
var Global Environment

// Initialize reads the .env file into Global. Process environment variables
// override the file, so a missing .env is fine in containerized deployments.
func Initialize() error {
	data, err := godotenv.Read(".env")
	if err != nil {
		data = map[string]string{}
	}

	for _, pair := range os.Environ() {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			data[parts[0]] = parts[1]
		}
	}

	return mapstructure.Decode(data, &Global)
}
