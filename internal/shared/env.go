package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable that overrides a config key.
const EnvPrefix = "MUSICPREF_"

// LoadEnvFile loads KEY=value pairs from path into the process environment.
//
// Variables that are already set keep their values. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config keys from MUSICPREF_* environment variables.
//
//	MUSICPREF_DATABASE_PATH    database.path
//	MUSICPREF_SERVER_HOST      server.host
//	MUSICPREF_SERVER_PORT      server.port
//	MUSICPREF_SERVER_RATE_LIMIT server.rate_limit
//	MUSICPREF_LOG_LEVEL        logging.level
//	MUSICPREF_LOG_FILE         logging.file
//	MUSICPREF_SEED_ENABLED     seed.enabled
func (c *Config) ApplyEnv() error {
	if v, ok := lookupEnv("DATABASE_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := lookupEnv("SERVER_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := lookupEnv("SERVER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sSERVER_PORT=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookupEnv("SERVER_RATE_LIMIT"); ok {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSERVER_RATE_LIMIT=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Server.RateLimit = limit
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv("LOG_FILE"); ok {
		c.Logging.File = v
	}
	if v, ok := lookupEnv("SEED_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sSEED_ENABLED=%q", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Seed.Enabled = enabled
	}

	return c.Validate()
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}
