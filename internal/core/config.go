package core

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/jo-hoe/imagedepot/internal/backend/database"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 5000
	DefaultDatabaseType = database.TypeSQLite

	EnvConnectionString = "DATABASE_CONNECTION_STRING"
	EnvMongoURI         = "MONGO_URI"
	EnvDatabaseType     = "DATABASE_TYPE"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type ServiceConfig struct {
	Port     int      `yaml:"port"`
	Database Database `yaml:"database"`
}

// LoadConfig loads configuration from the specified YAML file, applies environment
// overrides and validates the result. An empty path skips the file.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	return loadConfig(configPath, os.Getenv)
}

func loadConfig(configPath string, getenv func(string) string) (*ServiceConfig, error) {
	config := ServiceConfig{
		Port:     DefaultPort,
		Database: Database{Type: DefaultDatabaseType},
	}

	if configPath != "" {
		// Read the config file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}

		// Parse YAML
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	applyEnvironment(&config, getenv)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvironment lets the environment override the file. MONGO_URI is honoured
// when no generic connection string is set.
func applyEnvironment(config *ServiceConfig, getenv func(string) string) {
	if databaseType := strings.TrimSpace(getenv(EnvDatabaseType)); databaseType != "" {
		config.Database.Type = databaseType
	}

	if connectionString := getenv(EnvConnectionString); connectionString != "" {
		config.Database.ConnectionString = connectionString
	} else if mongoURI := getenv(EnvMongoURI); mongoURI != "" && config.Database.ConnectionString == "" {
		config.Database.ConnectionString = mongoURI
		if getenv(EnvDatabaseType) == "" {
			config.Database.Type = database.TypeMongoDB
		}
	}
}

func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Database.Type == "" {
		config.Database.Type = DefaultDatabaseType
	}
	if !slices.Contains(database.SupportedTypes, config.Database.Type) {
		return fmt.Errorf("unsupported database type %q, expected one of %v", config.Database.Type, database.SupportedTypes)
	}
	if config.Database.ConnectionString == "" {
		return fmt.Errorf("database connection string is required (set %s)", EnvConnectionString)
	}
	return nil
}
