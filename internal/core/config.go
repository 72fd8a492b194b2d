package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

const (
	EnvAuthUsername = "BASIC_AUTH_USERNAME"
	EnvAuthPassword = "BASIC_AUTH_PASSWORD"

	defaultPort          = 8080
	defaultStoreType     = "sqlite"
	defaultInMemory      = ":memory:"
	defaultMaxUploadSize = "32M"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type BlobStore struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
	KeyPrefix        string `yaml:"keyPrefix"`
}

// Auth holds the single shared credential pair guarding the gallery page and uploads.
type Auth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Upload struct {
	// DeleteBlobOnMetadataFailure removes the freshly written blob when the
	// metadata insert fails. Off by default, which leaves the blob orphaned.
	DeleteBlobOnMetadataFailure bool `yaml:"deleteBlobOnMetadataFailure"`
}

type Server struct {
	MaxUploadSize string `yaml:"maxUploadSize"`
}

type ServiceConfig struct {
	Port      int       `yaml:"port"`
	Database  Database  `yaml:"database"`
	BlobStore BlobStore `yaml:"blobStore"`
	Auth      Auth      `yaml:"auth"`
	Upload    Upload    `yaml:"upload"`
	Server    Server    `yaml:"server"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyEnvironment()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// applyEnvironment lets the host environment supply the secrets instead of the file.
func (config *ServiceConfig) applyEnvironment() {
	if username := os.Getenv(EnvAuthUsername); username != "" {
		config.Auth.Username = username
	}
	if password := os.Getenv(EnvAuthPassword); password != "" {
		config.Auth.Password = password
	}
}

func (config *ServiceConfig) applyDefaults() {
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Database.Type == "" {
		config.Database.Type = defaultStoreType
	}
	if config.Database.ConnectionString == "" && config.Database.Type == defaultStoreType {
		config.Database.ConnectionString = defaultInMemory
	}
	if config.BlobStore.Type == "" {
		config.BlobStore.Type = defaultStoreType
	}
	if config.BlobStore.ConnectionString == "" && config.BlobStore.Type == defaultStoreType {
		config.BlobStore.ConnectionString = defaultInMemory
	}
	if config.Server.MaxUploadSize == "" {
		config.Server.MaxUploadSize = defaultMaxUploadSize
	}
}

// Validate reports the first configuration problem found.
func (config *ServiceConfig) Validate() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Auth.Username == "" {
		return fmt.Errorf("auth username is empty (set auth.username or %s)", EnvAuthUsername)
	}
	if config.Auth.Password == "" {
		return fmt.Errorf("auth password is empty (set auth.password or %s)", EnvAuthPassword)
	}
	if config.Database.ConnectionString == "" {
		return errors.New("database connectionString is empty")
	}
	if config.BlobStore.ConnectionString == "" {
		return errors.New("blobStore connectionString is empty")
	}
	if config.Server.MaxUploadSize != "" {
		if _, err := bytes.Parse(config.Server.MaxUploadSize); err != nil {
			return fmt.Errorf("invalid server.maxUploadSize %q: %w", config.Server.MaxUploadSize, err)
		}
	}
	return nil
}
