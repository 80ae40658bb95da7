package config

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const messageKeySize = 32

type Config struct {
	DatabaseDSN    string
	ServerAddr     string
	SigningKey     []byte
	MessageKey     []byte
	AllowedOrigins []string
	MigrateOnStart bool
}

// FileConfig is the on-disk YAML representation. Keys are base64 encoded.
type FileConfig struct {
	Addr           string   `yaml:"addr"`
	DSN            string   `yaml:"dsn"`
	SigningKey     string   `yaml:"signing_key"`
	MessageKey     string   `yaml:"message_key"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MigrateOnStart *bool    `yaml:"migrate_on_start"`
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	if base64Secret == "" {
		return nil, fmt.Errorf("empty secret")
	}
	return base64.StdEncoding.DecodeString(base64Secret)
}

func decodeMessageKey(base64Key string) ([]byte, error) {
	key, err := decodeSigningSecret(base64Key)
	if err != nil {
		return nil, err
	}
	if len(key) != messageKeySize {
		return nil, fmt.Errorf("message key must be %d bytes, got %d", messageKeySize, len(key))
	}

	return key, nil
}

// LoadFile reads a YAML config file. A missing path yields an empty FileConfig.
func LoadFile(path string) (*FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return &fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &fc, nil
}

func NewConfig(serverAddr, databaseDSN, base64Secret, base64MessageKey string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	if base64MessageKey == "" {
		return nil, fmt.Errorf("message key cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	messageKey, err := decodeMessageKey(base64MessageKey)
	if err != nil {
		return nil, fmt.Errorf("decode message key: %w", err)
	}

	return &Config{
		DatabaseDSN:    databaseDSN,
		ServerAddr:     serverAddr,
		SigningKey:     signingKey,
		MessageKey:     messageKey,
		AllowedOrigins: allowedOrigins,
		MigrateOnStart: true,
	}, nil
}
