package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Socket   string `yaml:"socket,omitempty"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`

	SSLCA   string `yaml:"ssl_ca,omitempty"`
	SSLCert string `yaml:"ssl_cert,omitempty"`
	SSLKey  string `yaml:"ssl_key,omitempty"`

	// VerifyServer enables server certificate verification. Off by
	// default: the usual target is a private TLS-terminating hop.
	VerifyServer bool `yaml:"verify_server,omitempty"`

	// LegacyFallback controls the one-time legacy driver downgrade.
	// Unset means allowed.
	LegacyFallback *bool `yaml:"legacy_fallback,omitempty"`

	Charset   string `yaml:"charset,omitempty"`
	Collation string `yaml:"collation,omitempty"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
}

const ConfigFileName = "myconn.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
