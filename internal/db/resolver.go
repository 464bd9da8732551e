package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/myconn-db/myconn/internal/config"
	"github.com/myconn-db/myconn/pkg/myconn"
)

// ConnFlags represents connection parameters from CLI flags.
// These follow MySQL client flag conventions (-h, -P, -u, -S, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use the $MYSQL_PWD environment variable or the interactive prompt.
type ConnFlags struct {
	Host     string
	Port     int
	Socket   string
	Username string
	Database string
}

// IsEmpty returns true if no connection-related flags were provided.
// The database flag is excluded because it can stand alone against
// environment- or file-provided endpoints.
func (f *ConnFlags) IsEmpty() bool {
	return f.Host == "" && f.Port == 0 && f.Socket == "" && f.Username == ""
}

// EnvVars represents the standard MySQL client environment variables.
// See: https://dev.mysql.com/doc/refman/en/environment-variables.html
type EnvVars struct {
	MYSQL_HOST      string // server host
	MYSQL_TCP_PORT  string // server TCP port
	MYSQL_PWD       string // password (discouraged, prefer the prompt)
	MYSQL_UNIX_PORT string // Unix socket path
	MYSQL_DATABASE  string // default database name (container convention)
}

// LoadFromEnvironment loads the MySQL client environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		MYSQL_HOST:      os.Getenv("MYSQL_HOST"),
		MYSQL_TCP_PORT:  os.Getenv("MYSQL_TCP_PORT"),
		MYSQL_PWD:       os.Getenv("MYSQL_PWD"),
		MYSQL_UNIX_PORT: os.Getenv("MYSQL_UNIX_PORT"),
		MYSQL_DATABASE:  os.Getenv("MYSQL_DATABASE"),
	}
}

// ResolveConnectionParams resolves connection parameters using
// MySQL-client-style precedence:
//
//  1. CLI flags (-h, -P, -S, -u, -d)
//  2. Environment variables (MYSQL_HOST, MYSQL_TCP_PORT, ...)
//  3. myconn.yaml project configuration
//  4. Defaults (localhost, driver default port, current OS user)
//
// The resolved host, port and socket are composed back into the raw host
// specification consumed by the connector's host descriptor parser.
func ResolveConnectionParams(
	flags *ConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*myconn.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg := &myconn.ConnectionConfig{}

	// Host: flag > MYSQL_HOST > myconn.yaml > default
	host := flags.Host
	if host == "" {
		host = envVars.MYSQL_HOST
	}
	if host == "" {
		host = pc.Host
	}
	if host == "" {
		host = "localhost"
	}

	// Port: flag > MYSQL_TCP_PORT > myconn.yaml > driver default (absent)
	port := flags.Port
	if port == 0 && envVars.MYSQL_TCP_PORT != "" {
		p, err := strconv.Atoi(envVars.MYSQL_TCP_PORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $MYSQL_TCP_PORT value '%s': must be an integer", envVars.MYSQL_TCP_PORT)
		}
		port = p
	}
	if port == 0 {
		port = pc.Port
	}

	// Socket: flag > MYSQL_UNIX_PORT > myconn.yaml
	socket := flags.Socket
	if socket == "" {
		socket = envVars.MYSQL_UNIX_PORT
	}
	if socket == "" {
		socket = pc.Socket
	}

	cfg.Host = composeHostSpec(host, port, socket)

	// Username: flag > myconn.yaml > current OS user
	cfg.Username = flags.Username
	if cfg.Username == "" {
		cfg.Username = pc.Username
	}
	if cfg.Username == "" {
		if currentUser := os.Getenv("USER"); currentUser != "" {
			cfg.Username = currentUser
		} else if currentUser := os.Getenv("USERNAME"); currentUser != "" {
			cfg.Username = currentUser
		}
	}

	cfg.Password = envVars.MYSQL_PWD

	// Database: flag > MYSQL_DATABASE > myconn.yaml
	cfg.Database = flags.Database
	if cfg.Database == "" {
		cfg.Database = envVars.MYSQL_DATABASE
	}
	if cfg.Database == "" {
		cfg.Database = pc.Database
	}

	cfg.TLS = myconn.TLSMaterial{
		CAPath:   pc.SSLCA,
		CertPath: pc.SSLCert,
		KeyPath:  pc.SSLKey,
	}
	cfg.VerifyServer = pc.VerifyServer
	cfg.Charset = pc.Charset
	cfg.Collation = pc.Collation

	if pc.LegacyFallback != nil && !*pc.LegacyFallback {
		cfg.DisableLegacyFallback = true
	}

	return cfg, nil
}

// composeHostSpec rebuilds the raw host specification from resolved parts.
// A socket wins over a port; a port is attached only when explicitly
// resolved, so the driver's own default-port behavior stays in effect.
func composeHostSpec(host string, port int, socket string) string {
	if socket != "" {
		return host + ":" + socket
	}
	if port != 0 {
		if strings.Count(host, ":") >= 1 {
			return fmt.Sprintf("[%s]:%d", strings.Trim(host, "[]"), port)
		}
		return fmt.Sprintf("%s:%d", host, port)
	}
	return host
}
