package db

import (
	"testing"

	"github.com/myconn-db/myconn/internal/config"
)

func TestResolveConnectionParams_FlagsWinOverEverything(t *testing.T) {
	flags := &ConnFlags{
		Host:     "flag-host",
		Port:     4000,
		Username: "flag-user",
		Database: "flag-db",
	}
	envVars := &EnvVars{
		MYSQL_HOST:     "env-host",
		MYSQL_TCP_PORT: "5000",
		MYSQL_DATABASE: "env-db",
	}
	projectConfig := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:     "yaml-host",
			Port:     6000,
			Username: "yaml-user",
			Database: "yaml-db",
		},
	}

	cfg, err := ResolveConnectionParams(flags, envVars, projectConfig)
	if err != nil {
		t.Fatalf("ResolveConnectionParams: %v", err)
	}
	if cfg.Host != "flag-host:4000" {
		t.Errorf("Host = %q, want %q", cfg.Host, "flag-host:4000")
	}
	if cfg.Username != "flag-user" {
		t.Errorf("Username = %q, want %q", cfg.Username, "flag-user")
	}
	if cfg.Database != "flag-db" {
		t.Errorf("Database = %q, want %q", cfg.Database, "flag-db")
	}
}

func TestResolveConnectionParams_EnvWinsOverYAML(t *testing.T) {
	envVars := &EnvVars{
		MYSQL_HOST:     "env-host",
		MYSQL_TCP_PORT: "5000",
		MYSQL_PWD:      "env-pass",
		MYSQL_DATABASE: "env-db",
	}
	projectConfig := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:     "yaml-host",
			Port:     6000,
			Database: "yaml-db",
			Username: "yaml-user",
		},
	}

	cfg, err := ResolveConnectionParams(nil, envVars, projectConfig)
	if err != nil {
		t.Fatalf("ResolveConnectionParams: %v", err)
	}
	if cfg.Host != "env-host:5000" {
		t.Errorf("Host = %q, want %q", cfg.Host, "env-host:5000")
	}
	if cfg.Password != "env-pass" {
		t.Errorf("Password = %q, want %q", cfg.Password, "env-pass")
	}
	if cfg.Database != "env-db" {
		t.Errorf("Database = %q, want %q", cfg.Database, "env-db")
	}
	if cfg.Username != "yaml-user" {
		t.Errorf("Username = %q, want yaml value %q", cfg.Username, "yaml-user")
	}
}

func TestResolveConnectionParams_YAMLFallback(t *testing.T) {
	projectConfig := &config.ProjectConfig{
		Connection: config.ConnectionConfig{
			Host:     "yaml-host",
			Username: "yaml-user",
			Database: "yaml-db",
			SSLCA:    "/certs/ca.crt",
			SSLCert:  "/certs/client.crt",
			SSLKey:   "/certs/client.key",
		},
	}

	cfg, err := ResolveConnectionParams(nil, nil, projectConfig)
	if err != nil {
		t.Fatalf("ResolveConnectionParams: %v", err)
	}
	if cfg.Host != "yaml-host" {
		t.Errorf("Host = %q, want %q without a resolved port", cfg.Host, "yaml-host")
	}
	if !cfg.TLS.Complete() {
		t.Errorf("TLS material %+v should be complete", cfg.TLS)
	}
	if cfg.DisableLegacyFallback {
		t.Error("legacy fallback should stay enabled when unset")
	}
}

func TestResolveConnectionParams_Defaults(t *testing.T) {
	t.Setenv("USER", "osuser")
	t.Setenv("USERNAME", "")

	cfg, err := ResolveConnectionParams(nil, nil, nil)
	if err != nil {
		t.Fatalf("ResolveConnectionParams: %v", err)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.Username != "osuser" {
		t.Errorf("Username = %q, want OS user", cfg.Username)
	}
	if cfg.Database != "" {
		t.Errorf("Database = %q, want empty", cfg.Database)
	}
}

func TestResolveConnectionParams_InvalidEnvPort(t *testing.T) {
	envVars := &EnvVars{MYSQL_TCP_PORT: "not-a-port"}

	if _, err := ResolveConnectionParams(nil, envVars, nil); err == nil {
		t.Fatal("expected error for non-numeric $MYSQL_TCP_PORT")
	}
}

func TestResolveConnectionParams_SocketWinsOverPort(t *testing.T) {
	flags := &ConnFlags{
		Host:   "localhost",
		Port:   3306,
		Socket: "/var/run/mysqld/mysqld.sock",
	}

	cfg, err := ResolveConnectionParams(flags, nil, nil)
	if err != nil {
		t.Fatalf("ResolveConnectionParams: %v", err)
	}
	if want := "localhost:/var/run/mysqld/mysqld.sock"; cfg.Host != want {
		t.Errorf("Host = %q, want %q", cfg.Host, want)
	}
}

func TestResolveConnectionParams_LegacyFallbackFromYAML(t *testing.T) {
	disabled := false
	projectConfig := &config.ProjectConfig{
		Connection: config.ConnectionConfig{LegacyFallback: &disabled},
	}

	cfg, err := ResolveConnectionParams(nil, nil, projectConfig)
	if err != nil {
		t.Fatalf("ResolveConnectionParams: %v", err)
	}
	if !cfg.DisableLegacyFallback {
		t.Error("legacy_fallback: false should disable the downgrade")
	}
}

func TestComposeHostSpec(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		port   int
		socket string
		want   string
	}{
		{"host only", "dbhost", 0, "", "dbhost"},
		{"host and port", "dbhost", 3307, "", "dbhost:3307"},
		{"socket wins over port", "localhost", 3306, "/tmp/mysql.sock", "localhost:/tmp/mysql.sock"},
		{"ipv6 with port gets brackets", "2001:db8::1", 3307, "", "[2001:db8::1]:3307"},
		{"already bracketed ipv6", "[2001:db8::1]", 3307, "", "[2001:db8::1]:3307"},
		{"ipv6 without port stays bare", "2001:db8::1", 0, "", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composeHostSpec(tt.host, tt.port, tt.socket); got != tt.want {
				t.Errorf("composeHostSpec(%q, %d, %q) = %q, want %q",
					tt.host, tt.port, tt.socket, got, tt.want)
			}
		})
	}
}

func TestConnFlagsIsEmpty(t *testing.T) {
	if !(&ConnFlags{}).IsEmpty() {
		t.Error("zero flags should be empty")
	}
	if !(&ConnFlags{Database: "appdb"}).IsEmpty() {
		t.Error("a lone database flag does not make flags non-empty")
	}
	if (&ConnFlags{Host: "h"}).IsEmpty() {
		t.Error("host flag should make flags non-empty")
	}
	if (&ConnFlags{Port: 3306}).IsEmpty() {
		t.Error("port flag should make flags non-empty")
	}
}
