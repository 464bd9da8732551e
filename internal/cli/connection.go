package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/myconn-db/myconn/internal/config"
	"github.com/myconn-db/myconn/internal/db"
	"github.com/myconn-db/myconn/pkg/myconn"
)

// tlsFlags carries the TLS material and behavior flags shared by the
// connection commands. Values override myconn.yaml when set.
type tlsFlags struct {
	SSLCA        string
	SSLCert      string
	SSLKey       string
	VerifyServer bool
}

// behaviorFlags carries the connection-behavior switches shared by the
// connection commands.
type behaviorFlags struct {
	NoLegacyFallback bool
	DebugErrors      bool
	ConnectTimeout   time.Duration
}

func addConnectionFlags(flags *db.ConnFlags, tls *tlsFlags, behavior *behaviorFlags, cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.Host, "host", "h", "",
		"MySQL server host (default: localhost, or $MYSQL_HOST).\n"+
			"Accepts \"hostname\", \"hostname:port\", \"hostname:/path/to/socket\",\n"+
			"\"[ipv6addr]\" and \"[ipv6addr]:port\".")
	cmd.Flags().IntVarP(&flags.Port, "port", "P", 0,
		"MySQL server TCP port (default: driver default, or $MYSQL_TCP_PORT)")
	cmd.Flags().StringVarP(&flags.Socket, "socket", "S", "",
		"Unix socket path (overrides host/port, or $MYSQL_UNIX_PORT)")
	cmd.Flags().StringVarP(&flags.Username, "user", "u", "",
		"MySQL user (default: current OS user)")
	cmd.Flags().StringVarP(&flags.Database, "database", "d", "",
		"Database schema to select (or $MYSQL_DATABASE)")

	cmd.Flags().StringVar(&tls.SSLCA, "ssl-ca", "", "CA certificate file (PEM)")
	cmd.Flags().StringVar(&tls.SSLCert, "ssl-cert", "", "Client certificate file (PEM)")
	cmd.Flags().StringVar(&tls.SSLKey, "ssl-key", "", "Client private key file (PEM)")
	cmd.Flags().BoolVar(&tls.VerifyServer, "verify-server", false,
		"Verify the server certificate against the CA (default: client identity only)")

	cmd.Flags().BoolVar(&behavior.NoLegacyFallback, "no-legacy-fallback", false,
		"Disable the one-time fallback to the legacy driver generation")
	cmd.Flags().BoolVar(&behavior.DebugErrors, "debug-errors", false,
		"Surface suppressed driver-level failures (TLS setup) as errors")
	cmd.Flags().DurationVar(&behavior.ConnectTimeout, "connect-timeout", 0,
		"Transport dial timeout (default: driver default)")
}

// buildConnectionConfig resolves the full connection configuration from CLI
// flags, environment variables and the project's myconn.yaml, prompting for
// a password when none was supplied and stdin is interactive.
func buildConnectionConfig(flags *db.ConnFlags, tls *tlsFlags, behavior *behaviorFlags, verbose bool) (*myconn.ConnectionConfig, error) {
	// Load .env file if it exists (silent fail if not present)
	_ = godotenv.Load()

	projectConfig, err := config.Load(".")
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("load %s: %w", config.ConfigFileName, err)
	}

	envVars := db.LoadFromEnvironment()

	cfg, err := db.ResolveConnectionParams(flags, envVars, projectConfig)
	if err != nil {
		return nil, err
	}

	// CLI TLS flags override myconn.yaml per-field.
	if tls.SSLCA != "" {
		cfg.TLS.CAPath = tls.SSLCA
	}
	if tls.SSLCert != "" {
		cfg.TLS.CertPath = tls.SSLCert
	}
	if tls.SSLKey != "" {
		cfg.TLS.KeyPath = tls.SSLKey
	}
	if tls.VerifyServer {
		cfg.VerifyServer = true
	}

	if behavior.NoLegacyFallback {
		cfg.DisableLegacyFallback = true
	}
	if behavior.DebugErrors || verbose {
		cfg.Visibility = myconn.VisibilityDebug
	}
	cfg.ConnectTimeout = behavior.ConnectTimeout

	if cfg.Password == "" {
		password, err := promptPassword(cfg.Username)
		if err != nil {
			return nil, err
		}
		cfg.Password = password
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] Connection resolved:\n")
		fmt.Fprintf(os.Stderr, "  Host: %s\n", cfg.Host)
		fmt.Fprintf(os.Stderr, "  User: %s\n", cfg.Username)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.Database)
		fmt.Fprintf(os.Stderr, "  TLS material: %s\n", describeTLS(cfg))
		fmt.Fprintf(os.Stderr, "  Legacy fallback: %v\n", !cfg.DisableLegacyFallback)
	}

	return cfg, nil
}

func describeTLS(cfg *myconn.ConnectionConfig) string {
	switch {
	case cfg.TLS.Complete() && cfg.VerifyServer:
		return "complete (server verification on)"
	case cfg.TLS.Complete():
		return "complete (server verification off)"
	case cfg.TLS.Empty():
		return "none"
	default:
		return "partial (ignored)"
	}
}
