package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myconn-db/myconn/internal/db"
	"github.com/myconn-db/myconn/internal/logging"
	"github.com/myconn-db/myconn/pkg/myconn"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Establish a connection and report the result",
	Long: `Connect establishes a database connection exactly the way a hosted
application would at startup: TLS material is applied when complete,
the modern driver generation is tried first, and a one-time fallback to
the legacy generation covers servers the modern driver cannot reach.

A terminal connection failure aborts the process with exit code 11,
mirroring an application that cannot start without its database.

Password Authentication:
  For security, the password is NOT accepted as a CLI flag. Use one of:
    1. $MYSQL_PWD environment variable
    2. The interactive prompt (when stdin is a terminal)

Examples:
  # Connect with explicit endpoint
  myconn connect -h db.internal -P 3307 -u app -d appdb

  # Connect over a Unix socket
  myconn connect -S /var/run/mysqld/mysqld.sock -u app -d appdb

  # Connect with client TLS material
  myconn connect -h db.internal -u app -d appdb \
    --ssl-ca ca.crt --ssl-cert client.crt --ssl-key client.key

  # Force the modern generation only
  myconn connect -h db.internal -u app -d appdb --no-legacy-fallback`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

var (
	connectConnFlags     db.ConnFlags
	connectTLSFlags      tlsFlags
	connectBehaviorFlags behaviorFlags
)

func init() {
	rootCmd.AddCommand(connectCmd)
	addConnectionFlags(&connectConnFlags, &connectTLSFlags, &connectBehaviorFlags, connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	cfg, err := buildConnectionConfig(&connectConnFlags, &connectTLSFlags, &connectBehaviorFlags, verbose)
	if err != nil {
		return err
	}

	connector, err := db.NewConnector(cfg, db.Dependencies{
		Modern:   db.NewModernDriver(),
		Legacy:   db.NewLegacyDriver(),
		Logger:   logger,
		Reporter: &fatalReporter{},
	})
	if err != nil {
		return err
	}
	defer connector.Close() //nolint:errcheck

	// allowBail: a terminal failure exits through the reporter.
	connector.Connect(context.Background(), true)

	if !connector.Ready() {
		return fmt.Errorf("connected but session setup failed: schema %q not usable: %w",
			cfg.Database, myconn.ErrConnectionFailed)
	}

	handle, err := connector.Handle()
	if err != nil {
		return err
	}
	version, err := handle.QueryValue(context.Background(), "SELECT VERSION()")
	if err != nil {
		return fmt.Errorf("query server version: %w", err)
	}

	fmt.Printf("Connected to %s (server %s, %s driver)\n",
		cfg.Host, version, connector.Generation())
	return nil
}

// fatalReporter renders a terminal connection failure and exits. This is
// the CLI analogue of an application bailing out at startup.
type fatalReporter struct{}

func (r *fatalReporter) ReportFatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(myconn.ExitConnectionError)
}

var _ myconn.FailureReporter = (*fatalReporter)(nil)
