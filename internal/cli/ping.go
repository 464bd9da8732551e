package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myconn-db/myconn/internal/db"
	"github.com/myconn-db/myconn/internal/logging"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Probe connectivity without aborting on failure",
	Long: `Ping performs a single connection attempt in probe mode: a failure is
reported through the exit code instead of aborting mid-attempt, so the
command is safe for health checks and scripts.

Examples:
  # Probe the default endpoint
  myconn ping -u app -d appdb

  # Probe a remote server in a health check
  myconn ping -h db.internal -P 3307 -u app -d appdb && echo up`,
	Args: cobra.NoArgs,
	RunE: runPing,
}

var (
	pingConnFlags     db.ConnFlags
	pingTLSFlags      tlsFlags
	pingBehaviorFlags behaviorFlags
)

func init() {
	rootCmd.AddCommand(pingCmd)
	addConnectionFlags(&pingConnFlags, &pingTLSFlags, &pingBehaviorFlags, pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	cfg, err := buildConnectionConfig(&pingConnFlags, &pingTLSFlags, &pingBehaviorFlags, verbose)
	if err != nil {
		return err
	}

	connector, err := db.NewConnector(cfg, db.Dependencies{
		Modern: db.NewModernDriver(),
		Legacy: db.NewLegacyDriver(),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer connector.Close() //nolint:errcheck

	// No bail: the failure surfaces as an error return, not an abort.
	if !connector.Connect(context.Background(), false) {
		return connector.LastError()
	}

	if connector.Ready() {
		fmt.Printf("%s is alive (%s driver)\n", cfg.Host, connector.Generation())
	} else {
		fmt.Printf("%s is alive, but schema %q is not usable\n", cfg.Host, cfg.Database)
	}
	return nil
}
