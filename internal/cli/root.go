package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "myconn",
	Short: "MySQL connection establishment tool",
	Long: `myconn establishes MySQL connections the way a drop-in database layer
would: TLS client material is applied when fully configured, partial or
broken material degrades to an unencrypted attempt, and when the modern
driver generation cannot reach the server at all, a one-time fallback to
the legacy generation keeps old deployments connectable.

Connection parameters resolve like the stock mysql client:
CLI flags > environment ($MYSQL_HOST, $MYSQL_TCP_PORT, $MYSQL_PWD,
$MYSQL_UNIX_PORT, $MYSQL_DATABASE) > myconn.yaml > defaults.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// --help is registered without a shorthand so that -h stays free for
	// the host flag, matching mysql client conventions.
	rootCmd.PersistentFlags().Bool("help", false, "Help for myconn")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
