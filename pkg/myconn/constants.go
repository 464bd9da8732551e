package myconn

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Connection established (or probe succeeded)
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
)

const (
	// DefaultTLSProfile is the name under which the TLS provisioner
	// registers its process-wide default TLS configuration with the
	// modern driver, unless the host application supplies its own.
	DefaultTLSProfile = "myconn"

	// DefaultCharset is the character set negotiated when the host
	// application does not configure one.
	DefaultCharset = "utf8mb4"

	// DefaultCollation pairs with DefaultCharset for SET NAMES.
	DefaultCollation = "utf8mb4_unicode_ci"
)
