package myconn

import "context"

// Connector establishes and owns the process's database connection.
// Implementations hold the connection state (driver generation, handle,
// readiness flags) and mutate it only through Connect.
type Connector interface {
	// Connect performs one connection attempt, with at most one
	// driver-generation downgrade when the modern generation has never
	// connected successfully. It returns true when a live transport
	// connection was established; Ready reports whether session setup
	// (charset negotiation, sql_mode marking, schema selection) also
	// succeeded.
	//
	// With allowBail true, a terminal failure is additionally reported
	// through the configured FailureReporter, exactly once. With
	// allowBail false the reporter is never invoked, supporting
	// probing/health-check use.
	Connect(ctx context.Context, allowBail bool) bool

	// Ready reports whether the connection completed session setup.
	Ready() bool

	// HasConnected reports whether any connect attempt ever produced a
	// live handle. Once true it never resets; it gates whether the
	// legacy fallback is still permitted.
	HasConnected() bool

	// Generation returns the driver generation currently in use.
	Generation() DriverGeneration

	// LastError returns the error behind the most recent failed Connect,
	// or nil after a successful attempt.
	LastError() error

	// Close releases the handle. HasConnected is unaffected.
	Close() error
}

// Handle is a live database connection produced by a Driver and owned
// exclusively by the Connector. It is replaced wholesale on each attempt.
type Handle interface {
	// Exec runs a statement that produces no result set.
	Exec(ctx context.Context, stmt string) error

	// QueryValue runs a query expected to yield a single scalar value.
	QueryValue(ctx context.Context, query string) (string, error)

	Close() error
}

// Driver is one client-library generation capable of opening handles.
type Driver interface {
	// Generation identifies the API surface this driver speaks.
	Generation() DriverGeneration

	// SupportsTLS reports whether this generation can encrypt transport.
	// The legacy generation has no TLS capability by construction.
	SupportsTLS() bool

	// BracketsIPv6Literals reports whether the underlying resolver
	// requires IPv6 literals wrapped in brackets. This depends on which
	// resolver implementation the driver links, so it is a capability
	// query rather than a hard-coded assumption.
	BracketsIPv6Literals() bool

	// Connect dials the target and returns a live handle. target may be
	// nil when the raw host specification carried no structured data, in
	// which case cfg.Host is used as-is. tlsProfile is the registered
	// TLS configuration to dial with, or empty for unencrypted transport.
	// The transport attempt is single-shot: no retries happen below this
	// call.
	Connect(ctx context.Context, cfg *ConnectionConfig, target *HostTarget, tlsProfile string) (Handle, error)
}

// FailureReporter receives the single terminal-failure notification when a
// bail-enabled connect attempt exhausts every driver generation. The host
// application supplies the rendering and termination behavior; the CLI's
// reporter terminates the process.
type FailureReporter interface {
	ReportFatal(err error)
}
