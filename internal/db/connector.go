package db

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/myconn-db/myconn/pkg/myconn"
)

// incompatibleSQLModes are session sql_mode flags stripped after
// connecting because they reject statements the host application's
// legacy-compatible SQL relies on (zero dates, implicit grouping).
var incompatibleSQLModes = []string{
	"NO_ZERO_DATE",
	"NO_ZERO_IN_DATE",
	"ONLY_FULL_GROUP_BY",
	"STRICT_TRANS_TABLES",
	"STRICT_ALL_TABLES",
	"TRADITIONAL",
	"ANSI",
}

// Dependencies is the capability set a Connector needs. Composition over
// inheritance: the connector wraps exactly what it uses instead of
// subclassing a monolithic adapter.
type Dependencies struct {
	// Modern is the TLS-capable driver generation. Required.
	Modern myconn.Driver

	// Legacy is the fallback driver generation. Nil means no legacy
	// driver is available in the runtime, which disables fallback.
	Legacy myconn.Driver

	// Logger receives diagnostic output. Nil defaults to a silent logger.
	Logger myconn.Logger

	// Reporter receives the single terminal-failure notification for
	// bail-enabled attempts. Nil disables reporting.
	Reporter myconn.FailureReporter
}

// Connector owns the process's single database handle and drives the
// Disconnected → Connecting → Connected → Ready lifecycle, with a one-time
// side transition into the legacy driver generation.
//
// The connector is exposed as a library, so all state mutation is
// serialized behind a mutex.
type Connector struct {
	cfg         *myconn.ConnectionConfig
	modern      myconn.Driver
	legacy      myconn.Driver
	logger      myconn.Logger
	reporter    myconn.FailureReporter
	provisioner *Provisioner

	mu           sync.Mutex
	generation   myconn.DriverGeneration
	handle       myconn.Handle
	hasConnected bool
	ready        bool
	lastErr      error

	// Negotiated once per connector lifetime, applied on every connection.
	charset   string
	collation string
}

// NewConnector validates cfg and assembles a Connector. The returned
// connector starts Disconnected with the modern driver generation selected.
func NewConnector(cfg *myconn.ConnectionConfig, deps Dependencies) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Modern == nil {
		return nil, fmt.Errorf("modern driver is required: %w", myconn.ErrInvalidConfig)
	}

	logger := deps.Logger
	if logger == nil {
		logger = silentLogger{}
	}

	return &Connector{
		cfg:         cfg,
		modern:      deps.Modern,
		legacy:      deps.Legacy,
		logger:      logger,
		reporter:    deps.Reporter,
		provisioner: NewProvisioner(logger, cfg.Visibility),
		generation:  myconn.GenerationModern,
	}, nil
}

// Connect performs one connection attempt. See myconn.Connector for the
// full contract.
func (c *Connector) Connect(ctx context.Context, allowBail bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.connectLocked(ctx)
	c.lastErr = err
	if err == nil {
		return true
	}

	c.logger.Verbose("connect failed: %v", err)
	if allowBail && c.reporter != nil {
		c.reporter.ReportFatal(err)
	}
	return false
}

// connectLocked resolves the host target, provisions TLS, and issues a
// single transport attempt per eligible driver generation. It returns nil
// once a live handle exists, even if session setup left the connection
// short of Ready.
func (c *Connector) connectLocked(ctx context.Context) error {
	c.ready = false
	c.discardHandleLocked()

	target, _ := ParseHostSpec(c.cfg.Host)

	driver := c.modern
	if c.generation == myconn.GenerationLegacy {
		driver = c.legacy
	}

	err := c.attemptLocked(ctx, driver, target)
	if err != nil && c.generation == myconn.GenerationModern && c.fallbackEligibleLocked() {
		c.logger.Info("modern driver could not connect, retrying with legacy driver: %v", err)
		c.generation = myconn.GenerationLegacy
		c.discardHandleLocked()

		legacyErr := c.attemptLocked(ctx, c.legacy, target)
		if legacyErr != nil {
			return fmt.Errorf("%w: modern: %v; legacy: %v",
				myconn.ErrNoDriverAvailable, err, legacyErr)
		}
		err = nil
	}
	if err != nil {
		return wrapConnectionError(err, c.cfg.Host, c.cfg.Database)
	}

	c.hasConnected = true

	if c.charset == "" {
		// One-time character-set negotiation, kept for the lifetime of
		// this connection state.
		c.charset, c.collation = negotiateCharset(c.cfg)
	}

	if err := c.sessionSetupLocked(ctx); err != nil {
		// Connected but not Ready; the host application observes this
		// through Ready() staying false.
		c.logger.Error("session setup failed, connection is not ready: %v", err)
		return nil
	}

	c.ready = true
	return nil
}

// attemptLocked provisions TLS for TLS-capable drivers and issues exactly
// one transport connect. TLS configuration happens strictly before the
// dial; the driver resolves the profile at connect time.
func (c *Connector) attemptLocked(ctx context.Context, driver myconn.Driver, target *myconn.HostTarget) error {
	var profile string
	if driver.SupportsTLS() {
		profile = c.provisioner.Configure(c.cfg)
	}

	handle, err := driver.Connect(ctx, c.cfg, target, profile)
	if err != nil {
		return err
	}
	c.handle = handle
	return nil
}

// fallbackEligibleLocked gates the one-time downgrade to the legacy driver
// generation. Fallback is a startup-time accommodation only: once any
// connection has ever succeeded, a later failure is terminal.
func (c *Connector) fallbackEligibleLocked() bool {
	return !c.hasConnected && !c.cfg.DisableLegacyFallback && c.legacy != nil
}

// sessionSetupLocked applies per-connection character-set negotiation,
// marks sql_mode, and selects the configured schema. All three must
// succeed for the Ready transition.
func (c *Connector) sessionSetupLocked(ctx context.Context) error {
	stmt := fmt.Sprintf("SET NAMES %s", c.charset)
	if c.collation != "" {
		stmt += " COLLATE " + c.collation
	}
	if err := c.handle.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("charset negotiation: %w", err)
	}

	if err := c.markSQLModeLocked(ctx); err != nil {
		return fmt.Errorf("sql_mode marking: %w", err)
	}

	if err := c.handle.Exec(ctx, "USE "+quoteIdentifier(c.cfg.Database)); err != nil {
		return fmt.Errorf("schema selection %q: %w", c.cfg.Database, err)
	}

	return nil
}

// markSQLModeLocked strips incompatible flags from the session sql_mode.
// A mode list without offending flags is left untouched.
func (c *Connector) markSQLModeLocked(ctx context.Context) error {
	modes, err := c.handle.QueryValue(ctx, "SELECT @@SESSION.sql_mode")
	if err != nil {
		return err
	}
	if modes == "" {
		return nil
	}

	var kept []string
	changed := false
	for _, mode := range strings.Split(modes, ",") {
		mode = strings.TrimSpace(mode)
		if mode == "" {
			continue
		}
		if isIncompatibleSQLMode(mode) {
			changed = true
			continue
		}
		kept = append(kept, mode)
	}
	if !changed {
		return nil
	}

	return c.handle.Exec(ctx, fmt.Sprintf("SET SESSION sql_mode='%s'", strings.Join(kept, ",")))
}

func isIncompatibleSQLMode(mode string) bool {
	upper := strings.ToUpper(mode)
	for _, incompatible := range incompatibleSQLModes {
		if upper == incompatible {
			return true
		}
	}
	return false
}

// Ready reports whether the connection completed session setup.
func (c *Connector) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// HasConnected reports whether any attempt ever produced a live handle.
// Monotonic: once true, never reset.
func (c *Connector) HasConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasConnected
}

// Generation returns the driver generation currently selected.
func (c *Connector) Generation() myconn.DriverGeneration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// LastError returns the error behind the most recent failed Connect.
func (c *Connector) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Handle exposes the live handle, or ErrNotConnected without one.
func (c *Connector) Handle() (myconn.Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == nil {
		return nil, myconn.ErrNotConnected
	}
	return c.handle, nil
}

// Close releases the handle. HasConnected is unaffected; a closed
// connector that reconnects is past its fallback window.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = false
	if c.handle == nil {
		return nil
	}
	err := c.handle.Close()
	c.handle = nil
	return err
}

// discardHandleLocked closes and drops the previous handle, if any, before
// a new one is assigned. The handle is owned exclusively by the connector.
func (c *Connector) discardHandleLocked() {
	if c.handle == nil {
		return
	}
	if err := c.handle.Close(); err != nil {
		c.logger.Verbose("closing previous handle: %v", err)
	}
	c.handle = nil
}

// negotiateCharset picks the charset/collation pair for SET NAMES.
func negotiateCharset(cfg *myconn.ConnectionConfig) (string, string) {
	charset := cfg.Charset
	if charset == "" {
		charset = myconn.DefaultCharset
	}
	collation := cfg.Collation
	if collation == "" && charset == myconn.DefaultCharset {
		collation = myconn.DefaultCollation
	}
	return charset, collation
}

// quoteIdentifier makes a schema name safe for USE.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// wrapConnectionError wraps raw driver connection errors with actionable guidance.
func wrapConnectionError(err error, host, database string) error {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused by %q

Possible causes:
  - the server is not running
  - wrong host or port
  - firewall blocking the connection

Original error: %v: %w`, host, err, myconn.ErrConnectionFailed)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`cannot resolve host %q

Possible causes:
  - hostname is misspelled
  - DNS is not configured or reachable

Original error: %v: %w`, host, err, myconn.ErrConnectionFailed)

	case strings.Contains(errStr, "access denied"):
		return fmt.Errorf(`access denied for database %q

Possible causes:
  - wrong password (check $MYSQL_PWD)
  - wrong username
  - user does not have access to the database

Original error: %v: %w`, database, err, myconn.ErrConnectionFailed)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %q

Possible causes:
  - server is overloaded or unresponsive
  - firewall silently dropping packets
  - wrong host/port (server not listening)

Original error: %v: %w`, host, err, myconn.ErrConnectionFailed)

	case strings.Contains(errStr, "tls") || strings.Contains(errStr, "ssl") || strings.Contains(errStr, "certificate"):
		return fmt.Errorf(`TLS connection error

Possible causes:
  - server requires TLS but the client material is incomplete
  - certificate rejected (check ssl_ca, ssl_cert, ssl_key)

Original error: %v: %w`, err, myconn.ErrConnectionFailed)

	default:
		return fmt.Errorf("failed to connect to database: %v: %w", err, myconn.ErrConnectionFailed)
	}
}

// silentLogger is the default when no Logger is injected.
type silentLogger struct{}

func (silentLogger) Verbose(string, ...interface{}) {}
func (silentLogger) Info(string, ...interface{})    {}
func (silentLogger) Error(string, ...interface{})   {}

// Verify Connector implements the public interface at compile time
var _ myconn.Connector = (*Connector)(nil)
