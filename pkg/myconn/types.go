package myconn

import (
	"errors"
	"fmt"
	"time"
)

// ConnectionConfig holds everything needed to establish one connection.
type ConnectionConfig struct {
	// Host is the raw host specification. Supported forms:
	// "hostname", "hostname:port", "hostname:/path/to/socket",
	// "[ipv6addr]" and "[ipv6addr]:port". Unrecognized input is passed
	// to the driver as-is.
	Host string

	Username string
	Password string

	// Database is the schema selected on the handle after connecting.
	Database string

	// TLS is the client certificate material. Encryption is applied only
	// when all three paths are present; partial material is ignored.
	TLS TLSMaterial

	// VerifyServer enables server certificate verification. The default
	// (false) asserts only the client identity, matching deployments
	// where the server is a private TLS-terminating hop.
	VerifyServer bool

	// TLSProfile names a TLS configuration the host application has
	// already registered with the modern driver. When empty, the
	// provisioner registers and uses DefaultTLSProfile.
	TLSProfile string

	// Charset and Collation configure session character-set negotiation.
	// Empty values fall back to DefaultCharset/DefaultCollation.
	Charset   string
	Collation string

	// DisableLegacyFallback turns off the one-time downgrade to the
	// legacy driver generation when the modern generation cannot connect.
	DisableLegacyFallback bool

	// Visibility controls whether suppressed driver-level failures are
	// surfaced loudly (Debug) or quietly (Production).
	Visibility ErrorVisibility

	// ConnectTimeout bounds the transport dial. Zero delegates entirely
	// to the driver's own timeout configuration.
	ConnectTimeout time.Duration
}

// Validate checks if the ConnectionConfig has all required fields and valid
// values. It returns a multi-error if multiple validation failures occur.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if c.Username == "" {
		errs = append(errs, fmt.Errorf("Username is required: %w", ErrInvalidConfig))
	}

	if c.Database == "" {
		errs = append(errs, fmt.Errorf("Database is required: %w", ErrInvalidConfig))
	}

	if c.ConnectTimeout < 0 {
		errs = append(errs, fmt.Errorf("connect timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if !c.Visibility.IsValid() {
		errs = append(errs, fmt.Errorf("invalid error visibility %v: %w", c.Visibility, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// TLSMaterial is the CA certificate, client certificate and client private
// key used for mutual-TLS-capable encrypted transport.
type TLSMaterial struct {
	CAPath   string
	CertPath string
	KeyPath  string
}

// Complete returns true when all three paths are present. Encryption is
// opt-in only when fully configured; anything less is treated as absent.
func (m TLSMaterial) Complete() bool {
	return m.CAPath != "" && m.CertPath != "" && m.KeyPath != ""
}

// Empty returns true when no path is set at all.
func (m TLSMaterial) Empty() bool {
	return m.CAPath == "" && m.CertPath == "" && m.KeyPath == ""
}

// HostTarget is the structured form of a raw host specification.
// Unused fields stay at their zero/nil value so "not specified" is
// distinguishable from "specified as zero".
type HostTarget struct {
	Host string

	// Port is nil when the specification carried no port; the driver's
	// own default-port behavior applies in that case.
	Port *int

	// Socket is the Unix socket path, when one was specified.
	Socket string

	// IPv6 marks Host as an IPv6 literal.
	IPv6 bool
}

// DriverGeneration identifies which of the two client-library API surfaces
// speaks the wire protocol.
type DriverGeneration int

const (
	GenerationModern DriverGeneration = iota
	GenerationLegacy
)

// String returns a human-readable string representation of the DriverGeneration.
func (g DriverGeneration) String() string {
	switch g {
	case GenerationModern:
		return "Modern"
	case GenerationLegacy:
		return "Legacy"
	default:
		return fmt.Sprintf("Unknown(%d)", g)
	}
}

// IsValid returns true if the DriverGeneration is a valid, defined value.
func (g DriverGeneration) IsValid() bool {
	return g == GenerationModern || g == GenerationLegacy
}

// ErrorVisibility determines how driver-level failures that do not abort a
// connection attempt (such as TLS setup errors) are reported.
type ErrorVisibility int

const (
	// VisibilityProduction suppresses driver-level warnings; only the
	// boolean success/failure contract is observable.
	VisibilityProduction ErrorVisibility = iota

	// VisibilityDebug surfaces suppressed failures through the logger's
	// error channel.
	VisibilityDebug
)

// String returns a human-readable string representation of the ErrorVisibility.
func (v ErrorVisibility) String() string {
	switch v {
	case VisibilityProduction:
		return "Production"
	case VisibilityDebug:
		return "Debug"
	default:
		return fmt.Sprintf("Unknown(%d)", v)
	}
}

// IsValid returns true if the ErrorVisibility is a valid, defined value.
func (v ErrorVisibility) IsValid() bool {
	return v == VisibilityProduction || v == VisibilityDebug
}
