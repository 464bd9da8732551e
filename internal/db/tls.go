package db

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/go-sql-driver/mysql"

	"github.com/myconn-db/myconn/pkg/myconn"
)

// Provisioner applies client TLS material to the modern driver's
// process-wide TLS profile registry ahead of a connection attempt.
//
// Configure must run before the network connect call; the driver resolves
// the profile name at dial time, so configuration after establishment has
// no effect. The Connector enforces this ordering by calling Configure
// exactly once per attempt, before handing the profile name to the driver.
type Provisioner struct {
	logger     myconn.Logger
	visibility myconn.ErrorVisibility
}

// NewProvisioner creates a Provisioner. Setup failures are surfaced through
// logger according to visibility.
func NewProvisioner(logger myconn.Logger, visibility myconn.ErrorVisibility) *Provisioner {
	return &Provisioner{logger: logger, visibility: visibility}
}

// Configure inspects the configured TLS material and, when complete,
// registers an encrypted-transport profile for the attempt. It returns the
// profile name to dial with, or an empty string when the attempt must
// proceed unencrypted.
//
// Behavior contract:
//   - Absent or partial material is a recognized no-op, never an error.
//   - When the host application names its own TLSProfile, that profile is
//     assumed to be registered already and is returned untouched; the
//     provisioner supplies the process-wide default only when the host has
//     not set one.
//   - Server certificate verification is skipped unless cfg.VerifyServer
//     is set; only the client identity is asserted by default.
//   - Setup failures (unreadable files, bad PEM) are suppressed: they are
//     logged per visibility and the attempt continues without encryption,
//     typically failing at the transport layer if the server mandates TLS.
//     TLS setup and connect errors are one failure surface, reported at
//     the connect layer.
func (p *Provisioner) Configure(cfg *myconn.ConnectionConfig) string {
	if !cfg.TLS.Complete() {
		if !cfg.TLS.Empty() {
			p.logger.Verbose("partial TLS material ignored (need ca, cert and key); connecting unencrypted")
		}
		return ""
	}

	if cfg.TLSProfile != "" {
		// Host-owned profile: the host application registered its own
		// client flags, so the default is not applied.
		return cfg.TLSProfile
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS, cfg.VerifyServer)
	if err == nil {
		err = mysql.RegisterTLSConfig(myconn.DefaultTLSProfile, tlsConfig)
	}
	if err != nil {
		p.reportSetupFailure(err)
		return ""
	}

	return myconn.DefaultTLSProfile
}

// reportSetupFailure surfaces a TLS setup error loudly in debug visibility
// and quietly in production. The error never propagates: the subsequent
// connect carries the failure surface.
func (p *Provisioner) reportSetupFailure(err error) {
	if p.visibility == myconn.VisibilityDebug {
		p.logger.Error("%v: %v", myconn.ErrTLSSetupFailed, err)
		return
	}
	p.logger.Verbose("%v: %v", myconn.ErrTLSSetupFailed, err)
}

func buildTLSConfig(material myconn.TLSMaterial, verifyServer bool) (*tls.Config, error) {
	caPEM, err := os.ReadFile(material.CAPath)
	if err != nil {
		return nil, fmt.Errorf("read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no usable certificates in %s", material.CAPath)
	}

	pair, err := tls.LoadX509KeyPair(material.CertPath, material.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("load client certificate pair: %w", err)
	}

	return &tls.Config{
		RootCAs:            pool,
		Certificates:       []tls.Certificate{pair},
		InsecureSkipVerify: !verifyServer,
	}, nil
}
