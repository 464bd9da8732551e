package db

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "mymysql" driver with database/sql.
	_ "github.com/ziutek/mymysql/godrv"

	"github.com/myconn-db/myconn/pkg/myconn"
)

// LegacyDriver opens connections through the mymysql client library, the
// older driver generation. It has no TLS capability by construction; the
// fallback path trades encryption for the ability to connect at all.
type LegacyDriver struct{}

// NewLegacyDriver creates the legacy driver generation.
func NewLegacyDriver() *LegacyDriver {
	return &LegacyDriver{}
}

// Generation identifies this driver as the legacy API surface.
func (d *LegacyDriver) Generation() myconn.DriverGeneration {
	return myconn.GenerationLegacy
}

// SupportsTLS reports that this generation cannot encrypt transport.
func (d *LegacyDriver) SupportsTLS() bool {
	return false
}

// BracketsIPv6Literals reports that mymysql's address format takes the raw
// literal; its resolver does its own splitting.
func (d *LegacyDriver) BracketsIPv6Literals() bool {
	return false
}

// Connect dials the target once and verifies the handle with a ping.
// tlsProfile is ignored; the Connector never provisions TLS for a driver
// that reports SupportsTLS() == false.
func (d *LegacyDriver) Connect(ctx context.Context, cfg *myconn.ConnectionConfig, target *myconn.HostTarget, _ string) (myconn.Handle, error) {
	sqlDB, err := sql.Open("mymysql", d.formatDSN(cfg, target))
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &sqlHandle{db: sqlDB}, nil
}

// formatDSN builds the mymysql godrv source name:
// "PROTO:ADDR*DBNAME/USER/PASSWD". An address without a port keeps the
// library's own default-port behavior.
func (d *LegacyDriver) formatDSN(cfg *myconn.ConnectionConfig, target *myconn.HostTarget) string {
	proto := "tcp"
	addr := cfg.Host

	if target != nil {
		switch {
		case target.Socket != "":
			proto = "unix"
			addr = target.Socket
		default:
			addr = target.Host
			if target.Port != nil {
				addr = fmt.Sprintf("%s:%d", target.Host, *target.Port)
			}
		}
	}

	return fmt.Sprintf("%s:%s*%s/%s/%s", proto, addr, cfg.Database, cfg.Username, cfg.Password)
}

// Verify interface conformance at compile time
var _ myconn.Driver = (*LegacyDriver)(nil)
