package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/myconn-db/myconn/pkg/myconn"
)

// ModernDriver opens connections through database/sql with the
// go-sql-driver/mysql driver. This is the TLS-capable generation.
type ModernDriver struct{}

// NewModernDriver creates the modern driver generation.
func NewModernDriver() *ModernDriver {
	return &ModernDriver{}
}

// Generation identifies this driver as the modern API surface.
func (d *ModernDriver) Generation() myconn.DriverGeneration {
	return myconn.GenerationModern
}

// SupportsTLS reports that encrypted transport is available.
func (d *ModernDriver) SupportsTLS() bool {
	return true
}

// BracketsIPv6Literals reports that the driver's address syntax requires
// IPv6 literals wrapped in brackets inside tcp(...).
func (d *ModernDriver) BracketsIPv6Literals() bool {
	return true
}

// Connect dials the target once and verifies the handle with a ping.
func (d *ModernDriver) Connect(ctx context.Context, cfg *myconn.ConnectionConfig, target *myconn.HostTarget, tlsProfile string) (myconn.Handle, error) {
	dsn := d.formatDSN(cfg, target, tlsProfile)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	// One process-wide handle, not a pool.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &sqlHandle{db: sqlDB}, nil
}

// formatDSN builds the driver DSN. The database name is deliberately left
// out: schema selection happens on the live handle so that its failure is
// observable separately from the transport connect.
func (d *ModernDriver) formatDSN(cfg *myconn.ConnectionConfig, target *myconn.HostTarget, tlsProfile string) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Host
	mc.Timeout = cfg.ConnectTimeout

	if target != nil {
		switch {
		case target.Socket != "":
			mc.Net = "unix"
			mc.Addr = target.Socket
		default:
			host := target.Host
			if target.IPv6 && d.BracketsIPv6Literals() {
				host = "[" + host + "]"
			}
			mc.Addr = host
			if target.Port != nil {
				// Only an explicit port is passed through; otherwise the
				// driver's own default-port behavior applies.
				mc.Addr = fmt.Sprintf("%s:%d", host, *target.Port)
			}
		}
	}

	if tlsProfile != "" {
		mc.TLSConfig = tlsProfile
	}

	return mc.FormatDSN()
}

// sqlHandle adapts *sql.DB to the Handle interface.
type sqlHandle struct {
	db *sql.DB
}

func (h *sqlHandle) Exec(ctx context.Context, stmt string) error {
	_, err := h.db.ExecContext(ctx, stmt)
	return err
}

func (h *sqlHandle) QueryValue(ctx context.Context, query string) (string, error) {
	var value sql.NullString
	if err := h.db.QueryRowContext(ctx, query).Scan(&value); err != nil {
		return "", err
	}
	return value.String, nil
}

func (h *sqlHandle) Close() error {
	return h.db.Close()
}

// Verify interface conformance at compile time
var (
	_ myconn.Driver = (*ModernDriver)(nil)
	_ myconn.Handle = (*sqlHandle)(nil)
)
