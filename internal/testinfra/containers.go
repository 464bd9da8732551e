package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MySQLImage    = "mysql:8.0"
	MySQLUser     = "myconn"
	MySQLPassword = "myconn"
	MySQLDB       = "myconn_test"

	containerCertDir = "/etc/mysql/certs"
)

type MySQLContainer struct {
	*mysql.MySQLContainer
	Host string
	Port int
}

// StartMySQL starts a plain MySQL container for connectivity tests.
func StartMySQL(ctx context.Context) (*MySQLContainer, error) {
	ctr, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithUsername(MySQLUser),
		mysql.WithPassword(MySQLPassword),
		mysql.WithDatabase(MySQLDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("ready for connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start mysql: %w", err)
	}

	return wrapContainer(ctx, ctr)
}

// StartTLSMySQL starts a MySQL container that mandates encrypted transport
// and verifies client certificates against the bundle's CA.
func StartTLSMySQL(ctx context.Context, certPaths *CertPaths) (*MySQLContainer, error) {
	files := []testcontainers.ContainerFile{
		{HostFilePath: certPaths.CACert, ContainerFilePath: containerCertDir + "/ca.crt", FileMode: 0o644},
		{HostFilePath: certPaths.ServerCert, ContainerFilePath: containerCertDir + "/server.crt", FileMode: 0o644},
		{HostFilePath: certPaths.ServerKey, ContainerFilePath: containerCertDir + "/server.key", FileMode: 0o644},
	}

	ctr, err := mysql.Run(ctx,
		MySQLImage,
		mysql.WithUsername(MySQLUser),
		mysql.WithPassword(MySQLPassword),
		mysql.WithDatabase(MySQLDB),
		testcontainers.WithFiles(files...),
		testcontainers.WithCmdArgs(
			"--ssl-ca="+containerCertDir+"/ca.crt",
			"--ssl-cert="+containerCertDir+"/server.crt",
			"--ssl-key="+containerCertDir+"/server.key",
			"--require_secure_transport=ON",
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("ready for connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start TLS mysql: %w", err)
	}

	return wrapContainer(ctx, ctr)
}

func wrapContainer(ctx context.Context, ctr *mysql.MySQLContainer) (*MySQLContainer, error) {
	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	mapped, err := ctr.MappedPort(ctx, "3306/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MySQLContainer{MySQLContainer: ctr, Host: host, Port: mapped.Int()}, nil
}
