//go:build conntest

package conntest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myconn-db/myconn/pkg/myconn"
)

func TestTLSConnection_ClientCertificate(t *testing.T) {
	cfg := containerConfig(tlsContainer)
	cfg.TLS = myconn.TLSMaterial{
		CAPath:   certPaths.CACert,
		CertPath: certPaths.ClientCert,
		KeyPath:  certPaths.ClientKey,
	}
	connector := newConnector(t, cfg)

	require.True(t, connector.Connect(context.Background(), false),
		"connect failed: %v", connector.LastError())
	assert.True(t, connector.Ready())
	assert.Equal(t, myconn.GenerationModern, connector.Generation())

	handle, err := connector.Handle()
	require.NoError(t, err)

	cipher, err := handle.QueryValue(context.Background(),
		"SELECT VARIABLE_VALUE FROM performance_schema.session_status WHERE VARIABLE_NAME = 'Ssl_cipher'")
	require.NoError(t, err)
	assert.NotEmpty(t, cipher, "session should be encrypted")
}

func TestTLSConnection_RequiredButNoMaterial(t *testing.T) {
	// The server mandates encrypted transport; a client without material
	// fails on the modern generation and the legacy generation cannot
	// encrypt at all, so both are exhausted.
	connector := newConnector(t, containerConfig(tlsContainer))

	require.False(t, connector.Connect(context.Background(), false))
	assert.ErrorIs(t, connector.LastError(), myconn.ErrNoDriverAvailable)
	assert.False(t, connector.HasConnected())
}

func TestTLSConnection_PartialMaterialIgnored(t *testing.T) {
	cfg := containerConfig(tlsContainer)
	cfg.TLS = myconn.TLSMaterial{CAPath: certPaths.CACert}
	connector := newConnector(t, cfg)

	// Partial material means no encryption, which this server rejects.
	require.False(t, connector.Connect(context.Background(), false))
}

func TestTLSConnection_VerifyServer(t *testing.T) {
	cfg := containerConfig(tlsContainer)
	cfg.Host = fmt.Sprintf("localhost:%d", tlsContainer.Port)
	cfg.TLS = myconn.TLSMaterial{
		CAPath:   certPaths.CACert,
		CertPath: certPaths.ClientCert,
		KeyPath:  certPaths.ClientKey,
	}
	cfg.VerifyServer = true
	connector := newConnector(t, cfg)

	require.True(t, connector.Connect(context.Background(), false),
		"verified connect failed: %v", connector.LastError())
	assert.True(t, connector.Ready())
}
