package tlsutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/lexrank/config"
	"github.com/c360/lexrank/errors"
)

// generateTestCert creates a self-signed certificate for cn
func generateTestCert(t *testing.T, cn string) (certPEM, keyPEM []byte) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Test Org"},
			CommonName:   cn,
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privateKey)})
	return certPEM, keyPEM
}

// setupTestFiles writes a cert/key pair and uses the cert as its own CA
func setupTestFiles(t *testing.T) (certFile, keyFile, caFile string) {
	t.Helper()

	dir := t.TempDir()
	certPEM, keyPEM := generateTestCert(t, "localhost")

	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	caFile = filepath.Join(dir, "ca.pem")

	require.NoError(t, os.WriteFile(certFile, certPEM, 0o644))
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))
	require.NoError(t, os.WriteFile(caFile, certPEM, 0o644))
	return certFile, keyFile, caFile
}

func TestServerConfig(t *testing.T) {
	certFile, keyFile, _ := setupTestFiles(t)

	tests := []struct {
		name       string
		cfg        config.TLSConfig
		wantNil    bool
		wantErr    bool
		minVersion uint16
	}{
		{
			name:    "disabled",
			cfg:     config.TLSConfig{},
			wantNil: true,
		},
		{
			name:       "tls 1.3",
			cfg:        config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile, MinVersion: "1.3"},
			minVersion: tls.VersionTLS13,
		},
		{
			name:       "default version",
			cfg:        config.TLSConfig{Enabled: true, CertFile: certFile, KeyFile: keyFile},
			minVersion: tls.VersionTLS12,
		},
		{
			name:    "missing cert",
			cfg:     config.TLSConfig{Enabled: true, CertFile: "missing.pem", KeyFile: keyFile},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ServerConfig(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsFatal(err))
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Len(t, got.Certificates, 1)
			assert.Equal(t, tt.minVersion, got.MinVersion)
			assert.Equal(t, tls.NoClientCert, got.ClientAuth)
		})
	}
}

func TestServerConfig_ClientAuth(t *testing.T) {
	certFile, keyFile, caFile := setupTestFiles(t)

	t.Run("optional client cert", func(t *testing.T) {
		got, err := ServerConfig(config.TLSConfig{
			Enabled: true, CertFile: certFile, KeyFile: keyFile,
			ClientCAFiles: []string{caFile},
		})
		require.NoError(t, err)
		assert.Equal(t, tls.VerifyClientCertIfGiven, got.ClientAuth)
		assert.NotNil(t, got.ClientCAs)
		assert.Nil(t, got.VerifyPeerCertificate)
	})

	t.Run("required client cert with CN list", func(t *testing.T) {
		got, err := ServerConfig(config.TLSConfig{
			Enabled: true, CertFile: certFile, KeyFile: keyFile,
			ClientCAFiles:     []string{caFile},
			RequireClientCert: true,
			AllowedClientCNs:  []string{"summarizer-client"},
		})
		require.NoError(t, err)
		assert.Equal(t, tls.RequireAndVerifyClientCert, got.ClientAuth)
		assert.NotNil(t, got.VerifyPeerCertificate)
	})

	t.Run("bad CA file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.pem")
		require.NoError(t, os.WriteFile(bad, []byte("not a certificate"), 0o644))

		_, err := ServerConfig(config.TLSConfig{
			Enabled: true, CertFile: certFile, KeyFile: keyFile,
			ClientCAFiles: []string{bad},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})

	t.Run("missing CA file", func(t *testing.T) {
		_, err := ServerConfig(config.TLSConfig{
			Enabled: true, CertFile: certFile, KeyFile: keyFile,
			ClientCAFiles: []string{filepath.Join(t.TempDir(), "none.pem")},
		})
		require.Error(t, err)
	})
}

func TestVerifyAllowedClientCN(t *testing.T) {
	leaf := func(cn string) [][]*x509.Certificate {
		return [][]*x509.Certificate{{{Subject: pkix.Name{CommonName: cn}}}}
	}
	allowed := []string{"summarizer-client", "batch-client"}

	assert.NoError(t, verifyAllowedClientCN(leaf("batch-client"), allowed))
	assert.Error(t, verifyAllowedClientCN(leaf("intruder"), allowed))
	assert.NoError(t, verifyAllowedClientCN(nil, allowed))
}
