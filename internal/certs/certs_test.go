package certs

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestFileManager_Certificate(t *testing.T) {
	t.Run("creates certificate when none exists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "certs")
		m := NewFileManager(dir)

		cert, err := m.Certificate()
		require.NoError(t, err)

		c := leaf(t, cert)
		assert.Equal(t, "Payee Classifier", c.Subject.Organization[0])
		assert.Contains(t, c.DNSNames, "localhost")
		assert.Len(t, c.IPAddresses, 2)
		assert.True(t, c.NotAfter.After(time.Now().Add(364*24*time.Hour)))
		assert.NoError(t, c.VerifyHostname("127.0.0.1"))
		assert.FileExists(t, m.CertFile())

		info, err := os.Stat(filepath.Join(dir, keyFileName))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("reuses a valid certificate", func(t *testing.T) {
		m := NewFileManager(t.TempDir())
		first, err := m.Certificate()
		require.NoError(t, err)

		second, err := m.Certificate()
		require.NoError(t, err)
		assert.Equal(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
	})

	t.Run("replaces unreadable files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, certFileName), []byte("junk"), 0600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("junk"), 0600))

		cert, err := NewFileManager(dir).Certificate()
		require.NoError(t, err)
		assert.Contains(t, leaf(t, cert).DNSNames, "localhost")
	})

	t.Run("renews near expiry", func(t *testing.T) {
		dir := t.TempDir()
		m := NewFileManager(dir)
		first, err := m.Certificate()
		require.NoError(t, err)

		m.now = func() time.Time { return time.Now().Add(Validity - 24*time.Hour) }
		second, err := m.Certificate()
		require.NoError(t, err)
		assert.NotEqual(t, leaf(t, first).SerialNumber, leaf(t, second).SerialNumber)
	})

	t.Run("regenerates when a host is not covered", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewFileManager(dir).Certificate()
		require.NoError(t, err)

		cert, err := NewFileManager(dir, "payee.lan", "10.0.0.5").Certificate()
		require.NoError(t, err)
		c := leaf(t, cert)
		assert.Equal(t, []string{"payee.lan"}, c.DNSNames)
		assert.NoError(t, c.VerifyHostname("10.0.0.5"))
	})
}

func TestFileManager_TLSConfig(t *testing.T) {
	m := NewFileManager(t.TempDir())
	cfg, err := m.TLSConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)

	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	ts.TLS = cfg
	ts.StartTLS()
	defer ts.Close()

	pemData, err := os.ReadFile(m.CertFile())
	require.NoError(t, err)
	pool := x509.NewCertPool()
	require.True(t, pool.AppendCertsFromPEM(pemData))

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
	}}
	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
