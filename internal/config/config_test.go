package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	verrors "github.com/systmms/vaultenv/internal/errors"
	"github.com/systmms/vaultenv/internal/logging"
)

func clearVaultEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvAddr, EnvRoleID, EnvSecretID,
		EnvNamespace, EnvVarPrefix, EnvCACert, EnvSkipVerify,
	} {
		t.Setenv(name, "")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAddr, "https://vault.example.com:8200")
	t.Setenv(EnvRoleID, "role-id")
	t.Setenv(EnvSecretID, "secret-id")
}

func testLogger() *logging.Logger {
	return logging.New(false, true)
}

func TestLoad_AllRequiredPresent(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)

	cfg, err := Load("", testLogger())
	require.NoError(t, err)
	assert.Equal(t, "https://vault.example.com:8200", cfg.Address)
	assert.Equal(t, "role-id", cfg.RoleID)
	require.NotNil(t, cfg.SecretID)
	assert.Equal(t, "V_", cfg.Prefix)
	assert.Empty(t, cfg.Namespace)

	locked, err := cfg.SecretID.Open()
	require.NoError(t, err)
	defer locked.Destroy()
	assert.Equal(t, "secret-id", locked.String())
}

func TestLoad_MissingAllRequired(t *testing.T) {
	clearVaultEnv(t)

	_, err := Load("", testLogger())
	require.Error(t, err)

	var missing verrors.MissingConfigError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{EnvAddr, EnvRoleID, EnvSecretID}, missing.Missing)
}

func TestLoad_MissingSomeRequired(t *testing.T) {
	clearVaultEnv(t)
	t.Setenv(EnvAddr, "https://vault.example.com:8200")

	_, err := Load("", testLogger())
	require.Error(t, err)

	var missing verrors.MissingConfigError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{EnvRoleID, EnvSecretID}, missing.Missing)
}

func TestLoad_OptionalEnv(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)
	t.Setenv(EnvNamespace, "team-a")
	t.Setenv(EnvVarPrefix, "SECRET_")
	t.Setenv(EnvCACert, "/etc/ssl/vault-ca.pem")
	t.Setenv(EnvSkipVerify, "true")

	cfg, err := Load("", testLogger())
	require.NoError(t, err)
	assert.Equal(t, "team-a", cfg.Namespace)
	assert.Equal(t, "SECRET_", cfg.Prefix)
	assert.Equal(t, "/etc/ssl/vault-ca.pem", cfg.CACert)
	assert.True(t, cfg.TLSSkip)
}

func TestLoad_FileDefaults(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "vaultenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: from-file\nprefix: FILE_\n"), 0o600))

	cfg, err := Load(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Namespace)
	assert.Equal(t, "FILE_", cfg.Prefix)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)
	t.Setenv(EnvNamespace, "from-env")

	path := filepath.Join(t.TempDir(), "vaultenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: from-file\n"), 0o600))

	cfg, err := Load(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Namespace)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"), testLogger())
	require.NoError(t, err)
	assert.Equal(t, "V_", cfg.Prefix)
}

func TestLoad_FileRejectsUnknownKeys(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "vaultenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("role_id: should-not-be-here\n"), 0o600))

	_, err := Load(path, testLogger())
	require.Error(t, err)

	var fileErr verrors.ConfigFileError
	require.ErrorAs(t, err, &fileErr)
	assert.Contains(t, fileErr.Error(), "schema validation failed")
}

func TestLoad_FileRejectsInvalidYAML(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "vaultenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: [unclosed\n"), 0o600))

	_, err := Load(path, testLogger())
	require.Error(t, err)

	var fileErr verrors.ConfigFileError
	require.ErrorAs(t, err, &fileErr)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "vaultenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := Load(path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "V_", cfg.Prefix)
}

func TestClientConfig(t *testing.T) {
	clearVaultEnv(t)
	setRequiredEnv(t)
	t.Setenv(EnvNamespace, "team-a")

	cfg, err := Load("", testLogger())
	require.NoError(t, err)

	cc := cfg.ClientConfig()
	assert.Equal(t, cfg.Address, cc.Address)
	assert.Equal(t, cfg.RoleID, cc.RoleID)
	assert.Equal(t, "team-a", cc.Namespace)
	assert.Same(t, cfg.SecretID, cc.SecretID)
}
