package credential_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativecheck/internal/config"
	"creativecheck/internal/credential"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolve_SecretsFirst(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeSecrets(t, "[openai]\napi_key = \"sk-secrets\"\n")

	r := credential.NewResolver(&config.CheckerConfig{Provider: "openai", SecretsFile: path})
	key, source := r.Resolve("sk-typed")

	assert.Equal(t, "sk-secrets", key)
	assert.Equal(t, credential.SourceSecrets, source)
}

func TestResolve_EnvWhenNoSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	r := credential.NewResolver(&config.CheckerConfig{Provider: "openai", SecretsFile: filepath.Join(t.TempDir(), "missing.toml")})
	key, source := r.Resolve("sk-typed")

	assert.Equal(t, "sk-env", key)
	assert.Equal(t, credential.SourceEnv, source)
}

func TestResolve_ConfiguredKeyCountsAsEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	r := credential.NewResolver(&config.CheckerConfig{Provider: "claude", APIKey: "from-prefixed-env"})
	key, source := r.Resolve("")

	assert.Equal(t, "from-prefixed-env", key)
	assert.Equal(t, credential.SourceEnv, source)
}

func TestResolve_Interactive(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeSecrets(t, "[other]\napi_key = \"x\"\n")

	r := credential.NewResolver(&config.CheckerConfig{Provider: "openai", SecretsFile: path})
	assert.False(t, r.HasDefault())

	key, source := r.Resolve("  sk-typed ")
	assert.Equal(t, "sk-typed", key)
	assert.Equal(t, credential.SourceInteractive, source)
}

func TestResolve_None(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	key, source := credential.NewResolver(&config.CheckerConfig{}).Resolve("")
	assert.Empty(t, key)
	assert.Equal(t, credential.SourceNone, source)
}

func TestResolve_MalformedSecretsFallsThrough(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := writeSecrets(t, "[openai\napi_key = ")

	key, source := credential.NewResolver(&config.CheckerConfig{Provider: "openai", SecretsFile: path}).Resolve("")
	assert.Equal(t, "sk-env", key)
	assert.Equal(t, credential.SourceEnv, source)
}

func TestReadSecretsFile_ProviderSection(t *testing.T) {
	path := writeSecrets(t, "[openai]\napi_key = \"a\"\n\n[gemini]\napi_key = \"g\"\n")

	key, err := credential.ReadSecretsFile(path, "gemini")
	require.NoError(t, err)
	assert.Equal(t, "g", key)
}
