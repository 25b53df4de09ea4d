// Package credential resolves the vision provider API key.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"creativecheck/internal/config"
)

// Source names where a key was found.
type Source string

const (
	SourceSecrets     Source = "secrets"
	SourceEnv         Source = "env"
	SourceInteractive Source = "interactive"
	SourceNone        Source = "none"
)

// providerEnv maps providers to their conventional API key variable.
var providerEnv = map[string]string{
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
	"gemini": "GEMINI_API_KEY",
}

// Resolver looks up the API key in the hosted secrets file, then the
// environment, then a value supplied by the user.
type Resolver struct {
	provider    string
	secretsFile string
	configured  string
}

// NewResolver creates a Resolver for the configured provider.
// cfg.APIKey holds the value of CREATIVECHECK_CHECKER_API_KEY.
func NewResolver(cfg *config.CheckerConfig) *Resolver {
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	return &Resolver{
		provider:    provider,
		secretsFile: cfg.SecretsFile,
		configured:  cfg.APIKey,
	}
}

// Resolve returns the first non-empty key and its source. interactive is
// the value typed by the user, if any. An empty key means the run must be
// refused.
func (r *Resolver) Resolve(interactive string) (string, Source) {
	if key := r.fromSecrets(); key != "" {
		return key, SourceSecrets
	}
	if key := r.fromEnv(); key != "" {
		return key, SourceEnv
	}
	if key := strings.TrimSpace(interactive); key != "" {
		return key, SourceInteractive
	}
	return "", SourceNone
}

// HasDefault reports whether a key is available without user input.
func (r *Resolver) HasDefault() bool {
	key, _ := r.Resolve("")
	return key != ""
}

func (r *Resolver) fromSecrets() string {
	if r.secretsFile == "" {
		return ""
	}
	key, err := ReadSecretsFile(r.secretsFile, r.provider)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).WithField("path", r.secretsFile).Warn("credential.Resolve: ignoring unreadable secrets file")
		}
		return ""
	}
	return key
}

func (r *Resolver) fromEnv() string {
	if name, ok := providerEnv[r.provider]; ok {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return strings.TrimSpace(r.configured)
}

// ReadSecretsFile reads [<provider>] api_key from a TOML secrets file.
func ReadSecretsFile(path, provider string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading secrets file: %w", err)
	}
	return strings.TrimSpace(v.GetString(provider + ".api_key")), nil
}
