// Package config loads kinship configuration with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/roach88/kinship/internal/engine"
	"github.com/roach88/kinship/internal/section"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyHeading     = "section.heading"
	cfgKeyLockTimeout = "sync.lock_timeout"
	cfgKeyMaxSteps    = "sync.max_steps"
	cfgKeyBackend     = "store.backend"
	cfgKeyPath        = "store.path"

	// BackendVault keeps contact documents as markdown files in a
	// directory; BackendSQLite keeps them in a single database file.
	BackendVault  = "vault"
	BackendSQLite = "sqlite"
)

// defaultConfigYAML is written to config.yaml on first run so the
// tunable surface is discoverable without documentation.
const defaultConfigYAML = `# kinship configuration

section:
  # Heading word of the rendered relationship section.
  heading: related

sync:
  # Bounded lock lifetime; a stuck sync force-unlocks after this long.
  lock_timeout: 15s
  # Propagation step budget per sync operation.
  max_steps: 1000

store:
  # Backend selection: vault (markdown directory) or sqlite.
  backend: vault
  # Vault directory or sqlite database file.
  # path:
`

// Config is the resolved runtime configuration.
type Config struct {
	SectionHeading string
	LockTimeout    time.Duration
	MaxSteps       int
	Backend        string
	Path           string
}

// Load reads config.yaml from the given directory, creating the
// directory and a default file on first run. A missing config.yaml is
// not an error; defaults apply.
func Load(configDir string) (Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyHeading, section.DefaultHeading)
	v.SetDefault(cfgKeyLockTimeout, engine.DefaultLockTimeout)
	v.SetDefault(cfgKeyMaxSteps, engine.DefaultMaxSteps)
	v.SetDefault(cfgKeyBackend, BackendVault)
	v.SetDefault(cfgKeyPath, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		SectionHeading: v.GetString(cfgKeyHeading),
		LockTimeout:    v.GetDuration(cfgKeyLockTimeout),
		MaxSteps:       v.GetInt(cfgKeyMaxSteps),
		Backend:        v.GetString(cfgKeyBackend),
		Path:           v.GetString(cfgKeyPath),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Backend != BackendVault && c.Backend != BackendSQLite {
		return fmt.Errorf("invalid store.backend %q: must be %q or %q",
			c.Backend, BackendVault, BackendSQLite)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("invalid sync.lock_timeout %v: must be positive", c.LockTimeout)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("invalid sync.max_steps %d: must be positive", c.MaxSteps)
	}
	if c.SectionHeading == "" {
		return fmt.Errorf("section.heading must not be empty")
	}
	return nil
}

// ensureDefaultConfigFile creates a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
