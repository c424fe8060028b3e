package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/miaoxn/soliditytool/internal/signer"
)

// Define custom types for context keys to avoid collisions
type contextKey string

var (
	ContextKey          contextKey = "currentContext"
	ConfigKey           contextKey = "config"
	ChainKey            contextKey = "chain"
	StoreKey            contextKey = "store"
	MetricsContextKey   contextKey = "metricsContext"
	TelemetryContextKey contextKey = "telemetry"
)

const (
	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "SOLTOOL_CONFIG_DIR"

	DefaultContextName = "default"
	DefaultRPCUrl      = "http://127.0.0.1:8545"
	DefaultTheme       = "dark"
)

// Context is one named connection profile.
type Context struct {
	Name   string `yaml:"-"`
	RPCUrl string `yaml:"rpcUrl,omitempty"`
	// ChainID is informational; the node's answer is authoritative.
	ChainID uint64 `yaml:"chainId,omitempty"`

	// Default target address for one-shot calls
	ContractAddress string `yaml:"contractAddress,omitempty"`

	Signer signer.Config `yaml:"signer,omitempty"`

	// Path to secrets file (e.g., .env.secrets)
	EnvSecretsPath string `yaml:"envSecretsPath"`

	// StorageDir holds saved contracts; defaults to <config dir>/data
	StorageDir string `yaml:"storageDir,omitempty"`

	Theme string `yaml:"theme,omitempty"`
}

type Config struct {
	CurrentContext     string              `yaml:"currentContext"`
	Contexts           map[string]*Context `yaml:"contexts"`
	TelemetryEnabled   *bool               `yaml:"telemetryEnabled,omitempty"`
	TelemetryAnonymous *bool               `yaml:"telemetryAnonymous,omitempty"`
	PostHogAPIKey      string              `yaml:"posthogApiKey,omitempty"`
}

func LoadConfig() (*Config, error) {
	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.Contexts == nil {
		config.Contexts = make(map[string]*Context)
	}
	for name, ctx := range config.Contexts {
		if ctx == nil {
			ctx = &Context{}
			config.Contexts[name] = ctx
		}
		ctx.Name = name
	}

	return &config, nil
}

func SaveConfig(config *Config) error {
	configPath := getConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file may hold a private key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Current returns the active context.
func (c *Config) Current() (*Context, error) {
	ctx, ok := c.Contexts[c.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("current context '%s' not found", c.CurrentContext)
	}
	return ctx, nil
}

// ContextNames lists context names in sorted order.
func (c *Config) ContextNames() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func GetCurrentContext() (*Context, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Current()
}

func GetConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".soltool")
}

func getConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// DataDir is where a context keeps its saved contracts.
func (c *Context) DataDir() string {
	if c.StorageDir != "" {
		return c.StorageDir
	}
	return filepath.Join(GetConfigDir(), "data")
}

func defaultConfig() *Config {
	return &Config{
		CurrentContext: DefaultContextName,
		Contexts: map[string]*Context{
			DefaultContextName: {
				Name:   DefaultContextName,
				RPCUrl: DefaultRPCUrl,
				Theme:  DefaultTheme,
			},
		},
	}
}

// ToMap converts the Context to a map for display purposes
func (c *Context) ToMap() map[string]interface{} {
	result := make(map[string]interface{})

	if c.RPCUrl != "" {
		result["rpc-url"] = c.RPCUrl
	}
	if c.ChainID != 0 {
		result["chain-id"] = c.ChainID
	}
	if c.ContractAddress != "" {
		result["contract-address"] = c.ContractAddress
	}
	if c.EnvSecretsPath != "" {
		result["env-secrets-path"] = c.EnvSecretsPath
	}
	if c.StorageDir != "" {
		result["storage-dir"] = c.StorageDir
	}
	if c.Theme != "" {
		result["theme"] = c.Theme
	}

	switch {
	case c.Signer.KeystorePath != "":
		result["signer"] = "keystore:" + c.Signer.KeystorePath
	case c.Signer.PrivateKey != "":
		// never echo key material
		result["signer"] = "private-key"
	default:
		result["signer"] = "none (read-only)"
	}

	return result
}
