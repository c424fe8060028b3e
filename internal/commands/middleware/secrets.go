package middleware

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/config"
)

// SecretsBeforeFunc loads environment variables from the secrets file of
// the current context. It runs before the signer is built, so PRIVATE_KEY
// and KEYSTORE_PASSWORD can live there.
func SecretsBeforeFunc(c *cli.Context) error {
	log := GetLogger(c)

	currentCtx, ok := c.Context.Value(config.ContextKey).(*config.Context)
	if !ok || currentCtx == nil || currentCtx.EnvSecretsPath == "" {
		log.Debug("No secrets path configured")
		return nil
	}

	secretsPath := expandPath(currentCtx.EnvSecretsPath)
	if _, err := os.Stat(secretsPath); os.IsNotExist(err) {
		log.Warn("Secrets file does not exist", zap.String("path", secretsPath))
		return nil
	}

	envVars, err := loadEnvFile(secretsPath)
	if err != nil {
		return fmt.Errorf("failed to load secrets from %s: %w", secretsPath, err)
	}

	for key, value := range envVars {
		// explicit environment wins over the file
		if os.Getenv(key) != "" {
			log.Debug("Environment variable already set, skipping", zap.String("key", key))
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			log.Warn("Failed to set environment variable", zap.String("key", key), zap.Error(err))
		}
	}

	log.Debug("Loaded secrets from file",
		zap.String("path", secretsPath),
		zap.Int("count", len(envVars)))
	return nil
}

// loadEnvFile reads KEY=VALUE lines. Comments, blank and malformed lines
// are skipped; surrounding quotes are removed from values.
func loadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	envVars := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		envVars[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return envVars, nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
