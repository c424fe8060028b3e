package middleware

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.env")

	content := `# deployer key
PRIVATE_KEY=0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80
KEYSTORE_PASSWORD="my-secret-password"
export RPC_TOKEN='abc123'

EMPTY_VALUE=
KEY_WITH_SPACES = value with spaces
MALFORMED_LINE_NO_EQUALS
=MALFORMED_LINE_NO_KEY
`
	require.NoError(t, os.WriteFile(testFile, []byte(content), 0600))

	envVars, err := loadEnvFile(testFile)
	require.NoError(t, err)

	assert.Equal(t, "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", envVars["PRIVATE_KEY"])
	assert.Equal(t, "my-secret-password", envVars["KEYSTORE_PASSWORD"])
	assert.Equal(t, "abc123", envVars["RPC_TOKEN"])
	assert.Equal(t, "", envVars["EMPTY_VALUE"])
	assert.Equal(t, "value with spaces", envVars["KEY_WITH_SPACES"])

	_, hasKey := envVars["MALFORMED_LINE_NO_EQUALS"]
	assert.False(t, hasKey)
	_, hasKey = envVars[""]
	assert.False(t, hasKey)
	assert.Len(t, envVars, 5)
}

func TestLoadEnvFile_Missing(t *testing.T) {
	_, err := loadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"home directory expansion", "~/test/file.env", filepath.Join(home, "test", "file.env")},
		{"absolute path unchanged", "/absolute/path/file.env", "/absolute/path/file.env"},
		{"relative path unchanged", "relative/path/file.env", "relative/path/file.env"},
		{"current directory unchanged", "./file.env", "./file.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}
