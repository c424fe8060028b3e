package signer

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PasswordProvider supplies the password of a named keystore.
type PasswordProvider interface {
	GetPassword(keystoreName string) (string, error)
}

// EnvironmentPasswordProvider reads KEYSTORE_PASSWORD.
type EnvironmentPasswordProvider struct{}

func (EnvironmentPasswordProvider) GetPassword(keystoreName string) (string, error) {
	if pwd, ok := os.LookupEnv(EnvKeystorePassword); ok {
		return pwd, nil
	}
	return "", fmt.Errorf("no password found in environment for keystore %s", keystoreName)
}

// InteractivePasswordProvider prompts on the terminal without echo.
type InteractivePasswordProvider struct {
	Out io.Writer
}

func (p InteractivePasswordProvider) GetPassword(keystoreName string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for keystore %s password: stdin is not a terminal", keystoreName)
	}
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "Enter password for keystore %s: ", keystoreName)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

// StaticPasswordProvider returns a fixed password.
type StaticPasswordProvider string

func (p StaticPasswordProvider) GetPassword(string) (string, error) {
	return string(p), nil
}

// CombinedPasswordProvider tries providers in order.
type CombinedPasswordProvider []PasswordProvider

func (c CombinedPasswordProvider) GetPassword(keystoreName string) (string, error) {
	var lastErr error
	for _, p := range c {
		pwd, err := p.GetPassword(keystoreName)
		if err == nil {
			return pwd, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no password provider for keystore %s", keystoreName)
	}
	return "", lastErr
}

// DefaultPasswordProvider checks the environment, then prompts.
func DefaultPasswordProvider() PasswordProvider {
	return CombinedPasswordProvider{EnvironmentPasswordProvider{}, InteractivePasswordProvider{}}
}
