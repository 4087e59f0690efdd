package sshkeys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CommonPaths returns a list of common public key paths, in preference order.
func CommonPaths() []string {
	return []string{
		"~/.ssh/id_ed25519.pub",
		"~/.ssh/id_rsa.pub",
		"~/.ssh/id_ecdsa.pub",
	}
}

// ExpandHomePath expands a leading ~/ to the user's home directory.
func ExpandHomePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// ReadAndValidatePublicKey reads a public key from disk and validates it.
func ReadAndValidatePublicKey(path string) (string, error) {
	expanded, err := ExpandHomePath(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to read SSH key file: %w", err)
	}

	publicKey := strings.TrimSpace(string(data))
	if publicKey == "" {
		return "", fmt.Errorf("SSH key file is empty")
	}

	return ValidatePublicKey(publicKey)
}

// FindDefault returns the first common public key that exists and
// validates, along with its path. It returns empty strings when none do.
func FindDefault() (path, key string) {
	for _, p := range CommonPaths() {
		if k, err := ReadAndValidatePublicKey(p); err == nil {
			return p, k
		}
	}
	return "", ""
}

// ValidatePublicKey performs basic validation on an SSH public key string.
// The key ends up on a single line of the boot script, so embedded line
// breaks are rejected.
func ValidatePublicKey(publicKey string) (string, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return "", fmt.Errorf("SSH key cannot be empty")
	}

	if strings.ContainsAny(publicKey, "\r\n") {
		return "", fmt.Errorf("SSH key must be a single line")
	}

	if strings.Contains(publicKey, "PRIVATE KEY") {
		return "", fmt.Errorf("value appears to contain a private key; please provide the public key (.pub file)")
	}

	validPrefixes := []string{"ssh-rsa", "ssh-ed25519", "ssh-dss", "ecdsa-sha2-", "sk-ssh-ed25519@", "sk-ecdsa-sha2-"}
	isValid := false
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(publicKey, prefix) {
			isValid = true
			break
		}
	}

	if !isValid {
		return "", fmt.Errorf("value does not appear to be a valid SSH public key (expected ssh-rsa, ssh-ed25519, or ecdsa-sha2-*)")
	}

	if len(strings.Fields(publicKey)) < 2 {
		return "", fmt.Errorf("SSH key is missing its key material")
	}

	return publicKey, nil
}
