//go:build !darwin

package internal

import "fmt"

// ResolveSecretAccessKey stub for non-macOS
func ResolveSecretAccessKey(current string) (string, error) {
	if current != "" {
		return current, nil
	}
	return "", fmt.Errorf("no secret access key found and keychain is only supported on macOS")
}

// StoreKeychainSecret stub for non-macOS
func StoreKeychainSecret(secret string) error {
	return fmt.Errorf("keychain integration is only supported on macOS")
}

// GetKeychainSecret stub for non-macOS
func GetKeychainSecret() (string, error) {
	return "", fmt.Errorf("keychain integration is only supported on macOS")
}
