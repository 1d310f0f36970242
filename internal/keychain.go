//go:build darwin

package internal

import (
	"fmt"

	"github.com/keybase/go-keychain"
)

const (
	KeychainService = "sagectl"
	KeychainAccount = "aws-secret-access-key"
)

// ResolveSecretAccessKey returns current when set (flag or AWS_SECRET_ACCESS_KEY
// already applied), otherwise the key stored in the macOS Keychain.
func ResolveSecretAccessKey(current string) (string, error) {
	if current != "" {
		return current, nil
	}
	secret, err := getKeychainSecret()
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", fmt.Errorf("no secret access key found")
	}
	return secret, nil
}

// StoreKeychainSecret saves the base secret access key in the Keychain,
// replacing any previous item.
func StoreKeychainSecret(secret string) error {
	item := keychain.NewItem()
	item.SetSecClass(keychain.SecClassGenericPassword)
	item.SetService(KeychainService)
	item.SetAccount(KeychainAccount)
	item.SetLabel("sagectl AWS secret access key")
	item.SetData([]byte(secret))
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleWhenUnlocked)

	// Remove existing if any
	keychain.DeleteItem(item)

	if err := keychain.AddItem(item); err != nil {
		return fmt.Errorf("failed to save to keychain: %w", err)
	}
	return nil
}

// GetKeychainSecret reads the stored secret access key.
func GetKeychainSecret() (string, error) {
	return getKeychainSecret()
}

func getKeychainSecret() (string, error) {
	query := keychain.NewItem()
	query.SetSecClass(keychain.SecClassGenericPassword)
	query.SetService(KeychainService)
	query.SetAccount(KeychainAccount)
	query.SetMatchLimit(keychain.MatchLimitOne)
	query.SetReturnData(true)

	results, err := keychain.QueryItem(query)
	if err != nil {
		return "", err
	} else if len(results) != 1 {
		return "", fmt.Errorf("secret not found in keychain")
	}

	return string(results[0].Data), nil
}
