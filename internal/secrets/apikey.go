package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "aijobs"

	keyringAccount = "aijobs:openai"
	envVar         = "OPENAI_API_KEY"
)

// GetOpenAIKey resolves the OpenAI API key: keychain first, then the
// environment.
func GetOpenAIKey() (string, error) {
	if key, err := keyring.Get(KeyringService, keyringAccount); err == nil && strings.TrimSpace(key) != "" {
		return key, nil
	}
	if key := strings.TrimSpace(os.Getenv(envVar)); key != "" {
		return key, nil
	}
	return "", errors.New("OpenAI API key not found (set it in keychain or via " + envVar + ")")
}

func SetOpenAIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, key)
}

func DeleteOpenAIKey() error {
	return keyring.Delete(KeyringService, keyringAccount)
}
