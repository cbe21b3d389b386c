package credentials

import (
	"fmt"
	"os"
	"strings"
)

// EnvResolver resolves credential references as environment variable
// names. `.env` files loaded at startup feed the same lookup, and keys
// are read on every call so rotation does not require a restart.
type EnvResolver struct{}

func NewEnvResolver() EnvResolver {
	return EnvResolver{}
}

func (EnvResolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty credential reference")
	}
	value := strings.TrimSpace(os.Getenv(ref))
	if value == "" {
		return "", fmt.Errorf("environment variable %s is not set", ref)
	}
	return value, nil
}
