// Package secrets resolves credentials from files or inline configuration.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	apperrors "github.com/spigell/job-matcher/internal/errors"
)

// Source describes where a secret lives.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret.
	Value string
	// File holds the secret. Takes precedence over Value.
	File string
}

func (s Source) name() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return "secret"
}

func (s Source) configured() bool {
	return strings.TrimSpace(s.File) != "" || strings.TrimSpace(s.Value) != ""
}

// Load returns the trimmed secret. A source with neither file nor value is a
// configuration error, as is an empty or unreadable file.
func Load(src Source) (string, error) {
	name := src.name()

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.Configuration(fmt.Sprintf("%s file %q does not exist", name, file), err)
		}
		if err != nil {
			return "", apperrors.Configuration(fmt.Sprintf("reading %s from file %q", name, file), err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", apperrors.Configuration(fmt.Sprintf("%s file %q is empty", name, file), nil)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", apperrors.Configuration(fmt.Sprintf("%s is not configured", name), nil)
	}
	return secret, nil
}

// Optional is Load for secrets that may be left unset entirely, in which case
// it returns an empty string.
func Optional(src Source) (string, error) {
	if !src.configured() {
		return "", nil
	}
	return Load(src)
}
