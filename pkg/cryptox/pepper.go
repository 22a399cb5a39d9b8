package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const pepperLength = 32

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile = "pepper"
)

// SetPepperPath sets where the pepper is read from (or created). It resets
// any pepper already loaded.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// GetPepper returns the process pepper, loading or creating the pepper
// file on first use. The process exits if the file cannot be used since
// every stored password hash depends on it.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper
	}

	data, err := LoadOrCreateFile(pepperFile, func() ([]byte, error) {
		buf := make([]byte, pepperLength)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		return []byte(base64.RawURLEncoding.EncodeToString(buf)), nil
	})
	if err != nil {
		slog.Error("failed to load or generate pepper", "path", pepperFile, "err", err)
		os.Exit(1)
	}

	pepper = string(data)
	return pepper
}

// LoadOrCreateFile returns the contents of path. When the file does not
// exist it is created (mode 0600, parent dirs 0750) with the bytes from
// generate. Used for the pepper and the token signing key.
func LoadOrCreateFile(path string, generate func() ([]byte, error)) ([]byte, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cryptox: read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("cryptox: create dir for %s: %w", path, err)
	}

	data, err = generate()
	if err != nil {
		return nil, fmt.Errorf("cryptox: generate %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("cryptox: write %s: %w", path, err)
	}
	return data, nil
}
