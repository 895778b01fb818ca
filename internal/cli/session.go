package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/freshrack/internal/client"
)

// DefaultSessionPath returns $XDG_CONFIG_HOME/freshrack/session.yaml or the
// platform equivalent.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "freshrack-session.yaml"
	}
	return filepath.Join(dir, "freshrack", "session.yaml")
}

// LoadSession reads the saved session. A missing file is an anonymous session.
func LoadSession(path string) (client.Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return client.Session{}, nil
	}
	if err != nil {
		return client.Session{}, fmt.Errorf("reading session: %w", err)
	}

	var s client.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return client.Session{}, fmt.Errorf("parsing session %s: %w", path, err)
	}
	return s, nil
}

// SaveSession writes s to path, readable only by the current user.
func SaveSession(path string, s client.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// ClearSession removes the saved session, if any.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
