package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings is the small record the reader persists between runs.
type Settings struct {
	DarkMode bool   `yaml:"dark_mode" json:"dark_mode"`
	APIKey   string `yaml:"api_key" json:"api_key"`
}

// Default returns the settings used before anything was stored.
func Default() Settings {
	return Settings{DarkMode: true}
}

// Store loads and saves Settings for one organization/application pair.
type Store interface {
	Load() (Settings, error)
	Store(Settings) error
	Close() error
}

const (
	TypeFile  = "file"
	TypeBBolt = "bbolt"
)

// NewStore opens the configured settings backend. An empty path places the
// data under the user's config directory.
func NewStore(typ, path, org, app string) (Store, error) {
	org = strings.TrimSpace(org)
	app = strings.TrimSpace(app)
	if org == "" || app == "" {
		return nil, fmt.Errorf("settings store requires organization and application names")
	}

	typ = strings.ToLower(strings.TrimSpace(typ))
	switch typ {
	case "", TypeFile:
		if strings.TrimSpace(path) == "" {
			dir, err := defaultDir(org)
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, app+".yaml")
		}
		return newFileStore(path), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			dir, err := defaultDir(org)
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "settings.db")
		}
		return openBoltStore(path, org, app)
	default:
		return nil, fmt.Errorf("unsupported settings type %q", typ)
	}
}

func defaultDir(org string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, org), nil
}
