// Package platform provides cross-platform utilities for directory paths
// and OS-specific operations.
package platform

import (
	"os"
	"path/filepath"
)

// AppName is the application name used for directory naming
const AppName = "atlas-siteserv"

// AppDisplayName is the display name used on Windows
const AppDisplayName = "Atlas Groupe Site Server"

// GetDataDir returns the application data directory.
// Windows: %APPDATA%\Atlas Groupe Site Server
// Linux: ~/.local/share/atlas-siteserv
// Falls back to ~/.atlas-siteserv if XDG is not available.
func GetDataDir() string {
	return getDataDir()
}

// GetCacheDir returns the cache directory for rendered assets.
// Windows: %APPDATA%\Atlas Groupe Site Server
// Linux: ~/.cache/atlas-siteserv
func GetCacheDir() string {
	return getCacheDir()
}

// UserHomeDir returns the user's home directory with proper fallbacks.
func UserHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// JoinPath is a convenience wrapper around filepath.Join
func JoinPath(elem ...string) string {
	return filepath.Join(elem...)
}
