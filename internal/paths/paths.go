// Package paths resolves where timeclock keeps its files, following the XDG
// base directory layout.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "timeclock"

// AccountFile is the name of the signed-in account file in the state dir.
const AccountFile = "account.json"

// DefaultStateDir returns the directory for the signed-in session.
func DefaultStateDir() string {
	xdg.Reload()
	return filepath.Join(xdg.StateHome, appName)
}

// DefaultServerStateDir returns the directory for the dev server's data.
func DefaultServerStateDir() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, appName, "server")
}

// GlobalConfigPath returns the user-wide config file path.
func GlobalConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}
