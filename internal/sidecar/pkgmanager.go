package sidecar

import (
	"os"
	"path/filepath"
)

// YarnLockfile marks a sidecar project that opted into yarn.
const YarnLockfile = "yarn.lock"

// ResolvePackageManager returns the package manager executable for the
// sidecar project. yarn is chosen only when the project has a yarn lockfile
// and yarn is on PATH; otherwise npm is used. The choice is made on every
// call and never cached.
func (m *Manager) ResolvePackageManager() (string, error) {
	if _, err := os.Stat(filepath.Join(m.dir, YarnLockfile)); err == nil {
		if yarn, err := m.lookPath("yarn"); err == nil {
			return yarn, nil
		}
		m.logger.Debug("yarn lockfile present but yarn not on PATH, falling back to npm")
	}

	npm, err := m.lookPath("npm")
	if err != nil {
		return "", executableNotFound(m.dir, err)
	}
	return npm, nil
}
