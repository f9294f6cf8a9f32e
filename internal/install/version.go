package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VersionInfo identifies an installed payload: the patcher secret it was
// fetched with and its version id. Serialized as a single
// "<patcherSecret>:<version>" line.
type VersionInfo struct {
	PatcherSecret string
	Version       string
}

// ParseVersionInfo parses the serialized form. A line without exactly one
// separator is not an error; it reports ok=false so callers force a
// reinstall.
func ParseVersionInfo(content string) (VersionInfo, bool) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 2 {
		return VersionInfo{}, false
	}
	return VersionInfo{PatcherSecret: parts[0], Version: parts[1]}, true
}

// String returns the serialized single-line form.
func (v VersionInfo) String() string {
	return v.PatcherSecret + ":" + v.Version
}

// CurrentVersion reads the persisted version identity. A missing file or a
// file in an unrecognized format reports ok=false rather than an error, which
// forces an update.
func (m *Manager) CurrentVersion() (VersionInfo, bool, error) {
	content, err := os.ReadFile(m.layout.VersionFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return VersionInfo{}, false, nil
		}
		return VersionInfo{}, false, fmt.Errorf("read version file: %w", err)
	}

	info, ok := ParseVersionInfo(string(content))
	if !ok {
		m.logf("version file in unrecognized format, forcing update")
		return VersionInfo{}, false, nil
	}
	return info, true, nil
}

// NeedsUpdate reports whether the candidate version differs from the stored
// one. Both fields are compared: a patcher secret rotation alone triggers a
// reinstall even when the version string is unchanged.
func (m *Manager) NeedsUpdate(version, patcherSecret string) (bool, error) {
	current, ok, err := m.CurrentVersion()
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return current.Version != version || current.PatcherSecret != patcherSecret, nil
}

// SaveVersion persists the version identity, fully replacing prior content.
func (m *Manager) SaveVersion(version, patcherSecret string) error {
	info := VersionInfo{PatcherSecret: patcherSecret, Version: version}
	if err := os.MkdirAll(filepath.Dir(m.layout.VersionFile), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(m.layout.VersionFile, []byte(info.String()), 0o644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	m.logf("saved version %s", info)
	return nil
}
