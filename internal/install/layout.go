package install

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Layout captures canonical locations for one installed application. The
// install dir holds the extracted payload; the patcher dir holds state that
// must survive a full reinstall (version file, ledger, logs).
type Layout struct {
	Platform    string
	Slug        string
	InstallDir  string
	PatcherDir  string
	VersionFile string
	LedgerFile  string
	LogsDir     string
}

const (
	versionFileName = "version.txt"
	ledgerFileName  = "installed_files.txt"
)

// ResolveLayout determines the directory layout for the given platform and
// application slug. On darwin installs live under the per-user application
// data root; everywhere else they sit next to the running executable. The
// PATCHRUN_ROOT environment variable overrides the base directory entirely,
// which keeps the resolution testable without touching real user paths.
func ResolveLayout(platform, slug string) (Layout, error) {
	if override, ok := os.LookupEnv("PATCHRUN_ROOT"); ok && override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return Layout{}, fmt.Errorf("resolve PATCHRUN_ROOT: %w", err)
		}
		return NewLayout(platform, slug, abs), nil
	}

	if platform == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Layout{}, fmt.Errorf("detect user home: %w", err)
		}
		base := filepath.Join(home, "Library", "Application Support", "PatchKit", "Apps", slug)
		return NewLayout(platform, slug, base), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return Layout{}, fmt.Errorf("locate runner executable: %w", err)
	}
	return NewLayout(platform, slug, filepath.Dir(exe)), nil
}

// NewLayout builds a layout rooted at base. It is a pure function of its
// inputs; ResolveLayout supplies the platform-appropriate base.
func NewLayout(platform, slug, base string) Layout {
	var installDir, patcherDir string
	if platform == "darwin" {
		installDir = filepath.Join(base, "Data")
		patcherDir = filepath.Join(base, "Patcher")
	} else {
		installDir = filepath.Join(base, "app")
		patcherDir = filepath.Join(base, "Patcher")
	}
	return Layout{
		Platform:    platform,
		Slug:        slug,
		InstallDir:  installDir,
		PatcherDir:  patcherDir,
		VersionFile: filepath.Join(patcherDir, versionFileName),
		LedgerFile:  filepath.Join(patcherDir, ledgerFileName),
		LogsDir:     filepath.Join(patcherDir, "logs"),
	}
}

// CurrentPlatform returns the running platform identifier used for layout
// resolution.
func CurrentPlatform() string {
	return runtime.GOOS
}

// EnsureDirs creates the install and patcher directories.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.InstallDir, l.PatcherDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
