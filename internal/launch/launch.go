// Package launch spawns the installed executable resolved from the launch
// manifest, with OS-specific bundle handling.
package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Spawner starts a resolved launch target. The orchestrator depends on this
// interface so tests can substitute a recorder.
type Spawner interface {
	Launch(ctx context.Context, target string, args []string) error
}

// ProcessSpawner launches executables directly, or through /usr/bin/open for
// darwin application bundles.
type ProcessSpawner struct {
	// Platform selects OS-specific behavior; use install.CurrentPlatform().
	Platform string
	// WorkDir is the working directory for the child; when empty the
	// runner executable's directory is used.
	WorkDir string
	Logf    func(format string, v ...any)
}

func (s ProcessSpawner) logf(format string, v ...any) {
	if s.Logf != nil {
		s.Logf(format, v...)
	}
}

// Launch starts the target with the given arguments. Darwin .app bundles go
// through `open --args`; windows children are spawned and left detached;
// everywhere else the child is awaited and a non-zero exit is an error.
func (s ProcessSpawner) Launch(ctx context.Context, target string, args []string) error {
	if s.Platform == "darwin" && filepath.Ext(target) == ".app" {
		return s.launchBundle(ctx, target, args)
	}

	resolved, err := s.resolveTarget(target)
	if err != nil {
		return err
	}

	dir := s.WorkDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate runner executable: %w", err)
		}
		dir = filepath.Dir(exe)
	}

	cmd := exec.CommandContext(ctx, resolved, args...)
	cmd.Dir = dir
	s.logf("launching %s with arguments %v (dir %s)", resolved, args, dir)

	if s.Platform == "windows" {
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", resolved, err)
		}
		return nil
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", resolved, err)
	}
	return nil
}

func (s ProcessSpawner) launchBundle(ctx context.Context, target string, args []string) error {
	openArgs := []string{target}
	if len(args) > 0 {
		openArgs = append(openArgs, "--args")
		openArgs = append(openArgs, args...)
	}
	s.logf("launching bundle via open: %v", openArgs)

	cmd := exec.CommandContext(ctx, "/usr/bin/open", openArgs...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

// resolveTarget produces an absolute path for the target: absolute paths pass
// through, relative paths are resolved against the working directory when
// they exist there, and bare names fall back to PATH lookup.
func (s ProcessSpawner) resolveTarget(target string) (string, error) {
	if filepath.IsAbs(target) {
		return target, nil
	}

	wd, err := os.Getwd()
	if err == nil {
		candidate := filepath.Join(wd, target)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, nil
		}
	}

	resolved, err := exec.LookPath(target)
	if err != nil {
		return "", fmt.Errorf("locate executable %s: %w", target, err)
	}
	return resolved, nil
}
