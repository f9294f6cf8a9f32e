package install

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manager owns the install directory layout, the installed-file ledger and
// the persisted version identity for one application.
type Manager struct {
	layout  Layout
	tracked []string
	logf    func(format string, v ...any)
}

// NewManager constructs a manager for the given layout. The previous ledger
// is loaded eagerly, best-effort: a missing ledger file is not an error.
// logf may be nil.
func NewManager(layout Layout, logf func(format string, v ...any)) *Manager {
	m := &Manager{layout: layout, logf: logf}
	if m.logf == nil {
		m.logf = func(string, ...any) {}
	}
	if err := m.loadLedger(); err != nil {
		m.logf("load installed-file ledger: %v", err)
	}
	return m
}

// Layout returns the directory layout the manager operates on.
func (m *Manager) Layout() Layout {
	return m.layout
}

// Tracked returns the relative paths recorded by the most recent extraction,
// in creation order.
func (m *Manager) Tracked() []string {
	out := make([]string, len(m.tracked))
	copy(out, m.tracked)
	return out
}

func (m *Manager) loadLedger() error {
	file, err := os.Open(m.layout.LedgerFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	m.tracked = m.tracked[:0]
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m.tracked = append(m.tracked, filepath.FromSlash(line))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	m.logf("loaded %d tracked paths", len(m.tracked))
	return nil
}

func (m *Manager) saveLedger() error {
	if err := os.MkdirAll(filepath.Dir(m.layout.LedgerFile), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	var b strings.Builder
	for _, rel := range m.tracked {
		b.WriteString(filepath.ToSlash(rel))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(m.layout.LedgerFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	m.logf("saved %d tracked paths", len(m.tracked))
	return nil
}

// track appends a created path to the in-memory ledger, relative to the
// patcher dir. Paths outside the patcher dir cannot be recorded and are
// logged instead.
func (m *Manager) track(path string) {
	rel, err := filepath.Rel(m.layout.PatcherDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		m.logf("cannot track path outside state dir: %s", path)
		return
	}
	m.tracked = append(m.tracked, rel)
}

// RemoveTracked removes everything recorded by the last extraction, children
// before parents. File removal failures are logged and skipped so one locked
// file cannot block the rest of the update. Directories are removed only when
// empty. An empty ledger is a no-op.
func (m *Manager) RemoveTracked() error {
	if len(m.tracked) == 0 {
		m.logf("no tracked files, skipping cleanup")
		return nil
	}

	m.logf("removing %d tracked paths", len(m.tracked))
	for i := len(m.tracked) - 1; i >= 0; i-- {
		path := filepath.Join(m.layout.PatcherDir, m.tracked[i])
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			entries, err := os.ReadDir(path)
			if err != nil {
				return fmt.Errorf("read directory %s: %w", path, err)
			}
			if len(entries) > 0 {
				m.logf("skipping non-empty directory: %s", path)
				continue
			}
			if err := os.Remove(path); err != nil {
				m.logf("remove directory %s: %v", path, err)
			}
			continue
		}
		if err := os.Remove(path); err != nil {
			m.logf("remove file %s: %v", path, err)
		}
	}
	return nil
}
