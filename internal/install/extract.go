package install

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// bundleExecDir marks the executable subdirectory of a darwin application
// bundle; files under it must carry executable permission bits.
const bundleExecDir = "Contents/MacOS"

// ExtractPackage extracts the downloaded archive into dest, recording every
// created path in the ledger in creation order. The in-memory ledger is
// cleared first and persisted only after a fully successful extraction;
// files already written by a failed extraction are not rolled back.
func (m *Manager) ExtractPackage(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open package: %w", err)
	}
	defer reader.Close()

	m.tracked = m.tracked[:0]

	for _, file := range reader.File {
		target := filepath.Join(dest, filepath.FromSlash(file.Name))
		rel, err := filepath.Rel(dest, target)
		if err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("package entry %q escapes destination", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
			m.track(target)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("prepare file %s: %w", target, err)
		}
		if err := m.writeEntry(file, target); err != nil {
			return err
		}
		m.track(target)
		m.logf("extracted %s", target)
	}

	if err := m.saveLedger(); err != nil {
		return err
	}
	return nil
}

func (m *Manager) writeEntry(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("open package entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}

	if m.layout.Platform == "darwin" && strings.Contains(filepath.ToSlash(target), bundleExecDir) {
		if err := os.Chmod(target, 0o755); err != nil {
			return fmt.Errorf("set executable bits on %s: %w", target, err)
		}
	}
	return nil
}
