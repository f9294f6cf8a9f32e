package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"patchrun/internal/install"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the installed files and version state",
		RunE:  runClean,
	}
}

func runClean(cmd *cobra.Command, _ []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	lockPath := filepath.Join(env.Layout.PatcherDir, "launcher.lock")
	locked, err := install.IsLocked(lockPath)
	if err != nil {
		return err
	}
	if locked {
		return fmt.Errorf("another process is using this installation")
	}

	mgr := install.NewManager(env.Layout, nil)
	if err := mgr.RemoveTracked(); err != nil {
		return err
	}

	for _, path := range []string{env.Layout.VersionFile, env.Layout.LedgerFile} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "installation state removed")
	return nil
}
