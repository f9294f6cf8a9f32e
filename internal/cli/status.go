package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"patchrun/internal/install"
)

type statusReport struct {
	Slug          string `json:"slug"`
	Installed     bool   `json:"installed"`
	Version       string `json:"version,omitempty"`
	PatcherSecret string `json:"patcher_secret,omitempty"`
	InstallDir    string `json:"install_dir"`
	PatcherDir    string `json:"patcher_dir"`
	TrackedFiles  int    `json:"tracked_files"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the installed version and directory layout",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	mgr := install.NewManager(env.Layout, nil)
	current, installed, err := mgr.CurrentVersion()
	if err != nil {
		return err
	}

	report := statusReport{
		Slug:         env.Layout.Slug,
		Installed:    installed,
		InstallDir:   env.Layout.InstallDir,
		PatcherDir:   env.Layout.PatcherDir,
		TrackedFiles: len(mgr.Tracked()),
	}
	if installed {
		report.Version = current.Version
		report.PatcherSecret = current.PatcherSecret
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "slug:\t%s\n", report.Slug)
	if installed {
		fmt.Fprintf(w, "version:\t%s\n", report.Version)
	} else {
		fmt.Fprintf(w, "version:\tnot installed\n")
	}
	fmt.Fprintf(w, "install dir:\t%s\n", report.InstallDir)
	fmt.Fprintf(w, "patcher dir:\t%s\n", report.PatcherDir)
	fmt.Fprintf(w, "tracked files:\t%d\n", report.TrackedFiles)
	return w.Flush()
}
