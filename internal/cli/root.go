package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	credentialFlag string
	outputJSON     bool
	noProgress     bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patchrun",
		Short: "Update-and-launch agent for PatchKit-distributed applications",
		// Running the bare binary performs the full check/update/launch
		// workflow, matching double-click behavior.
		RunE: runRun,
	}

	cmd.PersistentFlags().StringVar(&credentialFlag, "credential", "", "Path to the credential file (overrides config)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress output")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newCleanCmd())

	return cmd
}
