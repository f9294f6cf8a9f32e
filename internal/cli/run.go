package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"patchrun/internal/install"
	"patchrun/internal/launch"
	"patchrun/internal/logx"
	"patchrun/internal/patchkit"
	"patchrun/internal/runner"
	"patchrun/internal/tui"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check for updates, install them, and launch the application",
		RunE:  runRun,
	}
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	logger, closer, err := logx.New(env.Layout.LogsDir)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("runner started, slug %s", env.Layout.Slug)

	r := &runner.Runner{
		Credential: env.Credential,
		Transport:  patchkit.NewClient(env.Config.API.BaseURL, env.Config.API.TestURLs, logger.Printf),
		Spawner: launch.ProcessSpawner{
			Platform: install.CurrentPlatform(),
			WorkDir:  env.ExeDir,
			Logf:     logger.Printf,
		},
		Install: install.NewManager(env.Layout, logger.Printf),
		Logf:    logger.Printf,
	}

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress)
	if mode == tui.ModePlain {
		r.Reporter = &tui.PlainReporter{Out: cmd.ErrOrStderr()}
		if err := r.Run(ctx); err != nil {
			logger.Printf("runner error: %v", err)
			return err
		}
		return nil
	}

	model := tui.NewRunnerModel(env.displayTitle())
	return tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
		r.Reporter = tui.NewReporter(send)
		if err := r.Run(ctx); err != nil {
			logger.Printf("runner error: %v", err)
			send(tui.ErrorMsg{Err: err})
		}
	})
}
