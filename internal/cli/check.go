package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"patchrun/internal/patchkit"
)

type checkReport struct {
	CredentialOK bool   `json:"credential_ok"`
	Slug         string `json:"slug,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	NetworkOK    bool   `json:"network_ok"`
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the credential file decodes and the service is reachable",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}

	client := patchkit.NewClient(env.Config.API.BaseURL, env.Config.API.TestURLs, nil)
	report := checkReport{
		CredentialOK: true,
		Slug:         env.Credential.Slug(),
		DisplayName:  env.Credential.DisplayName,
		NetworkOK:    client.CheckConnection(ctx),
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "credential: ok (slug %s)\n", report.Slug)
		if report.NetworkOK {
			fmt.Fprintln(cmd.OutOrStdout(), "network: ok")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "network: unreachable")
		}
	}

	if !report.NetworkOK {
		return fmt.Errorf("no reachable distribution endpoint")
	}
	return nil
}
