package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"patchrun/internal/config"
	"patchrun/internal/install"
	"patchrun/internal/secret"
)

const configFileName = "patchrun.yaml"

// runnerEnv bundles everything the commands need: configuration, decoded
// credential and the resolved install layout.
type runnerEnv struct {
	ExeDir     string
	Config     config.Config
	Credential secret.Credential
	Layout     install.Layout
}

// loadEnv locates the runner executable, loads the optional configuration
// next to it, decodes the credential file and resolves the install layout.
func loadEnv() (runnerEnv, error) {
	exe, err := os.Executable()
	if err != nil {
		return runnerEnv{}, fmt.Errorf("locate runner executable: %w", err)
	}
	exeDir := filepath.Dir(exe)

	cfg, err := config.Load(filepath.Join(exeDir, configFileName))
	if err != nil {
		return runnerEnv{}, err
	}

	credPath := credentialFlag
	if credPath == "" {
		credPath = filepath.Join(exeDir, cfg.Credential.File)
	}
	cred, err := readCredential(credPath, cfg.Credential.JSONFormat)
	if err != nil {
		return runnerEnv{}, err
	}

	layout, err := install.ResolveLayout(install.CurrentPlatform(), cred.Slug())
	if err != nil {
		return runnerEnv{}, err
	}

	return runnerEnv{
		ExeDir:     exeDir,
		Config:     cfg,
		Credential: cred,
		Layout:     layout,
	}, nil
}

func readCredential(path string, jsonFormat bool) (secret.Credential, error) {
	file, err := os.Open(path)
	if err != nil {
		return secret.Credential{}, fmt.Errorf("open credential file: %w", err)
	}
	defer file.Close()

	if jsonFormat {
		cred, err := secret.ReadCredentialJSON(file)
		if err != nil {
			return secret.Credential{}, fmt.Errorf("decode credential file %s: %w", path, err)
		}
		return cred, nil
	}
	cred, err := secret.ReadCredential(file)
	if err != nil {
		return secret.Credential{}, fmt.Errorf("decode credential file %s: %w", path, err)
	}
	return cred, nil
}

// displayTitle picks the TUI title: credential display name first, then the
// configured one.
func (e runnerEnv) displayTitle() string {
	if e.Credential.DisplayName != "" {
		return e.Credential.DisplayName
	}
	return e.Config.App.DisplayName
}
