// Package runner sequences the end-to-end check, update and launch workflow:
// connectivity check, version lookup, conditional download and reinstall, and
// manifest-driven launch of the installed executable.
package runner

import (
	"context"
	"os"
	"path/filepath"

	"patchrun/internal/install"
	"patchrun/internal/launch"
	"patchrun/internal/manifest"
	"patchrun/internal/patchkit"
	"patchrun/internal/secret"
)

const (
	packageFileName  = "launcher.zip"
	manifestFileName = "patcher.manifest"
	lockFileName     = "launcher.lock"
)

// Transport is the distribution-service collaborator; patchkit.Client is the
// production implementation.
type Transport interface {
	CheckConnection(ctx context.Context) bool
	FetchAppInfo(ctx context.Context, patcherSecret string) (patchkit.AppInfo, error)
	LatestVersion(ctx context.Context, patcherSecret string) (string, error)
	ContentURLs(ctx context.Context, patcherSecret, versionID string) ([]patchkit.ContentURL, error)
	Download(ctx context.Context, url, dest string, progress func(patchkit.Progress)) error
}

// Reporter receives status, progress and completion notifications for the
// front end. Implementations must not block materially: DownloadProgress is
// invoked once per received chunk on the worker goroutine.
type Reporter interface {
	Status(message string)
	DownloadProgress(fraction float64, speedKBps float64)
	Progress(fraction float64)
}

// Runner drives one complete run. It executes sequentially on the calling
// goroutine and blocks on each step; there is no parallel fan-out, no
// cancellation beyond ctx, and no retry.
type Runner struct {
	Credential secret.Credential
	Transport  Transport
	Spawner    launch.Spawner
	Install    *install.Manager
	Reporter   Reporter
	Logf       func(format string, v ...any)
}

func (r *Runner) logf(format string, v ...any) {
	if r.Logf != nil {
		r.Logf(format, v...)
	}
}

// Run executes the workflow:
//
//	CheckConnectivity → FetchLatestVersion → CompareVersion →
//	  update:     Download → RemoveOldFiles → Extract → PersistVersion → Launch
//	  up-to-date: Launch
//
// Any failure aborts the remaining steps and is returned as a tagged *Error.
func (r *Runner) Run(ctx context.Context) error {
	layout := r.Install.Layout()

	r.Reporter.Status("Checking network connection...")
	if !r.Transport.CheckConnection(ctx) {
		return fail(KindNetwork, "no internet connection")
	}
	r.logf("network connection established")

	patcherSecret := r.resolvePatcherSecret(ctx)

	r.Reporter.Status("Fetching latest version...")
	version, err := r.Transport.LatestVersion(ctx, patcherSecret)
	if err != nil {
		return fail(KindNetwork, "fetch latest version: %w", err)
	}
	r.logf("latest version: %s", version)

	needsUpdate, err := r.Install.NeedsUpdate(version, patcherSecret)
	if err != nil {
		return fail(KindFileSystem, "compare installed version: %w", err)
	}

	if needsUpdate {
		installed, err := r.update(ctx, patcherSecret, version)
		if err != nil {
			return err
		}
		if !installed {
			// The service listed no content for this version; nothing to
			// install and nothing to launch.
			r.Reporter.Status("No content available for this version")
			return nil
		}
	} else {
		r.logf("installed version %s is current, skipping download", version)
	}

	return r.resolveAndLaunch(ctx, layout)
}

// resolvePatcherSecret prefers the secret from the server-side app-info
// lookup over the one embedded in the credential file, so the service can
// rotate secrets without re-issuing credentials. A failed lookup falls back
// to the embedded secret.
func (r *Runner) resolvePatcherSecret(ctx context.Context) string {
	info, err := r.Transport.FetchAppInfo(ctx, r.Credential.PatcherSecret)
	if err != nil {
		r.logf("app info lookup failed, using embedded patcher secret: %v", err)
		return r.Credential.PatcherSecret
	}
	if info.PatcherSecret != "" && info.PatcherSecret != r.Credential.PatcherSecret {
		r.logf("using rotated patcher secret from app info")
		return info.PatcherSecret
	}
	return r.Credential.PatcherSecret
}

// update downloads and installs the new version. It reports false with a nil
// error when the service lists no content for the version.
func (r *Runner) update(ctx context.Context, patcherSecret, version string) (bool, error) {
	layout := r.Install.Layout()
	lockPath := filepath.Join(layout.PatcherDir, lockFileName)

	r.Reporter.Status("Getting download URLs...")
	urls, err := r.Transport.ContentURLs(ctx, patcherSecret, version)
	if err != nil {
		return false, fail(KindNetwork, "fetch content urls: %w", err)
	}
	if len(urls) == 0 {
		r.logf("no content urls found for version %s", version)
		return false, nil
	}
	content := urls[0]
	r.logf("found content url: %s", content.URL)

	if err := layout.EnsureDirs(); err != nil {
		return false, fail(KindFileSystem, "prepare install directories: %w", err)
	}

	locked, err := install.IsLocked(lockPath)
	if err != nil {
		return false, fail(KindLockfile, "check lockfile: %w", err)
	}
	if locked {
		return false, fail(KindLockfile, "another process is updating this installation")
	}
	if err := install.CreateLock(lockPath); err != nil {
		return false, fail(KindLockfile, "%w", err)
	}
	defer func() {
		if err := install.ReleaseLock(lockPath); err != nil {
			r.logf("release lockfile: %v", err)
		}
	}()

	r.Reporter.Status("Downloading launcher...")
	archivePath := filepath.Join(layout.PatcherDir, packageFileName)
	err = r.Transport.Download(ctx, content.URL, archivePath, func(p patchkit.Progress) {
		fraction := 0.0
		if p.TotalBytes > 0 {
			fraction = float64(p.Bytes) / float64(p.TotalBytes)
		}
		r.Reporter.DownloadProgress(fraction, p.SpeedKBps)
	})
	if err != nil {
		return false, fail(KindNetwork, "download package: %w", err)
	}
	r.logf("download complete: %s", archivePath)

	r.Reporter.Status("Removing old files...")
	if err := r.Install.RemoveTracked(); err != nil {
		return false, fail(KindFileSystem, "remove old files: %w", err)
	}

	r.Reporter.Status("Extracting launcher...")
	if err := r.Install.ExtractPackage(archivePath, layout.PatcherDir); err != nil {
		return false, fail(KindFileSystem, "extract package: %w", err)
	}
	r.logf("extraction complete: %s", layout.PatcherDir)

	if err := r.Install.SaveVersion(version, patcherSecret); err != nil {
		return false, fail(KindFileSystem, "persist version: %w", err)
	}

	if err := os.Remove(archivePath); err != nil {
		r.logf("remove downloaded archive: %v", err)
	}
	return true, nil
}

// resolveAndLaunch reads the manifest from the patcher dir, binds the runtime
// variables and starts the target. Both the update and up-to-date paths use
// the same layout, so they always resolve the same manifest location.
func (r *Runner) resolveAndLaunch(ctx context.Context, layout install.Layout) error {
	manifestPath := filepath.Join(layout.PatcherDir, manifestFileName)
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return fail(KindManifest, "read manifest: %w", err)
	}

	resolver, err := manifest.Parse(content)
	if err != nil {
		return fail(KindManifest, "%w", err)
	}

	resolver.SetVariable("exedir", layout.PatcherDir)
	resolver.SetVariable("installdir", layout.InstallDir)
	resolver.SetVariable("secret", secret.EncodeForTransport(r.Credential.AppSecret))
	resolver.SetVariable("lockfile", filepath.Join(layout.PatcherDir, lockFileName))
	resolver.SetVariable("network-status", "online")

	target, err := resolver.Target()
	if err != nil {
		return fail(KindManifest, "%w", err)
	}
	args, err := resolver.Arguments()
	if err != nil {
		return fail(KindManifest, "%w", err)
	}

	r.Reporter.Status("Launching...")
	r.logf("launching %s with arguments %v", target, args)
	if err := r.Spawner.Launch(ctx, target, args); err != nil {
		return fail(KindOther, "launch: %w", err)
	}

	r.Reporter.Progress(1.0)
	r.logf("runner completed successfully")
	return nil
}
