package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/brevis-network/pico-proving-service/assets"
	"github.com/brevis-network/pico-proving-service/dbutil"
	"github.com/brevis-network/pico-proving-service/dockerutil"
	"github.com/brevis-network/pico-proving-service/envfile"
	"github.com/brevis-network/pico-proving-service/interfaces"
	"github.com/brevis-network/pico-proving-service/topology"
)

// File locations relative to the deployment directory.
const (
	EnvFileName     = ".env"
	EnvTemplateName = ".env.example"
	AssetDirName    = "downloads"
	ComposeFileName = "docker-compose.generated.yml"
	DataDirName     = "data"
)

// Bootstrapper runs the stage sequence for one deployment variant.
type Bootstrapper struct {
	Variant  topology.Variant
	WorkDir  string
	Log      *slog.Logger
	Confirm  interfaces.Confirmer
	Docker   *dockerutil.Client
	Fetcher  *assets.Fetcher
	Manifest assets.Manifest

	// EnsureSchema is the proof-store provisioning hook, replaceable in
	// tests. Defaults to dbutil.EnsureSchema.
	EnsureSchema func(ctx context.Context, databaseURL string, log *slog.Logger) error
}

// New wires a Bootstrapper for the variant with the production dependencies.
func New(variant topology.Variant, workDir string, confirmer interfaces.Confirmer, log *slog.Logger) (*Bootstrapper, error) {
	if err := variant.Validate(); err != nil {
		return nil, err
	}

	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve deployment directory: %w", err)
	}

	runner := &dockerutil.ExecRunner{Log: log}

	return &Bootstrapper{
		Variant: variant,
		WorkDir: absWorkDir,
		Log:     log,
		Confirm: confirmer,
		Docker:  &dockerutil.Client{Runner: runner, Log: log},
		Fetcher: &assets.Fetcher{
			Factory: &assets.SourceFactory{Runner: runner, Log: log},
			Log:     log,
		},
		Manifest:     assets.DefaultManifest(filepath.Join(absWorkDir, AssetDirName)),
		EnsureSchema: dbutil.EnsureSchema,
	}, nil
}

// Run executes the full stage sequence. The first failing gate halts the run;
// completed work is left in place for the next attempt.
func (b *Bootstrapper) Run(ctx context.Context) error {
	b.Log.Info("Bootstrapping deployment",
		slog.String("variant", b.Variant.Name),
		slog.String("dir", b.WorkDir))

	compose, err := b.checkPrerequisites(ctx)
	if err != nil {
		return err
	}

	config, err := b.bootstrapEnvironment()
	if err != nil {
		return err
	}

	if err := b.hardwareGate(ctx); err != nil {
		return err
	}

	if err := b.provisionArtifacts(ctx); err != nil {
		return err
	}

	if err := b.imageGate(ctx); err != nil {
		return err
	}

	dataDir, err := b.provisionDataDir()
	if err != nil {
		return err
	}

	if err := b.provisionProofStore(ctx, config); err != nil {
		return err
	}

	return b.launch(ctx, compose, dataDir)
}

func (b *Bootstrapper) checkPrerequisites(ctx context.Context) (dockerutil.ComposeCommand, error) {
	if err := b.Docker.CheckDocker(); err != nil {
		return nil, err
	}

	compose, err := b.Docker.SelectCompose(ctx)
	if err != nil {
		return nil, err
	}

	b.Log.Info("Prerequisites satisfied", slog.String("compose", compose.String()))
	return compose, nil
}

func (b *Bootstrapper) bootstrapEnvironment() (map[string]string, error) {
	envPath := filepath.Join(b.WorkDir, EnvFileName)
	templatePath := filepath.Join(b.WorkDir, EnvTemplateName)

	created, err := envfile.Bootstrap(envPath, templatePath, b.Log)
	if err != nil {
		return nil, err
	}

	if created {
		ok, err := b.Confirm.Confirm(fmt.Sprintf(
			"Created %s with default values. Review and adjust it now, then continue", envPath))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("operator declined to continue after configuration review, edit %s and re-run", envPath)
		}
	}

	config, err := envfile.Parse(envPath)
	if err != nil {
		return nil, err
	}
	for _, warning := range envfile.Validate(config) {
		b.Log.Warn("Configuration: " + warning)
	}

	return config, nil
}

func (b *Bootstrapper) hardwareGate(ctx context.Context) error {
	if !b.Variant.GPU {
		return nil
	}

	if err := b.Docker.ProbeGPU(ctx); err == nil {
		b.Log.Info("GPU access verified through the container runtime")
		return nil
	} else {
		b.Log.Warn("Could not verify GPU access through the container runtime", "err", err)
	}

	// The probe produces false negatives on some hosts, so failure is
	// advisory and the operator has the final say.
	ok, err := b.Confirm.Confirm("GPU probe failed. Continue without verified GPU access")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: GPU probe failed and operator declined to continue, check the NVIDIA container toolkit installation", interfaces.ErrHardwareUnavailable)
	}

	b.Log.Warn("Continuing without verified GPU access")
	return nil
}

func (b *Bootstrapper) provisionArtifacts(ctx context.Context) error {
	missing := b.Fetcher.Missing(b.Manifest)
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, entry := range missing {
			names = append(names, entry.Name)
		}

		ok, err := b.Confirm.Confirm(fmt.Sprintf(
			"About to download %d verification-key artifacts (%s, several GiB total). Continue",
			len(missing), strings.Join(names, ", ")))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("operator declined the artifact download")
		}
	}

	return b.Fetcher.Fetch(ctx, b.Manifest)
}

func (b *Bootstrapper) imageGate(ctx context.Context) error {
	var notLoaded []string
	for _, ref := range []string{b.Variant.EngineImage, b.Variant.GnarkImage} {
		if !b.Docker.ImagePresent(ctx, ref) {
			notLoaded = append(notLoaded, ref)
		}
	}

	if len(notLoaded) > 0 {
		return fmt.Errorf("%w: %s not found in the local image store, load the distributed image archive first: docker load -i <archive>.tar",
			interfaces.ErrImageNotLoaded, strings.Join(notLoaded, ", "))
	}

	b.Log.Info("Service images present in the local store")
	return nil
}

// provisionDataDir ensures the persistent data directory one level above the
// deployment directory exists and reports its resolved path.
func (b *Bootstrapper) provisionDataDir() (string, error) {
	dataDir := filepath.Clean(filepath.Join(b.WorkDir, "..", DataDirName))

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create data directory: %w", err)
	}

	b.Log.Info("Persistent data directory ready", slog.String("path", dataDir))
	return dataDir, nil
}

func (b *Bootstrapper) provisionProofStore(ctx context.Context, config map[string]string) error {
	databaseURL := config[envfile.KeyDatabaseURL]
	if !dbutil.IsPostgres(databaseURL) {
		// sqlite default: the engine owns its database file inside the data
		// directory, nothing to provision here.
		return nil
	}
	return b.EnsureSchema(ctx, databaseURL, b.Log)
}

func (b *Bootstrapper) launch(ctx context.Context, compose dockerutil.ComposeCommand, dataDir string) error {
	composePath := filepath.Join(b.WorkDir, ComposeFileName)

	rendered, err := b.Variant.Render(topology.Paths{
		EnvFile:  filepath.Join(b.WorkDir, EnvFileName),
		DataDir:  dataDir,
		AssetDir: filepath.Join(b.WorkDir, AssetDirName),
	})
	if err != nil {
		return err
	}

	// The compose file is a generated artifact, unlike the operator-owned
	// environment file: rewrite it only when the rendered content changed.
	existing, err := os.ReadFile(composePath)
	if err != nil || !bytes.Equal(existing, rendered) {
		if err := os.WriteFile(composePath, rendered, 0o644); err != nil {
			return fmt.Errorf("could not write compose file: %w", err)
		}
		b.Log.Info("Wrote compose file", slog.String("path", composePath))
	}

	if err := b.Docker.ComposeUp(ctx, compose, composePath); err != nil {
		b.Log.Error("Service bringup failed",
			slog.String("hint", fmt.Sprintf("inspect logs with: %s -f %s logs", compose, composePath)))
		return err
	}

	b.Log.Info("Deployment is up",
		slog.String("services", topology.EngineService+", "+topology.GnarkService))
	b.Log.Info("Operator commands",
		slog.String("logs", fmt.Sprintf("%s -f %s logs -f", compose, composePath)),
		slog.String("status", fmt.Sprintf("%s -f %s ps", compose, composePath)),
		slog.String("stop", fmt.Sprintf("%s -f %s down", compose, composePath)),
		slog.String("shell", fmt.Sprintf("%s -f %s exec %s /bin/sh", compose, composePath, topology.EngineService)))

	return nil
}
