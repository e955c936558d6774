// Where: internal/command/sync.go
// What: Sync command handler.
// Why: Resolve config, wire the pipeline, and report the run outcome.
package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/quantfeed/edgesync/internal/config"
	"github.com/quantfeed/edgesync/internal/fetcher"
	"github.com/quantfeed/edgesync/internal/pipeline"
	"github.com/quantfeed/edgesync/internal/publisher"
	"github.com/quantfeed/edgesync/internal/ui"
)

// runSync executes the full pipeline for every configured endpoint.
func runSync(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	path := cli.Config
	if path == "" {
		path = config.ConfigPath()
	}

	if !cli.Sync.Force {
		payload, err := os.ReadFile(path)
		if err != nil {
			return exitWithError(out, err)
		}
		if err := config.ValidateDocument(payload); err != nil {
			return exitWithError(out, err)
		}
	}

	loadConfig := deps.Sync.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}
	cfg, err := loadConfig(path, cli.EnvFlag)
	if err != nil {
		return exitWithError(out, err)
	}
	if !cli.Sync.Force {
		if err := cfg.Validate(); err != nil {
			return exitWithError(out, err)
		}
	}
	if cli.Sync.Output != "" {
		cfg.OutputDir = cli.Sync.Output
	}

	console.Header("🚀", fmt.Sprintf("Syncing %d endpoint(s) [%s]", len(cfg.Endpoints), cfg.Env))

	runner := pipeline.Runner{
		Fetcher:   newFetcher(deps, cfg, console),
		Publisher: newPublisher(deps, cfg, console),
		OutputDir: cfg.OutputDir,
		Retry:     retryPolicy(cli),
		Verify:    !cli.Sync.NoVerify,
		Console:   console,
	}

	ctx := context.Background()
	if cfg.Mirror.Bucket != "" {
		if client, err := newMirrorClient(ctx, deps, cfg); err != nil {
			console.Warn(fmt.Sprintf("mirror disabled: %v", err))
		} else {
			runner.Mirror = publisher.Mirror{
				Client: client,
				Bucket: cfg.Mirror.Bucket,
				Prefix: cfg.Mirror.Prefix,
			}
		}
	}

	outcome := runner.Run(ctx, cfg.Endpoints)

	console.Header("📦", "Sync summary")
	console.Item("Endpoints", outcome.Total)
	console.Item("Succeeded", outcome.Succeeded)
	console.Item("Failed", outcome.Failed)
	for _, record := range outcome.Records {
		console.ItemPlain(record.PublicURL)
	}

	if outcome.Err != nil {
		return exitWithError(out, outcome.Err)
	}
	console.Success("Sync complete")
	return 0
}

func retryPolicy(cli CLI) pipeline.Policy {
	if cli.Sync.NoRetry {
		return pipeline.Policy{MaxAttempts: 1}
	}
	return pipeline.DefaultPolicy()
}

func newFetcher(deps Dependencies, cfg config.Config, console *ui.Console) pipeline.Fetcher {
	if deps.Sync.NewFetcher != nil {
		return deps.Sync.NewFetcher(cfg, console)
	}
	client := fetcher.New(cfg.API.BaseURL, cfg.API.Token)
	client.Console = console
	return client
}

func newPublisher(deps Dependencies, cfg config.Config, console *ui.Console) pipeline.Publisher {
	if deps.Sync.NewPublisher != nil {
		return deps.Sync.NewPublisher(cfg, console)
	}
	kv := publisher.New(publisher.CdnTarget{
		Token:        cfg.CDN.Token,
		AccountID:    cfg.CDN.AccountID,
		NamespaceID:  cfg.CDN.NamespaceID,
		PublicDomain: cfg.CDN.PublicDomain,
	})
	if cfg.CDN.APIEndpoint != "" {
		kv.APIEndpoint = cfg.CDN.APIEndpoint
	}
	kv.Console = console
	return kv
}

func newMirrorClient(ctx context.Context, deps Dependencies, cfg config.Config) (publisher.S3API, error) {
	if deps.Sync.NewMirror != nil {
		return deps.Sync.NewMirror(ctx, cfg)
	}
	return publisher.NewS3Client(ctx, cfg.Mirror.Endpoint)
}
