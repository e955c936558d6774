// Where: internal/pipeline/pipeline.go
// What: Fetch → render → persist → publish orchestration.
// Why: Keep the CLI command thin while hosting the run logic here.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/quantfeed/edgesync/internal/config"
	"github.com/quantfeed/edgesync/internal/module"
	"github.com/quantfeed/edgesync/internal/publisher"
	"github.com/quantfeed/edgesync/internal/ui"
)

// Fetcher retrieves one JSON document from the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context, sourcePath string) (json.RawMessage, error)
}

// Publisher pushes staged modules to the CDN and probes public access.
type Publisher interface {
	Publish(ctx context.Context, upload publisher.Upload) (publisher.DeploymentRecord, error)
	VerifyPublic(ctx context.Context, url string) publisher.AccessCheck
}

// Runner executes the sync pipeline for a list of endpoints.
type Runner struct {
	Fetcher   Fetcher
	Publisher Publisher
	Mirror    publisher.Mirror
	OutputDir string
	Retry     Policy
	Verify    bool
	Console   *ui.Console
}

// Outcome aggregates one pipeline invocation. Err holds the first fatal
// error; endpoints after it are not attempted and count toward neither
// Succeeded nor Failed.
type Outcome struct {
	Total     int
	Succeeded int
	Failed    int
	Records   []publisher.DeploymentRecord
	Err       error
}

// Run processes the endpoints in order, aborting on the first fatal
// error. Partial artifacts already on disk are left in place for
// diagnosis.
func (r Runner) Run(ctx context.Context, endpoints []config.EndpointSpec) Outcome {
	outcome := Outcome{Total: len(endpoints)}
	console := r.console()

	var archived []publisher.Upload
	for _, endpoint := range endpoints {
		console.Header("🌐", fmt.Sprintf("Syncing %s", endpoint.Name))

		record, upload, err := r.runEndpoint(ctx, endpoint)
		if err != nil {
			outcome.Failed++
			outcome.Err = err
			console.Warn(fmt.Sprintf("%s: %v", endpoint.Name, err))
			break
		}

		outcome.Succeeded++
		outcome.Records = append(outcome.Records, record)
		archived = append(archived, upload)
		console.Success(fmt.Sprintf("%s → %s (%d bytes)", endpoint.Name, record.PublicURL, record.ByteSize))
	}

	if len(archived) > 0 {
		r.Mirror.Archive(ctx, archived, console.Out)
	}
	return outcome
}

// runEndpoint walks one endpoint through every stage. Stages are data
// dependent: each consumes the previous stage's output.
func (r Runner) runEndpoint(ctx context.Context, endpoint config.EndpointSpec) (publisher.DeploymentRecord, publisher.Upload, error) {
	var data json.RawMessage
	err := r.Retry.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		data, fetchErr = r.Fetcher.Fetch(ctx, endpoint.SourcePath)
		return fetchErr
	})
	if err != nil {
		return publisher.DeploymentRecord{}, publisher.Upload{}, err
	}

	content, err := module.Render(data, endpoint.Name)
	if err != nil {
		return publisher.DeploymentRecord{}, publisher.Upload{}, err
	}

	destination := filepath.Join(r.OutputDir, endpoint.OutputFile)
	if err := module.Persist(destination, content); err != nil {
		return publisher.DeploymentRecord{}, publisher.Upload{}, err
	}

	upload := publisher.Upload{Key: endpoint.OutputFile, SourcePath: destination}
	var record publisher.DeploymentRecord
	err = r.Retry.Do(ctx, func(ctx context.Context) error {
		var publishErr error
		record, publishErr = r.Publisher.Publish(ctx, upload)
		return publishErr
	})
	if err != nil {
		return publisher.DeploymentRecord{}, publisher.Upload{}, err
	}

	if r.Verify {
		check := r.Publisher.VerifyPublic(ctx, record.PublicURL)
		if check.OK {
			r.console().Item("Verified", fmt.Sprintf("%d bytes, %s", check.ByteSize, check.ContentType))
		} else {
			// Advisory only: the publish stands regardless.
			r.console().Warn(fmt.Sprintf("%s not publicly readable yet: %s", record.PublicURL, check.Detail))
		}
	}

	return record, upload, nil
}

func (r Runner) console() *ui.Console {
	if r.Console != nil {
		return r.Console
	}
	return ui.New(nil)
}
