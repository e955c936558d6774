// Where: internal/publisher/kv.go
// What: Publish generated modules to the CDN key-value namespace.
// Why: Make modules readable from the edge under their file name.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/quantfeed/edgesync/internal/errs"
	"github.com/quantfeed/edgesync/internal/ui"
)

const (
	// DefaultAPIEndpoint is the CDN write API base. Overridable for tests
	// and self-hosted gateways.
	DefaultAPIEndpoint = "https://api.cloudflare.com/client/v4"

	// DefaultTimeout bounds a single upload or verification request.
	DefaultTimeout = 10 * time.Second

	moduleContentType = "application/javascript"
)

// KVPublisher uploads module files to a remote key-value namespace.
type KVPublisher struct {
	Target      CdnTarget
	APIEndpoint string
	HTTPClient  *http.Client
	Console     *ui.Console
}

// New creates a publisher for the given CDN target.
func New(target CdnTarget) *KVPublisher {
	return &KVPublisher{
		Target:      target,
		APIEndpoint: DefaultAPIEndpoint,
		HTTPClient:  &http.Client{Timeout: DefaultTimeout},
	}
}

// kvResponse is the CDN write API response envelope.
type kvResponse struct {
	Success bool      `json:"success"`
	Errors  []kvError `json:"errors"`
}

type kvError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Publish PUTs the full module content under upload.Key. The target is
// validated before any I/O; a missing source file is a NotFound error,
// which signals a stage-ordering bug rather than a remote failure.
func (p *KVPublisher) Publish(ctx context.Context, upload Upload) (DeploymentRecord, error) {
	if err := p.validateTarget(); err != nil {
		return DeploymentRecord{}, err
	}

	content, err := os.ReadFile(upload.SourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return DeploymentRecord{}, errs.New(errs.KindNotFound, "module file %s does not exist", upload.SourcePath)
		}
		return DeploymentRecord{}, errs.Wrap(errs.KindFilesystem, err, "read module file %s", upload.SourcePath)
	}

	url := fmt.Sprintf("%s/accounts/%s/storage/kv/namespaces/%s/values/%s",
		p.apiEndpoint(), p.Target.AccountID, p.Target.NamespaceID, upload.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(content))
	if err != nil {
		return DeploymentRecord{}, errs.Wrap(errs.KindConfiguration, err, "build request for key %s", upload.Key)
	}
	req.Header.Set("Authorization", "Bearer "+p.Target.Token)
	req.Header.Set("Content-Type", moduleContentType)

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return DeploymentRecord{}, errs.Wrap(errs.KindNetwork, err, "upload of key %s failed", upload.Key)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DeploymentRecord{}, errs.Wrap(errs.KindNetwork, err, "read upload response for key %s", upload.Key)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return DeploymentRecord{}, errs.WithStatus(errs.KindAuthentication, resp.StatusCode,
			"CDN rejected the token for key %s", upload.Key)
	case http.StatusForbidden:
		return DeploymentRecord{}, errs.WithStatus(errs.KindAuthorization, resp.StatusCode,
			"token lacks permission to write key %s", upload.Key)
	}

	var parsed kvResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return DeploymentRecord{}, errs.WithStatus(errs.KindRemoteRejection, resp.StatusCode,
			"unexpected CDN response for key %s: %s", upload.Key, string(body))
	}
	if !parsed.Success {
		return DeploymentRecord{}, errs.WithStatus(errs.KindRemoteRejection, resp.StatusCode,
			"CDN rejected key %s: %s", upload.Key, formatKVErrors(parsed.Errors))
	}

	return DeploymentRecord{
		Key:       upload.Key,
		ByteSize:  len(content),
		PublicURL: fmt.Sprintf("https://%s/%s", p.Target.PublicDomain, upload.Key),
		Succeeded: true,
	}, nil
}

// PublishAll pushes each upload independently: one failure is recorded
// and the sweep continues. Uploads run sequentially; callers must not
// pass duplicate keys.
func (p *KVPublisher) PublishAll(ctx context.Context, uploads []Upload) BatchOutcome {
	outcome := BatchOutcome{Total: len(uploads)}
	for _, upload := range uploads {
		record, err := p.Publish(ctx, upload)
		if err != nil {
			outcome.Failed++
			outcome.Results = append(outcome.Results, Result{Upload: upload, Err: err})
			p.console().Warn(fmt.Sprintf("publish %s: %v", upload.Key, err))
			continue
		}
		outcome.Succeeded++
		outcome.Results = append(outcome.Results, Result{Upload: upload, Record: record})
		p.console().Success(fmt.Sprintf("published %s (%d bytes)", upload.Key, record.ByteSize))
	}
	return outcome
}

// VerifyPublic probes the published URL. The check is advisory: it never
// returns an error and must not change an already-returned record.
func (p *KVPublisher) VerifyPublic(ctx context.Context, url string) AccessCheck {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return AccessCheck{Detail: err.Error()}
	}

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return AccessCheck{Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AccessCheck{Detail: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return AccessCheck{Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return AccessCheck{
		OK:          true,
		ByteSize:    len(body),
		ContentType: resp.Header.Get("Content-Type"),
	}
}

func (p *KVPublisher) validateTarget() error {
	switch {
	case p.Target.Token == "":
		return errs.New(errs.KindConfiguration, "CDN API token is not set")
	case p.Target.AccountID == "":
		return errs.New(errs.KindConfiguration, "CDN account ID is not set")
	case p.Target.NamespaceID == "":
		return errs.New(errs.KindConfiguration, "CDN namespace ID is not set")
	case p.Target.PublicDomain == "":
		return errs.New(errs.KindConfiguration, "CDN public domain is not set")
	}
	return nil
}

func (p *KVPublisher) apiEndpoint() string {
	if p.APIEndpoint != "" {
		return p.APIEndpoint
	}
	return DefaultAPIEndpoint
}

func (p *KVPublisher) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (p *KVPublisher) console() *ui.Console {
	if p.Console != nil {
		return p.Console
	}
	return ui.New(nil)
}

func formatKVErrors(kvErrors []kvError) string {
	if len(kvErrors) == 0 {
		return "no error detail provided"
	}
	var buf bytes.Buffer
	for i, item := range kvErrors {
		if i > 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "[%d] %s", item.Code, item.Message)
	}
	return buf.String()
}
