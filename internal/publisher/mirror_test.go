// Where: internal/publisher/mirror_test.go
// What: Tests for the S3 archive mirror.
// Why: Mirroring must stay best-effort and never abort.
package publisher

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeS3 struct {
	puts    []string
	failKey string
}

func (f *fakeS3) PutObject(_ context.Context, bucket, key string, _ []byte, _ string) error {
	if f.failKey != "" && strings.HasSuffix(key, f.failKey) {
		return errors.New("simulated put failure")
	}
	f.puts = append(f.puts, bucket+"/"+key)
	return nil
}

func TestArchiveContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	bad := filepath.Join(dir, "bad.js")
	for _, path := range []string{good, bad} {
		if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
			t.Fatalf("stage: %v", err)
		}
	}

	client := &fakeS3{failKey: "bad.js"}
	mirror := Mirror{Client: client, Bucket: "deploys", Prefix: "archive"}

	var out bytes.Buffer
	mirror.Archive(context.Background(), []Upload{
		{Key: "bad.js", SourcePath: bad},
		{Key: "good.js", SourcePath: good},
		{Key: "missing.js", SourcePath: filepath.Join(dir, "missing.js")},
	}, &out)

	if len(client.puts) != 1 || !strings.HasSuffix(client.puts[0], "good.js") {
		t.Fatalf("unexpected puts: %v", client.puts)
	}
	if !strings.Contains(out.String(), "failed") {
		t.Fatalf("failure not reported:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "skip missing.js") {
		t.Fatalf("missing file not reported:\n%s", out.String())
	}
}

func TestArchiveWithoutClientIsNoop(t *testing.T) {
	var out bytes.Buffer
	Mirror{}.Archive(context.Background(), []Upload{{Key: "a.js"}}, &out)
	if out.Len() != 0 {
		t.Fatalf("expected silence, got %q", out.String())
	}
}
