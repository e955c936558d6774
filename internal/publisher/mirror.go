// Where: internal/publisher/mirror.go
// What: Best-effort S3 archive of published modules.
// Why: Keep a dated copy of every deploy outside the CDN.
package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"
)

// S3API is the narrow S3 surface the mirror needs.
type S3API interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// Mirror archives published module files into an S3 bucket under a
// date-stamped prefix. Mirroring is advisory: failures are reported to
// out and never affect the publish outcome.
type Mirror struct {
	Client S3API
	Bucket string
	Prefix string
}

// Archive copies each upload's file to the bucket. Missing files are
// skipped with a note; the loop never aborts.
func (m Mirror) Archive(ctx context.Context, uploads []Upload, out io.Writer) {
	if m.Client == nil || m.Bucket == "" || len(uploads) == 0 {
		return
	}
	if out == nil {
		out = io.Discard
	}

	datePrefix := time.Now().UTC().Format("2006-01-02")
	for _, upload := range uploads {
		content, err := os.ReadFile(upload.SourcePath)
		if err != nil {
			fmt.Fprintf(out, "mirror: skip %s: %v\n", upload.Key, err)
			continue
		}

		key := path.Join(m.prefix(), datePrefix, upload.Key)
		if err := m.Client.PutObject(ctx, m.Bucket, key, content, moduleContentType); err != nil {
			fmt.Fprintf(out, "mirror: upload %s failed: %v\n", key, err)
			continue
		}
		fmt.Fprintf(out, "mirror: archived s3://%s/%s\n", m.Bucket, key)
	}
}

func (m Mirror) prefix() string {
	if m.Prefix != "" {
		return m.Prefix
	}
	return "archive"
}
