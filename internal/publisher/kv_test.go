// Where: internal/publisher/kv_test.go
// What: Tests for the KV publisher.
// Why: Upload classification and batch independence are contract-bearing.
package publisher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantfeed/edgesync/internal/errs"
)

func testTarget() CdnTarget {
	return CdnTarget{
		Token:        "cdn-token",
		AccountID:    "acc1",
		NamespaceID:  "ns1",
		PublicDomain: "cdn.example.com",
	}
}

func stageModule(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("stage module: %v", err)
	}
	return path
}

func TestPublishValidatesTargetBeforeIO(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CdnTarget)
	}{
		{"missing token", func(target *CdnTarget) { target.Token = "" }},
		{"missing account", func(target *CdnTarget) { target.AccountID = "" }},
		{"missing namespace", func(target *CdnTarget) { target.NamespaceID = "" }},
		{"missing domain", func(target *CdnTarget) { target.PublicDomain = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := testTarget()
			tc.mutate(&target)
			p := New(target)

			_, err := p.Publish(context.Background(), Upload{Key: "a.js", SourcePath: "unused"})
			if !errs.IsKind(err, errs.KindConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestPublishMissingSourceFile(t *testing.T) {
	p := New(testTarget())
	_, err := p.Publish(context.Background(), Upload{
		Key:        "a.js",
		SourcePath: filepath.Join(t.TempDir(), "never-written.js"),
	})
	if !errs.IsKind(err, errs.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestPublishSuccess(t *testing.T) {
	const content = "export const a = 1;\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method: %s", r.Method)
		}
		wantPath := "/accounts/acc1/storage/kv/namespaces/ns1/values/a.js"
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer cdn-token" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/javascript" {
			t.Errorf("unexpected content type: %q", got)
		}
		fmt.Fprint(w, `{"success":true,"errors":[]}`)
	}))
	defer server.Close()

	p := New(testTarget())
	p.APIEndpoint = server.URL

	record, err := p.Publish(context.Background(), Upload{
		Key:        "a.js",
		SourcePath: stageModule(t, "a.js", content),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !record.Succeeded {
		t.Fatalf("record not marked succeeded: %+v", record)
	}
	if record.ByteSize != len(content) {
		t.Fatalf("byte size mismatch: got %d, want %d", record.ByteSize, len(content))
	}
	if record.PublicURL != "https://cdn.example.com/a.js" {
		t.Fatalf("unexpected public URL: %s", record.PublicURL)
	}
}

func TestPublishSurfacesRemoteRejectionDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"success":false,"errors":[{"code":10009,"message":"key too long"}]}`)
	}))
	defer server.Close()

	p := New(testTarget())
	p.APIEndpoint = server.URL

	_, err := p.Publish(context.Background(), Upload{
		Key:        "a.js",
		SourcePath: stageModule(t, "a.js", "x"),
	})
	if !errs.IsKind(err, errs.KindRemoteRejection) {
		t.Fatalf("expected remote rejection, got %v", err)
	}
	if !strings.Contains(err.Error(), "10009") || !strings.Contains(err.Error(), "key too long") {
		t.Fatalf("structured detail not surfaced: %v", err)
	}
}

func TestPublishDistinguishesAuthFailures(t *testing.T) {
	cases := []struct {
		status int
		kind   errs.Kind
	}{
		{http.StatusUnauthorized, errs.KindAuthentication},
		{http.StatusForbidden, errs.KindAuthorization},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			p := New(testTarget())
			p.APIEndpoint = server.URL

			_, err := p.Publish(context.Background(), Upload{
				Key:        "a.js",
				SourcePath: stageModule(t, "a.js", "x"),
			})
			if !errs.IsKind(err, tc.kind) {
				t.Fatalf("expected %s for status %d, got %v", tc.kind, tc.status, err)
			}
		})
	}
}

func TestPublishAllIsBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/values/bad.js") {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"success":false,"errors":[{"code":1,"message":"rejected"}]}`)
			return
		}
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer server.Close()

	p := New(testTarget())
	p.APIEndpoint = server.URL

	uploads := []Upload{
		{Key: "first.js", SourcePath: stageModule(t, "first.js", "a")},
		{Key: "bad.js", SourcePath: stageModule(t, "bad.js", "b")},
		{Key: "third.js", SourcePath: stageModule(t, "third.js", "c")},
	}

	outcome := p.PublishAll(context.Background(), uploads)
	if outcome.Total != 3 || outcome.Succeeded != 2 || outcome.Failed != 1 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if len(outcome.Results) != 3 {
		t.Fatalf("expected a result per upload, got %d", len(outcome.Results))
	}
	if outcome.Results[1].Err == nil {
		t.Fatalf("failing upload has no error recorded")
	}
	if outcome.Results[2].Err != nil {
		t.Fatalf("failure aborted the sweep: %v", outcome.Results[2].Err)
	}
}

func TestVerifyPublic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/present.js" {
			w.Header().Set("Content-Type", "application/javascript")
			fmt.Fprint(w, "export const a = 1;")
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := New(testTarget())

	check := p.VerifyPublic(context.Background(), server.URL+"/present.js")
	if !check.OK {
		t.Fatalf("expected success: %+v", check)
	}
	if check.ByteSize == 0 || check.ContentType != "application/javascript" {
		t.Fatalf("probe details missing: %+v", check)
	}

	check = p.VerifyPublic(context.Background(), server.URL+"/absent.js")
	if check.OK {
		t.Fatalf("expected failure for missing key")
	}
	if !strings.Contains(check.Detail, "404") {
		t.Fatalf("detail missing status: %+v", check)
	}
}
