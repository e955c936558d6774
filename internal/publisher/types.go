// Where: internal/publisher/types.go
// What: Publisher data types.
// Why: Shared shapes for KV uploads and their outcomes.
package publisher

// CdnTarget addresses one key-value namespace on the CDN write API.
// All four fields are required.
type CdnTarget struct {
	Token        string
	AccountID    string
	NamespaceID  string
	PublicDomain string
}

// Upload names one staged module file to push to the CDN.
type Upload struct {
	Key        string
	SourcePath string
}

// DeploymentRecord reports the result of a single publish.
type DeploymentRecord struct {
	Key       string
	ByteSize  int
	PublicURL string
	Succeeded bool
}

// Result pairs an upload with its record or failure inside a batch.
type Result struct {
	Upload Upload
	Record DeploymentRecord
	Err    error
}

// BatchOutcome aggregates a best-effort batch publish.
type BatchOutcome struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []Result
}

// AccessCheck reports an advisory public-readability probe.
type AccessCheck struct {
	OK          bool
	ByteSize    int
	ContentType string
	Detail      string
}
