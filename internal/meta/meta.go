// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep brand and artifact identity in one place.
package meta

const (
	// Project Identity
	AppName   = "edgesync"
	Slug      = "edgesync"
	EnvPrefix = "EDGESYNC"

	// Generated module identity. These values are embedded in every
	// published module's metadata binding; bump SchemaVersion only when
	// the module text format changes.
	GeneratorTag  = "edgesync"
	SchemaVersion = "1.0.0"

	// Directory Layout
	HomeDir   = ".edgesync"
	OutputDir = "generated"
)
