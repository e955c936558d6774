// Where: internal/module/render.go
// What: Render fetched JSON into a publishable ES module.
// Why: Provide the textual codec consumed by downstream JS/TS clients.
package module

import (
	"bytes"
	"embed"
	"encoding/json"
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/quantfeed/edgesync/internal/errs"
	"github.com/quantfeed/edgesync/internal/meta"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateCache sync.Map

// Render produces the module text for data fetched from the named
// endpoint, stamped with the current UTC time. The data bytes must be
// valid JSON; they are re-emitted structurally, preserving the upstream
// key order.
func Render(data json.RawMessage, name string) (string, error) {
	return RenderAt(data, name, time.Now().UTC())
}

// RenderAt renders with an explicit capture timestamp. The timestamp is
// embedded exactly once and reused verbatim in the header comment and
// the metadata binding, so output is byte-identical for fixed inputs.
func RenderAt(data json.RawMessage, name string, capturedAt time.Time) (string, error) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return "", errs.Wrap(errs.KindUpstreamProtocol, err, "data for %q is not valid JSON", name)
	}

	payload := moduleTemplateData{
		Timestamp:  capturedAt.Format(time.RFC3339),
		Source:     name,
		Identifier: DeriveIdentifier(name),
		Data:       pretty.String(),
		Generator:  meta.GeneratorTag,
		Version:    meta.SchemaVersion,
	}
	return renderTemplate("module.js.tmpl", payload)
}

func renderTemplate(name string, data any) (string, error) {
	tmpl, err := loadTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func loadTemplate(name string) (*template.Template, error) {
	if value, ok := templateCache.Load(name); ok {
		return value.(*template.Template), nil
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, err
	}
	templateCache.Store(name, tmpl)
	return tmpl, nil
}

type moduleTemplateData struct {
	Timestamp  string
	Source     string
	Identifier string
	Data       string
	Generator  string
	Version    string
}
