// Where: internal/config/validator.go
// What: Schema validator for the sync config file.
// Why: Catch malformed config before the pipeline touches the network.
package config

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/quantfeed/edgesync/internal/errs"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

//go:embed schema/edgesync.schema.json
var schemaSource string

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// ValidateDocument checks the raw YAML config against the embedded JSON
// schema. The sync command runs this pre-flight unless --force is set.
func ValidateDocument(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "convert config yaml to json")
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "decode config json")
	}

	if err := sch.Validate(document); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "config file failed schema validation")
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("edgesync.schema.json", strings.NewReader(schemaSource)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("edgesync.schema.json")
	})
	return compiledSchema, schemaErr
}
