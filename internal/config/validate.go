package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// ValidationError wraps a schema violation with the CUE detail message.
// The Detail text includes field paths and the offending values.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config does not match schema: %s", e.Detail)
}

// Validate checks a raw YAML settings document against the embedded CUE
// schema. Unknown keys and out-of-range mode strings are rejected here,
// before the YAML decoder gets a chance to ignore them.
func Validate(raw []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Settings"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Settings: %w", err)
	}

	file, err := cueyaml.Extract("settings.yaml", raw)
	if err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build config value: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return &ValidationError{Detail: err.Error()}
	}
	return nil
}
