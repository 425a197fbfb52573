package manifest

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/arthur-debert/mtcollect/pkg/errors"
)

//go:embed schema.cue
var cueSchema []byte

//go:embed config_schema.json
var jsonSchema []byte

// maxManifestBytes bounds the manifest size accepted by Parse (5 MB).
const maxManifestBytes = 5 << 20

// JSONSchema returns the JSON Schema describing the manifest, for editors.
func JSONSchema() []byte {
	return append([]byte(nil), jsonSchema...)
}

// decode validates data against #Manifest and decodes it.
func decode(data []byte, filename string) (*Manifest, error) {
	if len(data) > maxManifestBytes {
		return nil, errors.Newf(errors.ErrConfigParse, "%s is larger than %d bytes", filename, maxManifestBytes)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileBytes(cueSchema, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, errors.Wrap(schema.Err(), errors.ErrInternal, "compiling manifest schema")
	}
	root := schema.LookupPath(cue.ParsePath("#Manifest"))
	if root.Err() != nil {
		return nil, errors.Wrap(root.Err(), errors.ErrInternal, "manifest schema has no #Manifest")
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if value.Err() != nil {
		return nil, errors.Wrap(formatCUEError(value.Err(), filename), errors.ErrConfigParse, "malformed manifest").
			WithDetail("path", filename)
	}

	unified := root.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Wrap(formatCUEError(err, filename), errors.ErrConfigValid, "manifest does not match the schema").
			WithDetail("path", filename)
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return nil, errors.Wrap(formatCUEError(err, filename), errors.ErrConfigParse, "decoding manifest").
			WithDetail("path", filename)
	}
	return &m, nil
}

// formatCUEError renders every CUE error as "<file>: <path>: <message>".
func formatCUEError(err error, filename string) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s:\n  %s", filename, strings.Join(lines, "\n  "))
}

// formatPath turns ["content", "mods", "0", "url"] into content.mods[0].url.
func formatPath(parts []string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
