package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/mtcollect/pkg/types"
)

// encoder is satisfied by both json.Encoder and yaml.Encoder.
type encoder interface {
	Encode(v interface{}) error
}

// structuredRenderer writes one document per call.
type structuredRenderer struct {
	enc encoder
}

func newJSONRenderer(w io.Writer) *structuredRenderer {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &structuredRenderer{enc: enc}
}

func newYAMLRenderer(w io.Writer) *structuredRenderer {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &structuredRenderer{enc: enc}
}

func (r *structuredRenderer) RenderRun(report *types.RunReport) error {
	return r.enc.Encode(NewRunView(report))
}

func (r *structuredRenderer) RenderSync(report *types.SyncReport) error {
	return r.enc.Encode(NewSyncView(report))
}

func (r *structuredRenderer) RenderMessage(msg string) error {
	return r.enc.Encode(map[string]string{"message": msg})
}

func (r *structuredRenderer) RenderError(err error) error {
	return r.enc.Encode(NewErrorView(err))
}
