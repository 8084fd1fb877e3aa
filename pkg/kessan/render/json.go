package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/kessan/pkg/kessan/dashboard"
)

// JSONRenderer writes the dashboards as a JSON array of view models.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, boards []dashboard.Dashboard, opts RenderOptions) error {
	if boards == nil {
		boards = []dashboard.Dashboard{}
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(boards)
}
