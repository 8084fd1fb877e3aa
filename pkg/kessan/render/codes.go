package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/kessan/pkg/kessan/dashboard"
)

// codesRenderer prints every securities code on a single comma-separated line.
type codesRenderer struct{}

func NewCodesRenderer() Renderer {
	return codesRenderer{}
}

func (codesRenderer) Render(w io.Writer, boards []dashboard.Dashboard, _ RenderOptions) error {
	codes := make([]string, 0, len(boards))
	for _, d := range boards {
		code := strings.TrimSpace(d.Header.Code)
		if code == "" {
			continue
		}
		codes = append(codes, strings.TrimSuffix(code, ".T"))
	}
	_, err := fmt.Fprintln(w, strings.Join(codes, ","))
	return err
}
