package render

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/komsit37/kessan/pkg/kessan/dashboard"
)

// HTMLRenderer converts the markdown rendering to a standalone HTML page.
// Raw HTML is passed through because record text is already escaped by the
// markdown writer; the only markup left is the table writer's <br/>.
type HTMLRenderer struct {
	md goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{md: goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(gmhtml.WithXHTML(), gmhtml.WithUnsafe()),
	)}
}

func (r *HTMLRenderer) Render(w io.Writer, boards []dashboard.Dashboard, opts RenderOptions) error {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(Markdown(boards, opts)), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	title := "決算ダッシュボード"
	if len(boards) == 1 {
		title = boards[0].Header.Name + " " + boards[0].Header.Period
	}
	_, err := fmt.Fprintf(w, pageTemplate, html.EscapeString(title), body.String())
	return err
}

const pageTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; padding: 0 1em; color: #1f2937; background: #f9fafb; }
table { border-collapse: collapse; margin: 0.5em 0 1em; }
th, td { border: 1px solid #e5e7eb; padding: 4px 10px; }
th { background: #f3f4f6; }
pre { background: #fff; border: 1px solid #e5e7eb; padding: 0.75em; overflow-x: auto; line-height: 1.2; }
blockquote { margin: 0 0 1em; padding: 0.5em 1em; border-left: 4px solid #8b5cf6; background: #fff; }
</style>
</head>
<body>
%s</body>
</html>
`
