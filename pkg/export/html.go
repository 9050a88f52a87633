package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/mistvale/dreamscope/pkg/guide"
	"github.com/mistvale/dreamscope/pkg/metric"
)

// guidePageTemplate is the Go html/template for the standalone guide page.
// The stylesheet is inlined so the file works without sidecar assets.
const guidePageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    :root {
      --bg: #1a1a2e;
      --bg-panel: #16213e;
      --text: #e4e4f0;
      --text-muted: #8a8aa3;
      --accent: #bd93f9;
      --border: #2e2e4a;
    }
    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: -apple-system, "Segoe UI", Roboto, sans-serif;
      line-height: 1.6;
    }
    article {
      max-width: 720px;
      margin: 0 auto;
      padding: 2rem 1.5rem 4rem;
    }
    h1 { color: var(--accent); border-bottom: 1px solid var(--border); padding-bottom: 0.4rem; }
    h2 { color: var(--accent); margin-top: 2.2rem; }
    h3, h4 { margin-top: 1.6rem; }
    .metric-icon { vertical-align: -0.125em; margin-right: 0.4em; color: var(--accent); }
    ol, ul { padding-left: 1.4rem; }
    li { margin: 0.2rem 0; }
    em { color: var(--text-muted); }
    blockquote {
      margin: 1rem 0;
      padding: 0.5rem 1rem;
      background: var(--bg-panel);
      border-left: 3px solid var(--accent);
    }
    footer {
      max-width: 720px;
      margin: 0 auto;
      padding: 0 1.5rem 2rem;
      color: var(--text-muted);
      font-size: 0.85rem;
      border-top: 1px solid var(--border);
    }
  </style>
</head>
<body>
  <article>
    {{.Content}}
  </article>
  <footer>Generated by dreamscope.</footer>
</body>
</html>`

// guidePageData holds the data passed to the HTML template.
type guidePageData struct {
	Title   string
	Content template.HTML
}

// HTMLGuide writes the metrics guide as a standalone HTML page with inline
// SVG icons on the metric headings. When the rendered fragment cannot be
// parsed for annotation the page is written with plain headings instead.
func HTMLGuide(outPath string) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			ghtml.WithUnsafe(),
		),
	)

	var htmlBuf bytes.Buffer
	if err := md.Convert([]byte(metric.GuideMarkdown()), &htmlBuf); err != nil {
		return fmt.Errorf("converting guide markdown: %w", err)
	}

	content := annotateGuideHTML(htmlBuf.String())

	tmpl, err := template.New("guide").Parse(guidePageTemplate)
	if err != nil {
		return fmt.Errorf("parsing guide template: %w", err)
	}

	var page bytes.Buffer
	err = tmpl.Execute(&page, guidePageData{
		Title:   "Dream Metrics Guide",
		Content: template.HTML(content),
	})
	if err != nil {
		return fmt.Errorf("rendering guide page: %w", err)
	}

	return os.WriteFile(outPath, page.Bytes(), 0o644)
}

// annotateGuideHTML runs the heading annotator over the rendered fragment
// with the SVG icon set. Parse or serialize failures fall back to the
// unannotated fragment.
func annotateGuideHTML(fragment string) string {
	region, err := guide.NewHTMLRegion(fragment)
	if err != nil {
		fmt.Printf("Warning: guide icons skipped: %v\n", err)
		return fragment
	}

	guide.NewAnnotator().Annotate(region, metric.GuideRules(), guide.SVGIcons())

	annotated, err := region.HTML()
	if err != nil {
		fmt.Printf("Warning: guide icons skipped: %v\n", err)
		return fragment
	}
	return annotated
}
