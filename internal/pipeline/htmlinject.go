package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// ErrMathAssetsRender indicates the math head template failed to render.
var ErrMathAssetsRender = errors.New("math assets template rendering failed")

// DefaultTitle is used when a document has no title.
const DefaultTitle = "Document"

// documentTemplate wraps rendered blocks in a complete HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<main class="mdmath">
%s
</main>
</body>
</html>`

// NewDocument wraps an HTML fragment in a standalone document.
// The title is escaped; an empty title becomes DefaultTitle.
func NewDocument(title, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), body)
}

// insertInHead places snippet before </head>, falls back to right after
// the <body> tag, and finally prepends it.
func insertInHead(htmlContent, snippet string) string {
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + snippet + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + snippet + htmlContent[pos:]
		}
	}
	return snippet + htmlContent
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

var _ CSSInjector = (*CSSInjection)(nil)

// InjectCSS inserts a <style> block into the document head.
// Sequences that could close the style element early are escaped.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if strings.TrimSpace(cssContent) == "" || ctx.Err() != nil {
		return htmlContent
	}
	return insertInHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// MathAssets locates the client-side math engine.
type MathAssets struct {
	StylesheetURL string
	ScriptURL     string
	AutoRenderURL string
}

// MathAssetsInjector defines the contract for math engine injection.
type MathAssetsInjector interface {
	InjectMathAssets(ctx context.Context, htmlContent string, assets *MathAssets) (string, error)
}

// MathAssetsInjection renders the math head template into a document.
// The template loads the engine and typesets every \(...\) and \[...\]
// element, then sets window.mdmathReady.
type MathAssetsInjection struct {
	tmpl *template.Template
}

var _ MathAssetsInjector = (*MathAssetsInjection)(nil)

// NewMathAssetsInjection creates a MathAssetsInjection from template content.
func NewMathAssetsInjection(tmplContent string) (*MathAssetsInjection, error) {
	tmpl, err := template.New("math-head").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing math head template: %w", err)
	}
	return &MathAssetsInjection{tmpl: tmpl}, nil
}

// InjectMathAssets renders the template with assets and inserts the result
// into the document head. A nil assets leaves htmlContent unchanged.
func (m *MathAssetsInjection) InjectMathAssets(ctx context.Context, htmlContent string, assets *MathAssets) (string, error) {
	if assets == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Locations come from configuration, and html/template would otherwise
	// blank out file:// URLs.
	data := struct {
		StylesheetURL template.URL
		ScriptURL     template.URL
		AutoRenderURL template.URL
	}{
		StylesheetURL: template.URL(assets.StylesheetURL), // #nosec G203 -- configured location
		ScriptURL:     template.URL(assets.ScriptURL),     // #nosec G203 -- configured location
		AutoRenderURL: template.URL(assets.AutoRenderURL), // #nosec G203 -- configured location
	}

	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMathAssetsRender, err)
	}
	return insertInHead(htmlContent, buf.String()), nil
}
