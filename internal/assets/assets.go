package assets

// Built-in asset names.
const (
	DefaultStyleName = "default"
	PlainStyleName   = "plain"
	MathHeadTemplate = "math-head"
)

// KaTeX distribution used when no other location is configured.
const (
	KaTeXStylesheetURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css"
	KaTeXScriptURL     = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"
	KaTeXAutoRenderURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/contrib/auto-render.min.js"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
