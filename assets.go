package mdmath

import "github.com/alnah/go-mdmath/internal/assets"

// Built-in style names.
const (
	DefaultStyle = assets.DefaultStyleName
	PlainStyle   = assets.PlainStyleName
)

// BuiltinStyles lists the styles shipped with the module, sorted by name.
func BuiltinStyles() []string {
	return assets.NewEmbeddedLoader().Styles()
}
