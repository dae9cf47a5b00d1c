package assets

// AssetLoader loads styles and templates by bare name.
type AssetLoader interface {
	// LoadStyle returns {name}.css, or ErrStyleNotFound.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns {name}.html, or ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
}
