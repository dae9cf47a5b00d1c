// Package assets provides the CSS styles and HTML templates used to assemble
// rendered documents.
//
// Assets come from two places:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and templates (go:embed)
//	    ├── FilesystemLoader  - user overrides from a directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// A custom directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}.html
//
// Asset names are bare identifiers; anything that could address another
// file is rejected before a path is built.
package assets
