package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// localRefs lists the attributes that may point at files next to the source.
var localRefs = map[atom.Atom]string{
	atom.Img: "src",
	atom.A:   "href",
}

// ResolveLocalPaths rewrites relative img src and a href values in an HTML
// fragment to file:// URLs under baseDir, so the document still finds them
// once it is printed from a temporary file. Paths escaping baseDir, URLs,
// anchors and absolute paths are left alone. An empty baseDir is a no-op.
func ResolveLocalPaths(fragment, baseDir string) (string, error) {
	if baseDir == "" || !strings.Contains(fragment, "<") {
		return fragment, nil
	}

	root, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range nodes {
		walkElements(n, func(el *html.Node) {
			key, ok := localRefs[el.DataAtom]
			if !ok {
				return
			}
			for i, attr := range el.Attr {
				if attr.Key != key {
					continue
				}
				if resolved, ok := resolveLocal(attr.Val, root); ok {
					el.Attr[i].Val = resolved
				}
			}
		})
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

// resolveLocal maps a relative reference to a file:// URL under root.
func resolveLocal(ref, root string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return "", false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return "", false
	}
	if filepath.IsAbs(ref) {
		return "", false
	}

	abs := filepath.Join(root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), true
}
