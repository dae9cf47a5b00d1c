package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// emptyContainers are removed when they hold nothing but whitespace or
// other removed containers.
var emptyContainers = map[string]bool{
	"div":  true,
	"span": true,
	"p":    true,
}

// openContainer tracks a container start tag written to the output.
type openContainer struct {
	name  string
	at    int  // output offset of the start tag
	empty bool // nothing visible seen since the start tag
}

// Sanitize strips decorative markup that carries no visible payload:
//   - div, span and p elements holding only whitespace, including nested
//     empty containers such as <div><div></div></div>
//   - hr and br tags, with the whitespace that follows them
//   - img tags with no src or a zero width or height, with the whitespace
//     that follows them
//
// Everything else, including malformed markup and plain prose, is copied
// byte for byte. Sanitize must only see prose: formulas are never passed in.
func Sanitize(markup string) string {
	if !strings.Contains(markup, "<") {
		return markup
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	out := make([]byte, 0, len(markup))
	var (
		stack     []openContainer
		consumed  int
		skipSpace bool
	)

	markVisible := func() {
		for i := range stack {
			stack[i].empty = false
		}
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		// TagName and TagAttr rewrite the tokenizer buffer in place.
		raw := append([]byte(nil), z.Raw()...)
		consumed += len(raw)

		switch tt {
		case html.TextToken:
			text := raw
			if skipSpace {
				text = []byte(strings.TrimLeft(string(text), " \t\r\n\f"))
			}
			if HasContent(string(text)) {
				markVisible()
				skipSpace = false
			}
			out = append(out, text...)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if isDecorative(z, tag, hasAttr) {
				skipSpace = true
				continue
			}
			skipSpace = false
			if tt == html.StartTagToken && emptyContainers[tag] {
				stack = append(stack, openContainer{name: tag, at: len(out), empty: true})
				out = append(out, raw...)
				continue
			}
			markVisible()
			out = append(out, raw...)

		case html.EndTagToken:
			skipSpace = false
			name, _ := z.TagName()
			if n := len(stack); n > 0 && stack[n-1].name == string(name) {
				top := stack[n-1]
				stack = stack[:n-1]
				if top.empty {
					out = out[:top.at]
					continue
				}
				out = append(out, raw...)
				continue
			}
			markVisible()
			out = append(out, raw...)

		default:
			// Comments and doctypes are invisible but kept.
			out = append(out, raw...)
		}
	}

	// The tokenizer drops a tag left unterminated at EOF; keep its bytes.
	if consumed < len(markup) {
		out = append(out, markup[consumed:]...)
	}
	return string(out)
}

// isDecorative reports whether the current start tag renders nothing
// useful. It consumes the tag's attributes.
func isDecorative(z *html.Tokenizer, tag string, hasAttr bool) bool {
	switch tag {
	case "hr", "br":
		return true
	case "img":
		var src, width, height string
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			switch string(key) {
			case "src":
				src = strings.TrimSpace(string(val))
			case "width":
				width = string(val)
			case "height":
				height = string(val)
			}
		}
		return src == "" || isZeroSize(width) || isZeroSize(height)
	default:
		return false
	}
}

func isZeroSize(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "0px":
		return true
	}
	return false
}
