package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestResolveLocalPaths - Relative References
// ---------------------------------------------------------------------------

func TestResolveLocalPaths(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	fileURL := func(rel string) string {
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(base, rel))}
		return u.String()
	}

	tests := []struct {
		name        string
		fragment    string
		wantContain string
	}{
		{
			name:        "relative image",
			fragment:    `<p><img src="fig/graph.png" alt="graph"></p>`,
			wantContain: `src="` + fileURL("fig/graph.png") + `"`,
		},
		{
			name:        "relative link",
			fragment:    `<p><a href="notes.md">notes</a></p>`,
			wantContain: `href="` + fileURL("notes.md") + `"`,
		},
		{
			name:        "dot-prefixed path",
			fragment:    `<img src="./a.png">`,
			wantContain: `src="` + fileURL("a.png") + `"`,
		},
		{
			name:        "http URL untouched",
			fragment:    `<img src="https://example.com/a.png">`,
			wantContain: `src="https://example.com/a.png"`,
		},
		{
			name:        "anchor untouched",
			fragment:    `<a href="#fn1">1</a>`,
			wantContain: `href="#fn1"`,
		},
		{
			name:        "protocol-relative untouched",
			fragment:    `<img src="//cdn.example/a.png">`,
			wantContain: `src="//cdn.example/a.png"`,
		},
		{
			name:        "escaping path untouched",
			fragment:    `<img src="../secret.png">`,
			wantContain: `src="../secret.png"`,
		},
		{
			name:        "other elements untouched",
			fragment:    `<script src="x.js"></script>`,
			wantContain: `src="x.js"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveLocalPaths(tt.fragment, base)
			if err != nil {
				t.Fatalf("ResolveLocalPaths() unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("ResolveLocalPaths() = %q, want it to contain %q", got, tt.wantContain)
			}
		})
	}
}

func TestResolveLocalPaths_NoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		baseDir  string
	}{
		{"empty base dir", `<img src="a.png">`, ""},
		{"plain text", "no markup at all", t.TempDir()},
	}

	for _, tt := range tests {
		got, err := ResolveLocalPaths(tt.fragment, tt.baseDir)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.fragment {
			t.Errorf("%s: ResolveLocalPaths() = %q, want unchanged", tt.name, got)
		}
	}
}

func TestResolveLocalPaths_KeepsMathSpans(t *testing.T) {
	t.Parallel()

	fragment := `<p>see <span class="math math-inline">\(a&lt;b\)</span> and <img src="p.png"></p>`
	got, err := ResolveLocalPaths(fragment, t.TempDir())
	if err != nil {
		t.Fatalf("ResolveLocalPaths() unexpected error: %v", err)
	}
	if !strings.Contains(got, `<span class="math math-inline">\(a&lt;b\)</span>`) {
		t.Errorf("ResolveLocalPaths() = %q, want the math span preserved", got)
	}
}
