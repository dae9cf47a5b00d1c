package fileutil_test

// Notes:
// - The WriteString and Close failure branches of WriteTempFile need a
//   failing disk and are not covered.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdmath/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Temp File Extensions
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		extension string
		wantErr   error
	}{
		{"html", nil},
		{"pdf", nil},
		{"", fileutil.ErrExtensionEmpty},
		{"../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{`..\windows`, fileutil.ErrExtensionPathTraversal},
		{"html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		if err := fileutil.ValidateExtension(tt.extension); !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Scratch Files
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := `<p>\(x^2\)</p>`
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() unexpected error: %v", err)
	}

	if !strings.Contains(filepath.Base(path), "mdmath-") || !strings.HasSuffix(path, ".html") {
		t.Errorf("path = %q, want mdmath-*.html", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", data, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup: %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("x", "../html")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want %v", err, fileutil.ErrExtensionPathTraversal)
	}
	if cleanup != nil {
		t.Error("cleanup should be nil on error")
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular Files Only
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Errorf("FileExists(%q) = false, want true", file)
	}
	if fileutil.FileExists(dir) {
		t.Errorf("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Errorf("FileExists(missing) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL - Name Classification
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"default":      false,
		"my-style":     false,
		"./custom.css": true,
		"../x.css":     true,
		"/abs/x.css":   true,
		`C:\x.css`:     true,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://cdn.jsdelivr.net/npm/katex/dist/katex.min.js": true,
		"http://localhost/katex.js":                            true,
		"file:///tmp/katex.js":                                 false,
		"katex.js":                                             false,
	}
	for in, want := range tests {
		if got := fileutil.IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestOutputPath - Derived Output Names
// ---------------------------------------------------------------------------

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, dir, ext string
		want            string
	}{
		{"notes/limits.md", "", "pdf", filepath.Join("notes", "limits.pdf")},
		{"notes/limits.md", "out", ".html", filepath.Join("out", "limits.html")},
		{"answer", "", "html", "answer.html"},
		{"a.b.txt", "", "pdf", "a.b.pdf"},
	}

	for _, tt := range tests {
		if got := fileutil.OutputPath(tt.input, tt.dir, tt.ext); got != tt.want {
			t.Errorf("OutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.dir, tt.ext, got, tt.want)
		}
	}
}
