package assets

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	for _, name := range []string{DefaultStyleName, PlainStyleName} {
		css, err := loader.LoadStyle(name)
		if err != nil {
			t.Fatalf("LoadStyle(%q) unexpected error: %v", name, err)
		}
		if !strings.Contains(css, ".math-display") {
			t.Errorf("LoadStyle(%q) does not style display math", name)
		}
	}

	if _, err := loader.LoadStyle("nonexistent"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle(nonexistent) error = %v, want ErrStyleNotFound", err)
	}
	if _, err := loader.LoadStyle("../styles/default"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(traversal) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tmpl, err := loader.LoadTemplate(MathHeadTemplate)
	if err != nil {
		t.Fatalf("LoadTemplate(%q) unexpected error: %v", MathHeadTemplate, err)
	}
	for _, want := range []string{"{{.StylesheetURL}}", "{{.ScriptURL}}", "{{.AutoRenderURL}}", "window.mdmathReady = true"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("math head template missing %q", want)
		}
	}

	if _, err := loader.LoadTemplate("cover"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(cover) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestEmbeddedLoader_Styles(t *testing.T) {
	t.Parallel()

	got := NewEmbeddedLoader().Styles()
	want := []string{DefaultStyleName, PlainStyleName}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Styles() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackageLevelLoaders(t *testing.T) {
	t.Parallel()

	if _, err := LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() unexpected error: %v", err)
	}
	if _, err := LoadTemplate(MathHeadTemplate); err != nil {
		t.Errorf("LoadTemplate() unexpected error: %v", err)
	}
}
