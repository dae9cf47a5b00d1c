package main

// Notes:
// - runBlocksCmd: we feed stdin and files and check each output format.
//   The classification itself is tested in internal/pipeline.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/yamlutil"
)

const blocksInput = "Solve $x+1=2$ then\n\n$$\\left($$\n\nDone."

// ---------------------------------------------------------------------------
// TestRunBlocksCmd - Output formats
// ---------------------------------------------------------------------------

func TestRunBlocksCmd_Text(t *testing.T) {
	t.Parallel()

	env := newTestEnv(blocksInput, nil)
	if err := runBlocksCmd(context.Background(), nil, env.Environment); err != nil {
		t.Fatalf("runBlocksCmd() unexpected error: %v", err)
	}

	out := env.stdout.String()
	for _, want := range []string{
		"  0  text  Solve $x+1=2$ then",
		`  1  math  \left(`,
		"  2  text  Done.",
		"3 block(s), 0 retried, 1 fallback(s)",
		"block 1 failed at math",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, out)
		}
	}
}

func TestRunBlocksCmd_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(blocksInput, nil)
	if err := runBlocksCmd(context.Background(), []string{"--format", "json"}, env.Environment); err != nil {
		t.Fatalf("runBlocksCmd() unexpected error: %v", err)
	}

	var got blocksOutput
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
	}

	wantBlocks := []mdmath.BlockRecord{
		{Kind: mdmath.KindText, Content: "Solve $x+1=2$ then"},
		{Kind: mdmath.KindMath, Content: `\left(`},
		{Kind: mdmath.KindText, Content: "Done."},
	}
	if diff := cmp.Diff(wantBlocks, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	if got.Report.Fallbacks != 1 || len(got.Report.Failures) != 1 {
		t.Errorf("report = %+v, want one fallback and one failure", got.Report)
	}
}

func TestRunBlocksCmd_YAML(t *testing.T) {
	t.Parallel()

	env := newTestEnv(blocksInput, nil)
	if err := runBlocksCmd(context.Background(), []string{"-f", "YAML"}, env.Environment); err != nil {
		t.Fatalf("runBlocksCmd() unexpected error: %v", err)
	}

	var got blocksOutput
	if err := yamlutil.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, env.stdout.String())
	}
	if len(got.Blocks) != 3 || got.Blocks[1].Kind != mdmath.KindMath {
		t.Errorf("blocks = %+v, want three with a math block in the middle", got.Blocks)
	}
	if got.Report.Blocks != 3 {
		t.Errorf("report.blocks = %d, want 3", got.Report.Blocks)
	}
}

func TestRunBlocksCmd_ValidatorNone(t *testing.T) {
	t.Parallel()

	env := newTestEnv(blocksInput, nil)
	if err := runBlocksCmd(context.Background(), []string{"--validator", "none", "-f", "json"}, env.Environment); err != nil {
		t.Fatalf("runBlocksCmd() unexpected error: %v", err)
	}

	var got blocksOutput
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Report.Fallbacks != 0 || len(got.Report.Failures) != 0 {
		t.Errorf("report = %+v, want no failures without validation", got.Report)
	}
}

func TestRunBlocksCmd_File(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "notes.md", "$$a$$\n\n$$b$$")
	env := newTestEnv("", nil)
	if err := runBlocksCmd(context.Background(), []string{"-f", "json", path}, env.Environment); err != nil {
		t.Fatalf("runBlocksCmd() unexpected error: %v", err)
	}

	var got blocksOutput
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := []mdmath.BlockRecord{{Kind: mdmath.KindMath, Content: "a"}, {Kind: mdmath.KindMath, Content: "b"}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBlocksCmd_EmptyInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv("   \n", nil)
	if err := runBlocksCmd(context.Background(), []string{"-f", "json"}, env.Environment); err != nil {
		t.Fatalf("runBlocksCmd() unexpected error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), `"blocks": []`) {
		t.Errorf("output = %s, want empty blocks list", env.stdout.String())
	}
}

func TestRunBlocksCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bad format", []string{"--format", "toml"}, ErrInvalidFormat},
		{"two files", []string{"a.md", "b.md"}, ErrUsage},
		{"missing file", []string{"missing.md"}, ErrReadInput},
		{"unknown validator", []string{"--validator", "pedantic"}, mdmath.ErrUnknownValidator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("x", nil)
			err := runBlocksCmd(context.Background(), tt.args, env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runBlocksCmd(%v) error = %v, want %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	if got := preview("a\n  b\tc"); got != "a b c" {
		t.Errorf("preview() = %q, want %q", got, "a b c")
	}

	long := strings.Repeat("x", previewLength+10)
	got := preview(long)
	if len([]rune(got)) != previewLength || !strings.HasSuffix(got, "...") {
		t.Errorf("preview(long) = %q, want %d runes ending in ...", got, previewLength)
	}
}
