package main

// Notes:
// - runMain: we test dispatch and exit codes. Rendering through a browser
//   is left to the library's integration tests; render cases here use
//   --html-only with the math engine off.
// - poolAdapter: we test Size, Acquire/Release and the panic on a foreign
//   converter type.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"strings"
	"testing"

	"github.com/alnah/go-mdmath"
)

// ---------------------------------------------------------------------------
// TestRunMain - Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"mdmath"}, ExitUsage, "", "Usage: mdmath"},
		{"unknown command", []string{"mdmath", "frobnicate"}, ExitUsage, "", "unknown command: frobnicate"},
		{"version", []string{"mdmath", "version"}, ExitSuccess, "go-mdmath dev", ""},
		{"version flag", []string{"mdmath", "--version"}, ExitSuccess, "go-mdmath dev", ""},
		{"help", []string{"mdmath", "help"}, ExitSuccess, "Commands:", ""},
		{"help render", []string{"mdmath", "help", "render"}, ExitSuccess, "mdmath render", ""},
		{"help blocks", []string{"mdmath", "help", "blocks"}, ExitSuccess, "mdmath blocks", ""},
		{"help serve", []string{"mdmath", "help", "serve"}, ExitSuccess, "POST /render", ""},
		{"help unknown", []string{"mdmath", "help", "nope"}, ExitUsage, "", "unknown command: nope"},
		{"render help flag", []string{"mdmath", "render", "--help"}, ExitSuccess, "", "Usage: mdmath render"},
		{"render unknown flag", []string{"mdmath", "render", "--bogus"}, ExitUsage, "", "invalid usage"},
		{"render missing file", []string{"mdmath", "render", "--html-only", "does-not-exist.md"}, ExitIO, "", "failed to read input"},
		{"render bad extension", []string{"mdmath", "render", "main_test.go"}, ExitUsage, "", "unsupported input extension"},
		{"render too many workers", []string{"mdmath", "render", "-w", "99"}, ExitUsage, "", "invalid worker count"},
		{"render bad timeout", []string{"mdmath", "render", "--timeout", "soon"}, ExitUsage, "", "invalid timeout"},
		{"render bad page size", []string{"mdmath", "render", "--page-size", "a5"}, ExitUsage, "", "invalid config value"},
		{"render unknown validator", []string{"mdmath", "render", "--validator", "pedantic"}, ExitUsage, "", "invalid config value"},
		{"render missing config", []string{"mdmath", "render", "--config", "no-such-config"}, ExitUsage, "", "hint:"},
		{"blocks bad format", []string{"mdmath", "blocks", "--format", "xml"}, ExitUsage, "", "invalid output format"},
		{"serve positional", []string{"mdmath", "serve", "extra"}, ExitUsage, "", "serve takes no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("", nil)
			code := runMain(tt.args, env.Environment)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, env.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", env.stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_WarnsUnknownEnvVars(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", map[string]string{"MDMATH_VALIDATER": "strict", "HOME": "/root"})
	if code := runMain([]string{"mdmath", "version"}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d", code, ExitSuccess)
	}

	stderr := env.stderr.String()
	if !strings.Contains(stderr, "MDMATH_VALIDATER") {
		t.Errorf("stderr = %q, want warning about MDMATH_VALIDATER", stderr)
	}
	if strings.Contains(stderr, "HOME") {
		t.Errorf("stderr = %q, want no warning about unrelated variables", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestPoolAdapter - Converter pool exposed to the batch runner
// ---------------------------------------------------------------------------

// foreignConverter satisfies CLIConverter without being a *mdmath.Converter.
type foreignConverter struct{}

func (foreignConverter) Convert(context.Context, mdmath.Input) (*mdmath.ConvertResult, error) {
	return &mdmath.ConvertResult{}, nil
}

func TestPoolAdapter_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := mdmath.NewConverterPool(2, mdmath.WithMathEngine(mdmath.MathEngineNone))
	t.Cleanup(func() { _ = pool.Close() })
	adapter := &poolAdapter{pool: pool}

	if got := adapter.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}

	conv, err := adapter.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	adapter.Release(conv)
}

func TestPoolAdapter_Release_WrongType(t *testing.T) {
	t.Parallel()

	pool := mdmath.NewConverterPool(1)
	t.Cleanup(func() { _ = pool.Close() })
	adapter := &poolAdapter{pool: pool}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for wrong type, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if !strings.Contains(msg, "unexpected type") {
			t.Errorf("panic message should contain 'unexpected type', got %q", msg)
		}
	}()

	adapter.Release(foreignConverter{})
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker count bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{1, false},
		{mdmath.MaxPoolSize, false},
		{mdmath.MaxPoolSize + 1, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}
