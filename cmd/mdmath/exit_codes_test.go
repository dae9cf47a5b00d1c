package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every category, wrapped
//   and unwrapped, so the errors.Is chain is covered.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"browser connect", mdmath.ErrBrowserConnect, ExitBrowser},
		{"page load", mdmath.ErrPageLoad, ExitBrowser},
		{"pdf generation", fmt.Errorf("converting to PDF: %w", mdmath.ErrPDFGeneration), ExitBrowser},
		{"math not ready", fmt.Errorf("converting to PDF: %w", mdmath.ErrMathNotReady), ExitBrowser},

		{"not exist", os.ErrNotExist, ExitIO},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ExitIO},
		{"read input", fmt.Errorf("%w: stdin", ErrReadInput), ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},

		{"usage", ErrUsage, ExitUsage},
		{"workers", ErrInvalidWorkerCount, ExitUsage},
		{"timeout", ErrInvalidTimeout, ExitUsage},
		{"format", ErrInvalidFormat, ExitUsage},
		{"extension", ErrInvalidExtension, ExitUsage},
		{"config not found", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config value", config.ErrInvalidValue, ExitUsage},
		{"page size", mdmath.ErrInvalidPageSize, ExitUsage},
		{"unknown validator", mdmath.ErrUnknownValidator, ExitUsage},
		{"unknown engine", mdmath.ErrUnknownMathEngine, ExitUsage},
		{"style not found", mdmath.ErrStyleNotFound, ExitUsage},

		{"unrelated", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Error hints
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"browser connect", mdmath.ErrBrowserConnect, true},
		{"math not ready", mdmath.ErrMathNotReady, true},
		{"style not found", mdmath.ErrStyleNotFound, true},
		{"write output", fmt.Errorf("%w: disk full", ErrWriteOutput), true},
		{"usage", ErrUsage, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hintFor(tt.err); (got != "") != tt.wantHint {
				t.Errorf("hintFor(%v) = %q, wantHint %v", tt.err, got, tt.wantHint)
			}
		})
	}
}

func TestExitCodes_Values(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser}
	seen := make(map[int]bool)
	for _, c := range codes {
		if c < 0 || c >= 126 {
			t.Errorf("exit code %d outside 0-125", c)
		}
		if seen[c] {
			t.Errorf("exit code %d used twice", c)
		}
		seen[c] = true
	}
}
