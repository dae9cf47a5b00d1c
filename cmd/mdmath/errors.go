package main

import (
	"context"
	"errors"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidExtension   = errors.New("unsupported input extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidFormat      = errors.New("invalid output format")
)

// hintFor returns the hint suffix for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdmath.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdmath.ErrMathNotReady):
		return hints.ForMathAssets()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdmath.ErrStyleNotFound):
		return hints.ForStyleNotFound(mdmath.BuiltinStyles())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
