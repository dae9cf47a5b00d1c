package pipeline

import (
	"context"
	"log/slog"
	"strings"
)

// Surface is a display target that renders markup and formulas through
// different primitives. Either call may fail; the Emitter contains the
// failure to the block that caused it.
type Surface interface {
	RenderMarkup(markup string) error
	RenderMath(formula string) error
}

// Stage names the surface call that failed.
type Stage string

// Emit stages.
const (
	StageMarkup    Stage = "markup"
	StageMath      Stage = "math"
	StageMathRetry Stage = "math-retry"
	StageFallback  Stage = "fallback"
)

// BlockFailure records one failed surface call.
type BlockFailure struct {
	Index int   // position of the block in the emitted sequence
	Stage Stage // which call failed
	Err   error
}

// Report summarizes one Emit call.
type Report struct {
	Blocks    int            // blocks handed to the surface
	Retried   int            // math blocks re-rendered with collapsed backslashes
	Fallbacks int            // math blocks rendered as literal code instead
	Failures  []BlockFailure // every failed surface call, in order
}

// Emitter renders blocks on a Surface in order.
// The zero value logs nothing.
type Emitter struct {
	logger *slog.Logger
}

// NewEmitter creates an Emitter reporting recovered failures to logger.
// A nil logger discards them.
func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// Emit hands every block to s, in order.
//
// A TextBlock goes to RenderMarkup. A MathBlock goes to RenderMath; when
// that fails it is retried once with every \\ collapsed to \, and when the
// retry fails too the untouched formula is rendered through RenderMarkup as
// an inline code literal. No failure stops the remaining blocks.
func (e *Emitter) Emit(blocks []Block, s Surface) Report {
	report := Report{Blocks: len(blocks)}

	for i, blk := range blocks {
		switch b := blk.(type) {
		case TextBlock:
			if err := s.RenderMarkup(b.Markup); err != nil {
				e.fail(&report, i, StageMarkup, err)
			}
		case MathBlock:
			e.emitMath(&report, i, b.Formula, s)
		}
	}

	return report
}

func (e *Emitter) emitMath(report *Report, index int, formula string, s Surface) {
	err := s.RenderMath(formula)
	if err == nil {
		return
	}
	e.fail(report, index, StageMath, err)

	if collapsed := collapseDoubleBackslashes(formula); collapsed != formula {
		report.Retried++
		if err = s.RenderMath(collapsed); err == nil {
			return
		}
		e.fail(report, index, StageMathRetry, err)
	}

	report.Fallbacks++
	if err := s.RenderMarkup(codeSpan(formula)); err != nil {
		e.fail(report, index, StageFallback, err)
	}
}

func (e *Emitter) fail(report *Report, index int, stage Stage, err error) {
	report.Failures = append(report.Failures, BlockFailure{Index: index, Stage: stage, Err: err})
	if e.logger != nil {
		e.logger.LogAttrs(context.Background(), slog.LevelWarn, "block render failed",
			slog.Int("block", index),
			slog.String("stage", string(stage)),
			slog.Any("error", err),
		)
	}
}

func collapseDoubleBackslashes(formula string) string {
	return strings.ReplaceAll(formula, `\\`, `\`)
}

// codeSpan wraps s in a Markdown code span whose backtick fence is longer
// than any backtick run inside s.
func codeSpan(s string) string {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != '`' {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}

	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}
