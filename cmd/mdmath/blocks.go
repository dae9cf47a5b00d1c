package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/yamlutil"
)

// Output formats for the blocks command.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// blocksOutput is the structured form printed by --format yaml|json.
type blocksOutput struct {
	Blocks []mdmath.BlockRecord `json:"blocks" yaml:"blocks"`
	Report mdmath.ReportRecord  `json:"report" yaml:"report"`
}

// runBlocksCmd prints how the input is classified and what happens when
// each block is rendered.
func runBlocksCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBlocksFlags(args, env)
	if err != nil {
		return err
	}

	format := strings.ToLower(flags.format)
	switch format {
	case formatText, formatYAML, formatJSON:
	default:
		return fmt.Errorf("%w: %q (expected %s, %s or %s)", ErrInvalidFormat, flags.format, formatText, formatYAML, formatJSON)
	}

	if len(positional) > 1 {
		return fmt.Errorf("%w: blocks takes at most one file, got %d", ErrUsage, len(positional))
	}
	path := stdinName
	if len(positional) == 1 {
		path = positional[0]
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig(env))
	if err != nil {
		return err
	}
	if flags.validator != "" {
		cfg.Math.Validator = flags.validator
	}

	content, err := readInput(path, env.Stdin)
	if err != nil {
		return err
	}

	conv, err := mdmath.NewConverter(
		mdmath.WithLogger(newLogger(env.Stderr, flags.common, false)),
		mdmath.WithValidator(cfg.Math.Validator),
		mdmath.WithMathEngine(mdmath.MathEngineNone),
		mdmath.WithStyle(""),
	)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	blocks := conv.Blocks(string(content))
	report := conv.Emit(blocks, conv.NewSurface(ctx, baseDir(path)))
	if err := ctx.Err(); err != nil {
		return err
	}

	out := blocksOutput{Blocks: mdmath.BlockRecords(blocks), Report: mdmath.NewReportRecord(report)}
	switch format {
	case formatYAML:
		data, err := yamlutil.Marshal(out)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = env.Stdout.Write(data)
		return err
	case formatJSON:
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		printBlocks(env.Stdout, out)
		return nil
	}
}

// printBlocks writes one line per block, then the report.
func printBlocks(w io.Writer, out blocksOutput) {
	for i, b := range out.Blocks {
		fmt.Fprintf(w, "%3d  %-4s  %s\n", i, b.Kind, preview(b.Content))
	}

	r := out.Report
	fmt.Fprintf(w, "\n%d block(s), %d retried, %d fallback(s)\n", r.Blocks, r.Retried, r.Fallbacks)
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  block %d failed at %s: %s\n", f.Index, f.Stage, f.Error)
	}
}

// previewLength caps block content in text output.
const previewLength = 60

// preview flattens content onto one line and truncates it.
func preview(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	if r := []rune(s); len(r) > previewLength {
		return string(r[:previewLength-3]) + "..."
	}
	return s
}
