package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// mathFlags selects formula checking and typesetting.
type mathFlags struct {
	engine    string
	validator string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// outputFlags holds output mode flags.
type outputFlags struct {
	path     string // output file or directory
	html     bool   // write HTML alongside PDF
	htmlOnly bool   // write HTML only, skip PDF
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	math      mathFlags
	page      pageFlags
	output    outputFlags
	title     string
	style     string
	noStyle   bool
	css       string
	assets    string
	allowHTML bool
	timeout   string
	workers   int
}

// blocksFlags holds flags for the blocks command.
type blocksFlags struct {
	common    commonFlags
	format    string
	validator string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common       commonFlags
	math         mathFlags
	addr         string
	maxBodyBytes int64
	workers      int
	style        string
	assets       string
	allowHTML    bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addMathFlags adds math flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVar(&f.engine, "math-engine", "", "math engine: katex, none")
	fs.StringVar(&f.validator, "validator", "", "formula validator: balanced, strict, none")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.html, "html", false, "write HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write HTML only, skip PDF")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parse runs fs.Parse, wrapping failures in ErrUsage. pflag prints the
// usage itself for -h and returns flag.ErrHelp, which is passed through.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, env *Environment) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", printRenderUsage, env.Stderr)

	addCommonFlags(fs, &f.common)
	addMathFlags(fs, &f.math)
	addPageFlags(fs, &f.page)
	addOutputFlags(fs, &f.output)
	fs.StringVar(&f.title, "title", "", "document title (\"\" = first heading)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assets, "assets", "", "custom asset directory")
	fs.BoolVar(&f.allowHTML, "allow-html", false, "pass raw HTML in the input through")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF export timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseBlocksFlags parses blocks command flags and returns positional args.
func parseBlocksFlags(args []string, env *Environment) (*blocksFlags, []string, error) {
	f := &blocksFlags{}
	fs := newFlagSet("blocks", printBlocksUsage, env.Stderr)

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.format, "format", "f", formatText, "output format: text, yaml, json")
	fs.StringVar(&f.validator, "validator", "", "formula validator: balanced, strict, none")

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, env *Environment) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, env.Stderr)

	addCommonFlags(fs, &f.common)
	addMathFlags(fs, &f.math)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.Int64Var(&f.maxBodyBytes, "max-body", 0, "maximum request body in bytes")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent renders (0 = auto)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assets, "assets", "", "custom asset directory")
	fs.BoolVar(&f.allowHTML, "allow-html", false, "pass raw HTML in the input through")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}
