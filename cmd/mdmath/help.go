package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render text with math to PDF and/or HTML")
	fmt.Fprintln(w, "  blocks     Show how text is split into prose and display math")
	fmt.Fprintln(w, "  serve      Run the HTTP preview server")
	fmt.Fprintln(w, "  doctor     Check the PDF export environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdmath help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath render [flags] [file|dir ...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render prose with embedded LaTeX math. With no file, or '-', reads stdin")
	fmt.Fprintln(w, "and writes to stdout unless --output names a file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "      --html                Write HTML alongside PDF")
	fmt.Fprintln(w, "      --html-only           Write HTML only, skip PDF")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "      --math-engine <s>     Math engine: katex, none")
	fmt.Fprintln(w, "      --validator <s>       Formula validator: balanced, strict, none")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title (\"\" = first heading)")
	fmt.Fprintln(w, "      --allow-html          Pass raw HTML in the input through")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name or CSS file path")
	fmt.Fprintln(w, "      --css <path>          Extra CSS appended after the style")
	fmt.Fprintln(w, "      --assets <dir>        Custom asset directory")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printBlocksUsage prints usage for the blocks command.
func printBlocksUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath blocks [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the text and math blocks a file is split into, and how each")
	fmt.Fprintln(w, "block would render. Reads stdin when no file is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: text, yaml, json")
	fmt.Fprintln(w, "      --validator <s>       Formula validator: balanced, strict, none")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmath serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve an HTML preview over HTTP:")
	fmt.Fprintln(w, "  POST /render[?format=html|json&title=...]   body is the text")
	fmt.Fprintln(w, "  GET  /health")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --max-body <n>        Maximum request body in bytes")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent renders (0 = auto)")
	fmt.Fprintln(w, "      --math-engine <s>     Math engine: katex, none")
	fmt.Fprintln(w, "      --validator <s>       Formula validator: balanced, strict, none")
	fmt.Fprintln(w, "      --style <s>           Style name or CSS file path")
	fmt.Fprintln(w, "      --assets <dir>        Custom asset directory")
	fmt.Fprintln(w, "      --allow-html          Pass raw HTML in the input through")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log debug output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "blocks":
		printBlocksUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdmath doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that Chrome can be found and launched for PDF export.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdmath version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdmath help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
