// Package hints builds the actionable suffixes appended to CLI error
// messages. Every hint has the form "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdmath/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

func inCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod environment variables that usually
// fix a failed browser launch, and the HTML-only escape hatch.
func ForBrowserConnect() string {
	var hints []string

	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use a custom Chrome")
	}
	hints = append(hints, "use --html-only to skip PDF export")

	return formatHints(hints)
}

// ForTimeout suggests a longer timeout.
func ForTimeout() string {
	return format("for long documents, raise --timeout")
}

// ForMathAssets is shown when the math engine never signalled it was
// ready, which mostly means its scripts could not be fetched.
func ForMathAssets() string {
	return format("point math.katexJS at a reachable copy or use --math-engine none")
}

// ForConfigNotFound suggests --config or the user config path that was
// searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), ".config/go-mdmath") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is shown when an output file cannot be created.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForRenderFailures is shown when blocks fell back to literal code.
func ForRenderFailures() string {
	return format("run 'mdmath blocks' on the input to inspect how it was split")
}

// slashed turns Windows separators into forward slashes.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
