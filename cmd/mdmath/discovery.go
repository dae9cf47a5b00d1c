package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmath/internal/fileutil"
)

// stdinName is the positional argument that selects stdin.
const stdinName = "-"

// inputExtensions lists the file types picked up from directories.
var inputExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// renderJob is one input and where its primary output goes.
type renderJob struct {
	InputPath  string // stdinName for stdin
	OutputPath string // "" writes to stdout
}

// discoverJobs expands positional arguments into jobs. output is a file
// when it carries the output extension and there is a single input;
// otherwise it is a directory, and files found under an input directory
// keep their relative layout beneath it.
func discoverJobs(args []string, output, ext string) ([]renderJob, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}

	var jobs []renderJob
	for _, arg := range args {
		if arg == stdinName {
			if len(args) > 1 {
				return nil, fmt.Errorf("%w: stdin cannot be combined with files", ErrUsage)
			}
			return []renderJob{{InputPath: stdinName, OutputPath: stdinOutput(output, ext)}}, nil
		}

		found, err := discoverPath(arg, output, ext)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, found...)
	}

	if isOutputFile(output, ext) && len(jobs) > 1 {
		return nil, fmt.Errorf("%w: --output %s names a file but there are %d inputs", ErrUsage, output, len(jobs))
	}
	return jobs, nil
}

func discoverPath(inputPath, output, ext string) ([]renderJob, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if !info.IsDir() {
		if !inputExtensions[strings.ToLower(filepath.Ext(inputPath))] {
			return nil, fmt.Errorf("%w: %q (expected .md, .markdown or .txt)", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		if isOutputFile(output, ext) {
			return []renderJob{{InputPath: inputPath, OutputPath: output}}, nil
		}
		return []renderJob{{InputPath: inputPath, OutputPath: fileutil.OutputPath(inputPath, output, ext)}}, nil
	}

	var jobs []renderJob
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !inputExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		dir := ""
		if output != "" {
			rel, err := filepath.Rel(inputPath, filepath.Dir(path))
			if err != nil {
				return err
			}
			dir = filepath.Join(output, rel)
		}
		jobs = append(jobs, renderJob{InputPath: path, OutputPath: fileutil.OutputPath(path, dir, ext)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no .md, .markdown or .txt files in %s", ErrNoInput, inputPath)
	}
	return jobs, nil
}

// stdinOutput resolves where stdin input is written.
func stdinOutput(output, ext string) string {
	switch {
	case output == "":
		return ""
	case isOutputFile(output, ext):
		return output
	default:
		return filepath.Join(output, "stdin."+ext)
	}
}

func isOutputFile(output, ext string) bool {
	return output != "" && strings.EqualFold(filepath.Ext(output), "."+ext)
}

// sidecarPath returns the HTML path written next to a PDF.
func sidecarPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}
