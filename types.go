package mdmath

import (
	"fmt"
	"strings"

	"github.com/alnah/go-mdmath/internal/pipeline"
)

// Block types produced by the pipeline. A Block is either a TextBlock
// holding Markdown with inline math, or a MathBlock holding one display
// formula.
type (
	Block     = pipeline.Block
	TextBlock = pipeline.TextBlock
	MathBlock = pipeline.MathBlock
)

// Surface is the display target blocks are emitted to.
type Surface = pipeline.Surface

// Report summarizes one emission; see pipeline.Report.
type (
	Report       = pipeline.Report
	BlockFailure = pipeline.BlockFailure
	Stage        = pipeline.Stage
)

// Emit stages recorded in a BlockFailure.
const (
	StageMarkup    = pipeline.StageMarkup
	StageMath      = pipeline.StageMath
	StageMathRetry = pipeline.StageMathRetry
	StageFallback  = pipeline.StageFallback
)

// MathAssets locates the client-side math engine files.
type MathAssets = pipeline.MathAssets

// Math engines.
const (
	MathEngineKaTeX = "katex"
	MathEngineNone  = "none"
)

// Formula validators, from loosest to strictest.
const (
	ValidatorNone     = pipeline.ValidatorNone
	ValidatorBalanced = pipeline.ValidatorBalanced
	ValidatorStrict   = pipeline.ValidatorStrict
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns US Letter, portrait, half-inch margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid. A nil receiver is valid
// and means defaults; so are an empty size or orientation and a zero margin.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if p.Size != "" {
		if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
		}
	}

	switch strings.ToLower(p.Orientation) {
	case "", OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// withDefaults returns a copy with empty fields set to their defaults.
func (p *PageSettings) withDefaults() PageSettings {
	out := *DefaultPageSettings()
	if p == nil {
		return out
	}
	if p.Size != "" {
		out.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		out.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin != 0 {
		out.Margin = p.Margin
	}
	return out
}

// dimensions returns the paper width and height in inches.
func (p PageSettings) dimensions() (width, height float64) {
	size := paperSizes[strings.ToLower(p.Size)]
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return size[1], size[0]
	}
	return size[0], size[1]
}

// paperSizes maps a page size to its portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// Input is one conversion request.
type Input struct {
	Text     string        // prose with embedded math; empty is allowed
	Title    string        // document title; empty uses the first heading
	CSS      string        // extra CSS appended after the converter style
	Page     *PageSettings // nil uses DefaultPageSettings
	HTMLOnly bool          // skip PDF export
	BaseDir  string        // directory relative image and link paths resolve against
}

// ConvertResult holds the conversion output.
type ConvertResult struct {
	HTML   []byte  // complete HTML document
	PDF    []byte  // nil when Input.HTMLOnly is set
	Blocks []Block // classified input, in emission order
	Report Report  // what happened to each block
}
