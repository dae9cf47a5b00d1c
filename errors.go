package mdmath

import (
	"errors"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrMathNotReady   = errors.New("math typesetting did not finish")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Math errors.
	ErrFormulaRejected   = pipeline.ErrFormulaRejected
	ErrUnknownValidator  = pipeline.ErrUnknownValidator
	ErrUnknownMathEngine = errors.New("unknown math engine")
	ErrMathAssetsRender  = pipeline.ErrMathAssetsRender
	ErrInvalidMathAsset  = errors.New("invalid math asset location")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
