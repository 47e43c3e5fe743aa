// Package pipeline provides the layout pipeline shared by every command.
//
// This package implements the complete load → mount → resize → resolve →
// render pipeline. By centralizing this logic, the render, inspect and
// resize commands and the terminal UI all mount and measure a layout the
// same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Mount: Create every space of a layout document in a fresh
//     [spaces.Store] whose style sink is a [css.Sheet]
//  2. Resize: Replay scripted drags through the store's resize controller
//  3. Resolve: Turn the mounted tree into pixel boxes
//  4. Render: Generate output in various formats (SVG, JSON, CSS, DOT, PNG, PDF)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg", "css"},
//	    Resizes: []pipeline.ResizeStep{{Space: "sidebar", Delta: spaces.Point{X: 40}}},
//	}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run the first three stages alone with [Runner.Layout].
package pipeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/BenJenkinson/react-spaces/pkg/cache"
	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/render/css"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatCSS  = "css"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatCSS:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
type Options struct {
	// Viewport size. Zero falls back to the document's size, then to the
	// defaults.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// HandleSize applies to resizable spaces that do not set their own.
	HandleSize float64 `json:"handle_size,omitempty"`

	// Resizes are replayed in order after mounting.
	Resizes []ResizeStep `json:"resizes,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Handles  bool     `json:"handles,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT labels list edge sizes
	Refresh  bool     `json:"refresh,omitempty"`  // Skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ResizeStep is one scripted drag: the handle of Space is pressed at its
// centre, moved by Delta and released.
type ResizeStep struct {
	Space string       `json:"space"`
	Delta spaces.Point `json:"delta"`
}

// String renders the step in the form ParseResizeStep accepts.
func (s ResizeStep) String() string {
	return fmt.Sprintf("%s=%s,%s", s.Space,
		strconv.FormatFloat(s.Delta.X, 'f', -1, 64),
		strconv.FormatFloat(s.Delta.Y, 'f', -1, 64))
}

// ParseResizeStep parses "id=dx,dy".
func ParseResizeStep(s string) (ResizeStep, error) {
	id, delta, ok := strings.Cut(s, "=")
	if !ok || id == "" {
		return ResizeStep{}, errors.New(errors.ErrCodeInvalidInput, "invalid resize %q (want id=dx,dy)", s)
	}
	p, err := ParsePoint(delta)
	if err != nil {
		return ResizeStep{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid resize %q", s)
	}
	return ResizeStep{Space: id, Delta: p}, nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (spaces.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return spaces.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return spaces.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return spaces.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return spaces.Point{X: x, Y: y}, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the layout that was mounted.
	Document *spacesio.Document

	// DocumentHash is the content hash of the document.
	DocumentHash string

	// Store holds the mounted spaces; Root is the document's root space.
	Store *spaces.Store
	Root  *spaces.Space

	// Sheet received every style push made while mounting and resizing.
	Sheet *css.Sheet

	// Viewport is the rect the layout was resolved against.
	Viewport spaces.Rect

	// Boxes are the resolved geometry in drawing order.
	Boxes []geometry.Box

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool

	options Options
}

// Formats returns the formats the result was rendered in, in request order.
func (r *Result) Formats() []string {
	return r.options.Formats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SpaceCount  int
	ResizeCount int
	StyleWrites int
	MountTime   time.Duration
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, css, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults. The
// document, when given, supplies the viewport size before the package
// defaults do. This method is idempotent.
func (o *Options) ValidateAndSetDefaults(doc *spacesio.Document) error {
	if o.validated {
		return nil
	}
	if doc != nil {
		if o.Width == 0 {
			o.Width = doc.Width
		}
		if o.Height == 0 {
			o.Height = doc.Height
		}
	}
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport must not be negative, got %gx%g", o.Width, o.Height)
	}
	if o.HandleSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "handle size must not be negative, got %g", o.HandleSize)
	}
	for _, r := range o.Resizes {
		if r.Space == "" {
			return errors.New(errors.ErrCodeInvalidInput, "resize step without a space")
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for resolving and rendering.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Viewport returns the viewport rect.
func (o *Options) Viewport() spaces.Rect {
	return spaces.Rect{W: o.Width, H: o.Height}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	var resizes []string
	for _, r := range o.Resizes {
		resizes = append(resizes, r.String())
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Resizes:    resizes,
		HandleSize: o.HandleSize,
		Labels:     o.Labels,
		Handles:    o.Handles,
		Detailed:   o.Detailed,
	}
}
