package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/BenJenkinson/react-spaces/pkg/cache"
	"github.com/BenJenkinson/react-spaces/pkg/errors"
	"github.com/BenJenkinson/react-spaces/pkg/geometry"
	spacesio "github.com/BenJenkinson/react-spaces/pkg/io"
	"github.com/BenJenkinson/react-spaces/pkg/observability"
	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// testDoc is an 800x600 viewport holding a 400px high app with a title bar
// and a body split into a resizable sidebar and a main area.
func testDoc() *spacesio.Document {
	return &spacesio.Document{
		Name:   "test",
		Width:  800,
		Height: 600,
		Spaces: []spacesio.Node{
			{ID: "app", Type: "fixed", Height: spaces.Px(400)},
			{ID: "title", Parent: "app", Type: "anchored", Anchor: "top", Order: 1, Size: spaces.Px(25)},
			{ID: "body", Parent: "app", Type: "fill"},
			{ID: "side", Parent: "body", Label: "Sidebar", Type: "anchored", Anchor: "left", Size: spaces.Px(200), Resizable: true},
			{ID: "main", Parent: "body", Type: "fill"},
		},
	}
}

func testRunner() *Runner {
	return NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func box(t *testing.T, r *Result, id string) geometry.Box {
	t.Helper()
	b, ok := geometry.Find(r.Boxes, id)
	if !ok {
		t.Fatalf("no box for %q", id)
	}
	return b
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"css", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "css"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseResizeStep(t *testing.T) {
	tests := []struct {
		in      string
		want    ResizeStep
		wantErr bool
	}{
		{"side=30,0", ResizeStep{Space: "side", Delta: spaces.Point{X: 30}}, false},
		{"bottom=0,-12.5", ResizeStep{Space: "bottom", Delta: spaces.Point{Y: -12.5}}, false},
		{"side= 4 , 5 ", ResizeStep{Space: "side", Delta: spaces.Point{X: 4, Y: 5}}, false},
		{"side", ResizeStep{}, true},
		{"=1,2", ResizeStep{}, true},
		{"side=1", ResizeStep{}, true},
		{"side=a,2", ResizeStep{}, true},
	}

	for _, tt := range tests {
		got, err := ParseResizeStep(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseResizeStep(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseResizeStep(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestResizeStepString(t *testing.T) {
	s := ResizeStep{Space: "side", Delta: spaces.Point{X: 30, Y: -2.5}}
	if got := s.String(); got != "side=30,-2.5" {
		t.Errorf("String() = %q", got)
	}
	back, err := ParseResizeStep(s.String())
	if err != nil || back != s {
		t.Errorf("ParseResizeStep(String()) = %+v, %v", back, err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(testDoc()); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Width != 800 || opts.Height != 600 {
		t.Errorf("viewport = %vx%v, want the document's 800x600", opts.Width, opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	var bare Options
	if err := bare.ValidateAndSetDefaults(nil); err != nil {
		t.Fatalf("ValidateAndSetDefaults(nil): %v", err)
	}
	if bare.Width != DefaultWidth || bare.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want defaults", bare.Width, bare.Height)
	}

	explicit := Options{Width: 1024}
	if err := explicit.ValidateAndSetDefaults(testDoc()); err != nil {
		t.Fatal(err)
	}
	if explicit.Width != 1024 || explicit.Height != 600 {
		t.Errorf("viewport = %vx%v, want 1024x600", explicit.Width, explicit.Height)
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := map[string]Options{
		"negative width":  {Width: -1},
		"negative handle": {HandleSize: -2},
		"unnamed resize":  {Resizes: []ResizeStep{{Delta: spaces.Point{X: 1}}}},
		"bad format":      {Formats: []string{"gif"}},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			if err := opts.ValidateAndSetDefaults(nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{
		Width: 800, Height: 600, Labels: true,
		Resizes: []ResizeStep{{Space: "side", Delta: spaces.Point{X: 30}}},
	}
	k := opts.ArtifactKeyOpts(FormatCSS)
	if k.Format != "css" || k.Width != 800 || !k.Labels {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
	if len(k.Resizes) != 1 || k.Resizes[0] != "side=30,0" {
		t.Errorf("Resizes = %v", k.Resizes)
	}
}

func TestLayout(t *testing.T) {
	r, err := testRunner().Layout(context.Background(), testDoc(), Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if r.Stats.SpaceCount != 5 {
		t.Errorf("SpaceCount = %d, want 5", r.Stats.SpaceCount)
	}
	if r.Root == nil || r.Root.ID != "app" {
		t.Fatalf("Root = %v", r.Root)
	}
	if len(r.Boxes) != 5 {
		t.Fatalf("got %d boxes, want 5", len(r.Boxes))
	}

	tests := []struct {
		id   string
		want spaces.Rect
	}{
		{"app", spaces.Rect{W: 800, H: 400}},
		{"title", spaces.Rect{W: 800, H: 25}},
		{"body", spaces.Rect{Y: 25, W: 800, H: 375}},
		{"side", spaces.Rect{Y: 25, W: 200, H: 375}},
		{"main", spaces.Rect{X: 200, Y: 25, W: 600, H: 375}},
	}
	for _, tt := range tests {
		if got := box(t, r, tt.id).Rect; got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.id, got, tt.want)
		}
	}

	side, _ := r.Store.GetSpace("side")
	if side.Dimension != (spaces.Rect{Y: 25, W: 200, H: 375}) {
		t.Errorf("side Dimension = %+v, want measured rect", side.Dimension)
	}
	if r.Sheet.Len() != 5 {
		t.Errorf("sheet has %d rules, want 5", r.Sheet.Len())
	}
	if len(r.Artifacts) != 0 {
		t.Errorf("Layout rendered %d artifacts", len(r.Artifacts))
	}
}

func TestExecute(t *testing.T) {
	opts := Options{Formats: []string{FormatSVG, FormatCSS, FormatJSON, FormatDOT}, Labels: true, Handles: true}
	runner := testRunner()
	r, err := runner.Execute(context.Background(), testDoc(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if r.CacheHit {
		t.Error("NullCache produced a cache hit")
	}
	nc := runner.Cache.(*cache.NullCache)
	if nc.Lookups() != 1 {
		t.Errorf("cache lookups = %d, want 1 (first miss stops the scan)", nc.Lookups())
	}
	if nc.Dropped() == 0 {
		t.Error("rendered artifacts were not offered to the cache")
	}

	want := map[string]string{
		FormatSVG:  `<title>test</title>`,
		FormatCSS:  "#main {",
		FormatJSON: `"label": "Sidebar"`,
		FormatDOT:  `"body" -> "side";`,
	}
	for format, snippet := range want {
		data, ok := r.Artifacts[format]
		if !ok {
			t.Errorf("missing %s artifact", format)
			continue
		}
		if !strings.Contains(string(data), snippet) {
			t.Errorf("%s artifact missing %q", format, snippet)
		}
	}
	if !strings.Contains(string(r.Artifacts[FormatSVG]), `class="handle" data-space="side"`) {
		t.Error("svg has no handle for side")
	}
	if !strings.Contains(string(r.Artifacts[FormatCSS]), "left: calc(0px + 200px);") {
		t.Errorf("main is not pushed past the sidebar:\n%s", r.Artifacts[FormatCSS])
	}
}

func TestExecuteResize(t *testing.T) {
	opts := Options{
		Formats: []string{FormatCSS},
		Resizes: []ResizeStep{{Space: "side", Delta: spaces.Point{X: 30, Y: 99}}},
	}
	r, err := testRunner().Execute(context.Background(), testDoc(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got := box(t, r, "side").Rect.W; got != 230 {
		t.Errorf("side width = %v, want 230", got)
	}
	if got := box(t, r, "main").Rect; got != (spaces.Rect{X: 230, Y: 25, W: 570, H: 375}) {
		t.Errorf("main = %+v", got)
	}
	if box(t, r, "side").Resizing {
		t.Error("side still resizing after release")
	}
	if r.Stats.ResizeCount != 1 {
		t.Errorf("ResizeCount = %d, want 1", r.Stats.ResizeCount)
	}

	sheet := string(r.Artifacts[FormatCSS])
	for _, want := range []string{"width: calc(200px + 30px);", "left: calc(0px + 200px + 30px);"} {
		if !strings.Contains(sheet, want) {
			t.Errorf("css missing %q:\n%s", want, sheet)
		}
	}
}

func TestExecuteResizeAccumulates(t *testing.T) {
	opts := Options{
		Formats: []string{FormatCSS},
		Resizes: []ResizeStep{
			{Space: "side", Delta: spaces.Point{X: 30}},
			{Space: "side", Delta: spaces.Point{X: -50}},
		},
	}
	r, err := testRunner().Execute(context.Background(), testDoc(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	side, _ := r.Store.GetSpace("side")
	if side.Width.Resized != -20 {
		t.Errorf("Resized = %v, want -20", side.Width.Resized)
	}
	if got := box(t, r, "main").Rect.X; got != 180 {
		t.Errorf("main x = %v, want 180", got)
	}
}

func TestExecuteResizeErrors(t *testing.T) {
	tests := []struct {
		space string
		code  errors.Code
	}{
		{"main", errors.ErrCodeInvalidInput},
		{"ghost", errors.ErrCodeSpaceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.space, func(t *testing.T) {
			opts := Options{Resizes: []ResizeStep{{Space: tt.space, Delta: spaces.Point{X: 1}}}}
			_, err := testRunner().Execute(context.Background(), testDoc(), opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteHandleSize(t *testing.T) {
	r, err := testRunner().Layout(context.Background(), testDoc(), Options{HandleSize: 10})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if got := box(t, r, "side").Handle; got != (spaces.Rect{X: 190, Y: 25, W: 10, H: 375}) {
		t.Errorf("handle = %+v", got)
	}
}

func TestDragAt(t *testing.T) {
	r, err := testRunner().Layout(context.Background(), testDoc(), Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if _, err := DragAt(r.Store, r.Boxes, spaces.Point{X: 50, Y: 100}, spaces.Point{X: 80, Y: 100}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("press off a handle: error = %v", err)
	}

	id, err := DragAt(r.Store, r.Boxes, spaces.Point{X: 197, Y: 100}, spaces.Point{X: 177, Y: 140})
	if err != nil {
		t.Fatalf("DragAt: %v", err)
	}
	if id != "side" {
		t.Errorf("dragged %q, want side", id)
	}
	side, _ := r.Store.GetSpace("side")
	if side.Width.Resized != -20 {
		t.Errorf("Resized = %v, want -20", side.Width.Resized)
	}
	if rule, _ := r.Sheet.Rule("side"); !strings.Contains(rule, "width: calc(200px + -20px);") {
		t.Errorf("side rule not updated:\n%s", rule)
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	doc := testDoc()
	doc.Spaces = append(doc.Spaces, spacesio.Node{ID: "main", Parent: "app", Type: "fill"})
	_, err := testRunner().Execute(context.Background(), doc, Options{})
	if !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("error = %v, want DUPLICATE_ID", err)
	}

	if _, err := testRunner().Execute(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("nil document error = %v", err)
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
	defer runner.Close()

	opts := Options{Formats: []string{FormatSVG, FormatCSS}}
	first, err := runner.Execute(ctx, testDoc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run hit the cache")
	}

	second, err := runner.Execute(ctx, testDoc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run missed the cache")
	}
	if string(second.Artifacts[FormatCSS]) != string(first.Artifacts[FormatCSS]) {
		t.Error("cached css differs")
	}

	resized := opts
	resized.Resizes = []ResizeStep{{Space: "side", Delta: spaces.Point{X: 10}}}
	third, err := runner.Execute(ctx, testDoc(), resized)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("different resizes hit the cache")
	}

	refresh := opts
	refresh.Refresh = true
	fourth, err := runner.Execute(ctx, testDoc(), refresh)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Error("refresh hit the cache")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnMountComplete(_ context.Context, layout string, n int, _ time.Duration, err error) {
	h.events = append(h.events, "mount")
}

func (h *recordingHooks) OnResolveComplete(context.Context, time.Duration, error) {
	h.events = append(h.events, "resolve")
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.events = append(h.events, "render")
}

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	if _, err := testRunner().Execute(context.Background(), testDoc(), Options{Formats: []string{FormatCSS}}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(h.events, ","); got != "mount,resolve,render" {
		t.Errorf("hook order = %s", got)
	}
}
