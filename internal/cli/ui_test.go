package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// captureStatus redirects status lines into a buffer for the test's duration.
func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prev })
	return &buf
}

func TestFormatRect(t *testing.T) {
	tests := []struct {
		rect spaces.Rect
		want string
	}{
		{spaces.Rect{X: 195, Y: 50, W: 5, H: 350}, "195,50 5x350"},
		{spaces.Rect{X: 200, Y: 300, W: 600, H: 100}, "200,300 600x100"},
		{spaces.Rect{X: 0.5, W: -10, H: 0}, "0.5,0 -10x0"},
	}
	for _, tt := range tests {
		if got := formatRect(tt.rect); got != tt.want {
			t.Errorf("formatRect(%+v) = %q, want %q", tt.rect, got, tt.want)
		}
	}
	if got := formatViewport(spaces.Rect{W: 800, H: 600}); got != "800x600" {
		t.Errorf("formatViewport = %q", got)
	}
}

func TestFormatDrag(t *testing.T) {
	if got := formatDrag("sidebar", 40); !strings.Contains(got, "sidebar resized by") || !strings.Contains(got, "+40px") {
		t.Errorf("formatDrag(40) = %q", got)
	}
	if got := formatDrag("bottom", -12.5); !strings.Contains(got, "-12.5px") {
		t.Errorf("formatDrag(-12.5) = %q", got)
	}
}

func TestFormatStats(t *testing.T) {
	tests := map[string]struct {
		spaces, resizes int
		cached          bool
		want, absent    []string
	}{
		"fresh":      {8, 0, false, []string{"8 spaces", "fresh"}, []string{"resizes", "cached"}},
		"cached":     {8, 2, true, []string{"8 spaces", "2 resizes", "cached"}, []string{"fresh"}},
		"empty sink": {0, 0, false, []string{"fresh"}, []string{"spaces"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := formatStats(tt.spaces, tt.resizes, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatStats missing %q: %q", w, got)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("formatStats has %q: %q", a, got)
				}
			}
		})
	}
}

func TestResizeStatusLines(t *testing.T) {
	status := captureStatus(t)
	c, _, ctx := testCLI()

	if err := c.runResize(ctx, demoLayout, resizeOpts{space: "sidebar", by: "-50,0"}); err != nil {
		t.Fatalf("runResize: %v", err)
	}
	text := status.String()
	for _, want := range []string{"✓ sidebar resized by", "-50px", "sidebar now at 0,50 150x350"} {
		if !strings.Contains(text, want) {
			t.Errorf("status output missing %q:\n%s", want, text)
		}
	}
}
