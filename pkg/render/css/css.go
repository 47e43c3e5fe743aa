// Package css is a style sink that renders each space as a CSS rule.
//
// Edge and axis values keep the adjustment lists symbolic: a fill space
// pushed past a 200px sidebar that was dragged 30px wider gets
//
//	left: calc(0px + 200px + 30px);
//
// so percentages and other units are combined by the browser, not here.
package css

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/BenJenkinson/react-spaces/pkg/spaces"
)

// Declaration is one "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Value renders a size field. Parts are the requested size (when set), each
// adjustment in order, and the drag offset (when non-zero). A single part is
// returned as is; several are joined into calc(). An empty result means the
// property is left out.
func Value(info spaces.SizeInfo) string {
	var parts []string
	if info.Size.IsSet() {
		parts = append(parts, info.Size.String())
	}
	for _, a := range info.Adjusted {
		parts = append(parts, a.String())
	}
	if info.Resized != 0 {
		parts = append(parts, spaces.Px(info.Resized).String())
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "calc(" + strings.Join(parts, " + ") + ")"
}

// Declarations returns the declarations of a space in a stable order.
func Declarations(s *spaces.Space) []Declaration {
	decls := []Declaration{{"position", string(s.Position)}}

	sizes := []struct {
		prop string
		info spaces.SizeInfo
	}{
		{"left", s.Left},
		{"top", s.Top},
		{"right", s.Right},
		{"bottom", s.Bottom},
		{"width", s.Width},
		{"height", s.Height},
	}
	for _, sz := range sizes {
		if v := Value(sz.info); v != "" {
			decls = append(decls, Declaration{sz.prop, v})
		}
	}

	if s.ZIndex != 0 {
		decls = append(decls, Declaration{"z-index", strconv.Itoa(s.ZIndex)})
	}
	if s.Scrollable {
		decls = append(decls, Declaration{"overflow", "auto"})
	} else {
		decls = append(decls, Declaration{"overflow", "hidden"})
	}
	switch s.CenterContent {
	case spaces.CenterVertical:
		decls = append(decls, Declaration{"display", "flex"}, Declaration{"align-items", "center"})
	case spaces.CenterHorizontalVertical:
		decls = append(decls,
			Declaration{"display", "flex"},
			Declaration{"align-items", "center"},
			Declaration{"justify-content", "center"})
	}
	if s.Resizing {
		decls = append(decls, Declaration{"user-select", "none"})
	}
	return decls
}

// Rule renders the full rule for a space, keyed by its id selector.
func Rule(s *spaces.Space) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%s {\n", s.ID)
	for _, d := range Declarations(s) {
		fmt.Fprintf(&b, "  %s: %s;\n", d.Property, d.Value)
	}
	b.WriteString("}\n")
	return b.String()
}

// =============================================================================
// Sheet
// =============================================================================

// Sheet is a [spaces.StyleSink] holding one rule per mounted space, in the
// order the spaces were first pushed.
type Sheet struct {
	mu      sync.Mutex
	rules   map[string]string
	order   []string
	updates int
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{rules: make(map[string]string)}
}

// UpdateStyleDefinition re-renders the rule for s.
func (sh *Sheet) UpdateStyleDefinition(s *spaces.Space) {
	rule := Rule(s)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.rules[s.ID]; !ok {
		sh.order = append(sh.order, s.ID)
	}
	sh.rules[s.ID] = rule
	sh.updates++
}

// RemoveStyleDefinition drops the rule for s.
func (sh *Sheet) RemoveStyleDefinition(s *spaces.Space) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.rules[s.ID]; !ok {
		return
	}
	delete(sh.rules, s.ID)
	for i, id := range sh.order {
		if id == s.ID {
			sh.order = append(sh.order[:i], sh.order[i+1:]...)
			break
		}
	}
}

// Rule returns the current rule for id.
func (sh *Sheet) Rule(id string) (string, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	r, ok := sh.rules[id]
	return r, ok
}

// Len returns the number of rules.
func (sh *Sheet) Len() int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return len(sh.rules)
}

// Updates returns how many updates the sheet has received.
func (sh *Sheet) Updates() int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.updates
}

// String renders the whole stylesheet.
func (sh *Sheet) String() string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	var b strings.Builder
	for i, id := range sh.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sh.rules[id])
	}
	return b.String()
}

// Bytes renders the whole stylesheet.
func (sh *Sheet) Bytes() []byte { return []byte(sh.String()) }
