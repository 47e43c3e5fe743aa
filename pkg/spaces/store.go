package spaces

import (
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/BenJenkinson/react-spaces/pkg/observability"
)

// Store owns every mounted space and is the only thing that mutates the
// tree. All operations are safe no-ops on unknown ids: a dangling parent id
// registers the space without linking it, and lookups of absent ids report
// not found.
//
// Store is safe for concurrent use. Mutations are serialised by one lock,
// style sinks run under that lock and must not call back into the Store,
// and update callbacks always run with the lock released.
type Store struct {
	mu     sync.Mutex
	spaces []*Space
	byID   map[string]*Space

	sink    StyleSink
	logger  *log.Logger
	newID   func() string
	resizer *Resizer
}

// Option configures a Store.
type Option func(*Store)

// WithSink sets the style sink notified of every style change.
func WithSink(sink StyleSink) Option {
	return func(s *Store) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets the logger for debug output and defect reports.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the generator used for spaces created without
// an id.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore returns an empty store. Without options it discards style
// updates and log output.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:   make(map[string]*Space),
		sink:   NopSink{},
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		newID:  generateID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resizer = newResizer(s)
	return s
}

// generateID returns "s" followed by ten hex digits of a random UUID.
func generateID() string {
	return "s" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// Resizer returns the resize controller bound to this store.
func (s *Store) Resizer() *Resizer { return s.resizer }

// =============================================================================
// Lookups
// =============================================================================

// GetSpace returns the registered space with the given id.
func (s *Store) GetSpace(id string) (*Space, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.byID[id]
	return sp, ok
}

// GetSpaces returns every registered space in registration order. The
// returned slice is a copy; the spaces are not.
func (s *Store) GetSpaces() []*Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.spaces)
}

// Len returns the number of registered spaces.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spaces)
}

// =============================================================================
// Lifecycle
// =============================================================================

// CreateSpace builds a space from props without registering it. Orientation
// and Position are derived from the anchor and type. An anchored space with
// no anchor is created anyway; its anchored edge is simply never adjusted.
func (s *Store) CreateSpace(parentID string, props Props, update func()) *Space {
	id := props.ID
	if id == "" {
		id = s.newID()
	}
	handle := props.HandleSize
	if handle <= 0 {
		handle = DefaultHandleSize
	}
	center := props.CenterContent
	if center == "" {
		center = CenterNone
	}

	sp := &Space{
		ID:            id,
		Type:          props.Type,
		Anchor:        props.Anchor,
		Orientation:   OrientationOf(props.Anchor),
		Position:      PositionOf(props.Type),
		Order:         props.Order,
		ZIndex:        props.ZIndex,
		Scrollable:    props.Scrollable,
		CenterContent: center,
		Resizable:     props.Resizable,
		HandleSize:    handle,
		Left:          newSizeInfo(props.Left),
		Top:           newSizeInfo(props.Top),
		Right:         newSizeInfo(props.Right),
		Bottom:        newSizeInfo(props.Bottom),
		Width:         newSizeInfo(props.Width),
		Height:        newSizeInfo(props.Height),
		ParentID:      parentID,
		update:        update,
	}
	if parentID != "" {
		sp.updateParent = func() {
			if parent, ok := s.GetSpace(parentID); ok {
				parent.Update()
			}
		}
	}
	if sp.Type == TypeAnchored && sp.Anchor == AnchorNone {
		s.logger.Warn("anchored space has no anchor", "space", id)
	}
	return sp
}

// AddSpace registers sp, links it under its parent when the parent is
// registered, recalculates the parent's children and pushes sp's style.
// Registering an id twice is ignored.
func (s *Store) AddSpace(sp *Space) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.byID[sp.ID]; dup {
		s.logger.Warn("space already registered", "space", sp.ID)
		return
	}
	s.spaces = append(s.spaces, sp)
	s.byID[sp.ID] = sp

	if parent := s.parentOf(sp); parent != nil {
		parent.Children = append(parent.Children, sp)
		s.recalc(parent)
	}
	s.sink.UpdateStyleDefinition(sp)
	observability.Store().OnSpaceAdded(sp.ID, sp.ParentID)
}

// RemoveSpace unregisters sp, unlinks it from its parent and recalculates
// the remaining siblings. A resize in progress on sp is cancelled.
func (s *Store) RemoveSpace(sp *Space) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.resizer.detach(sp); sess != nil {
		sp.Resizing = false
		s.logger.Debug("resize cancelled by removal", "space", sp.ID, "session", sess.ID)
	}

	s.spaces = slices.DeleteFunc(s.spaces, func(o *Space) bool { return o.ID == sp.ID })
	if s.byID[sp.ID] == sp {
		delete(s.byID, sp.ID)
	}

	if parent := s.parentOf(sp); parent != nil {
		parent.Children = slices.DeleteFunc(parent.Children, func(o *Space) bool { return o.ID == sp.ID })
		s.recalc(parent)
	}
	s.sink.RemoveStyleDefinition(sp)
	observability.Store().OnSpaceRemoved(sp.ID, sp.ParentID)
}

// UpdateStyles recalculates sp's siblings and pushes sp's style, for when
// the space changed without a props change (after a drag, for instance).
func (s *Store) UpdateStyles(sp *Space) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parent := s.parentOf(sp); parent != nil {
		s.recalc(parent)
	}
	s.sink.UpdateStyleDefinition(sp)
}

// UpdateSpace diffs props against sp field by field. Changing a requested
// size discards any drag offset on that size. If anything changed, the
// parent's children are recalculated and sp's style is pushed.
func (s *Store) UpdateSpace(sp *Space, props Props) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false

	if sp.Type != props.Type {
		sp.Type = props.Type
		sp.Position = PositionOf(props.Type)
		changed = true
	}
	if sp.Anchor != props.Anchor {
		// The old edge is no longer recalculated; drop what it was given.
		if old := sp.Edge(sp.Anchor); old != nil {
			old.Adjusted = nil
		}
		sp.Anchor = props.Anchor
		sp.Orientation = OrientationOf(props.Anchor)
		changed = true
	}

	sizes := [...]struct {
		info *SizeInfo
		size SizeUnit
	}{
		{&sp.Left, props.Left},
		{&sp.Right, props.Right},
		{&sp.Top, props.Top},
		{&sp.Bottom, props.Bottom},
		{&sp.Width, props.Width},
		{&sp.Height, props.Height},
	}
	for _, sz := range sizes {
		if sz.info.Size != sz.size {
			sz.info.Size = sz.size
			sz.info.Resized = 0
			changed = true
		}
	}

	if sp.Order != props.Order {
		sp.Order = props.Order
		changed = true
	}
	if sp.ZIndex != props.ZIndex {
		sp.ZIndex = props.ZIndex
		changed = true
	}
	if sp.Scrollable != props.Scrollable {
		sp.Scrollable = props.Scrollable
		changed = true
	}
	center := props.CenterContent
	if center == "" {
		center = CenterNone
	}
	if sp.CenterContent != center {
		sp.CenterContent = center
		changed = true
	}
	if sp.Resizable != props.Resizable {
		sp.Resizable = props.Resizable
		changed = true
	}
	if props.HandleSize > 0 && sp.HandleSize != props.HandleSize {
		sp.HandleSize = props.HandleSize
		changed = true
	}

	if !changed {
		return
	}
	if parent := s.parentOf(sp); parent != nil {
		s.recalc(parent)
	}
	s.sink.UpdateStyleDefinition(sp)
}

// setResized writes a drag offset under the store lock.
func (s *Store) setResized(size *SizeInfo, v float64) {
	s.mu.Lock()
	size.Resized = v
	s.mu.Unlock()
}

// =============================================================================
// Resizing
// =============================================================================

// StartMouseResize starts dragging size of sp, reading page coordinates
// from mouse events delivered by src.
func (s *Store) StartMouseResize(rt ResizeType, sp *Space, size *SizeInfo, src EventSource, e MouseEvent, opts ...ResizeOption) *ResizeSession {
	return s.resizer.StartResize(rt, e, sp, size, src, MouseUp, MouseMove, MousePointer, opts...)
}

// StartTouchResize starts dragging size of sp, following the first touch
// point of touch events delivered by src.
func (s *Store) StartTouchResize(rt ResizeType, sp *Space, size *SizeInfo, src EventSource, e TouchEvent, opts ...ResizeOption) *ResizeSession {
	return s.resizer.StartResize(rt, e, sp, size, src, TouchEnd, TouchMove, TouchPointer, opts...)
}

// =============================================================================
// Recalculation
// =============================================================================

func (s *Store) parentOf(sp *Space) *Space {
	if sp.ParentID == "" {
		return nil
	}
	return s.byID[sp.ParentID]
}

// recalc plans the whole pass before applying any of it, so no sibling
// ever sees a half-updated pass. Must be called with s.mu held.
func (s *Store) recalc(parent *Space) {
	start := time.Now()
	changes := Recalculate(parent.Children)
	dirty := Apply(changes)
	for _, sp := range dirty {
		s.sink.UpdateStyleDefinition(sp)
	}
	if len(dirty) > 0 {
		s.logger.Debug("recalculated", "parent", parent.ID, "children", len(parent.Children), "changed", len(dirty))
	}
	observability.Store().OnRecalculate(parent.ID, len(dirty), time.Since(start))
}
