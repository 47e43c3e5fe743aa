package spaces

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/BenJenkinson/react-spaces/pkg/observability"
)

// ResizeType names the anchor of the space being resized. Dragging the
// handle away from that anchor grows the space.
type ResizeType int

const (
	ResizeLeft ResizeType = iota
	ResizeTop
	ResizeRight
	ResizeBottom
)

func (t ResizeType) String() string {
	switch t {
	case ResizeLeft:
		return "left"
	case ResizeTop:
		return "top"
	case ResizeRight:
		return "right"
	case ResizeBottom:
		return "bottom"
	}
	return fmt.Sprintf("ResizeType(%d)", int(t))
}

// ResizeTypeOf returns the resize type for a space pinned to a.
func ResizeTypeOf(a Anchor) (ResizeType, bool) {
	switch a {
	case AnchorLeft:
		return ResizeLeft, true
	case AnchorTop:
		return ResizeTop, true
	case AnchorRight:
		return ResizeRight, true
	case AnchorBottom:
		return ResizeBottom, true
	}
	return 0, false
}

// Delta projects the pointer movement from origin to p onto the resize
// axis. Right and bottom are inverted so that moving away from the anchor
// is always positive.
func (t ResizeType) Delta(origin, p Point) float64 {
	switch t {
	case ResizeLeft:
		return p.X - origin.X
	case ResizeRight:
		return origin.X - p.X
	case ResizeTop:
		return p.Y - origin.Y
	case ResizeBottom:
		return origin.Y - p.Y
	}
	return 0
}

// ResizeOption configures a single drag.
type ResizeOption func(*resizeOptions)

type resizeOptions struct {
	onStart func() bool
	onEnd   func(resized float64)
}

// WithOnResizeStart runs fn before the drag starts. Returning false vetoes
// the drag and no session is created.
func WithOnResizeStart(fn func() bool) ResizeOption {
	return func(o *resizeOptions) { o.onStart = fn }
}

// WithOnResizeEnd runs fn with the final offset when the end event arrives.
// It is not called when the drag is cancelled.
func WithOnResizeEnd(fn func(resized float64)) ResizeOption {
	return func(o *resizeOptions) { o.onEnd = fn }
}

// =============================================================================
// Sessions
// =============================================================================

// ResizeSession is the Resizing state of one space: where the pointer went
// down and what the offset was at that moment. A session ends exactly once,
// by an end event, by Cancel, by a newer drag on the same space or by the
// space's removal, and every ending detaches its listeners.
type ResizeSession struct {
	ID       ulid.ULID
	Type     ResizeType
	Space    *Space
	Origin   Point
	Baseline float64

	size    *SizeInfo
	pointer PointerFunc
	opts    resizeOptions
	resizer *Resizer

	mu      sync.Mutex
	done    bool
	release []func()
}

// Active reports whether the session is still receiving events.
func (rs *ResizeSession) Active() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return !rs.done
}

// Cancel detaches the session without a final update. The offset keeps its
// last value.
func (rs *ResizeSession) Cancel() {
	rs.resizer.cancel(rs)
}

func (rs *ResizeSession) attach(cancel func()) {
	rs.mu.Lock()
	if rs.done {
		rs.mu.Unlock()
		cancel()
		return
	}
	rs.release = append(rs.release, cancel)
	rs.mu.Unlock()
}

// stop marks the session done and detaches its listeners. It reports false
// if the session had already stopped.
func (rs *ResizeSession) stop() bool {
	rs.mu.Lock()
	if rs.done {
		rs.mu.Unlock()
		return false
	}
	rs.done = true
	release := rs.release
	rs.release = nil
	rs.mu.Unlock()

	for _, cancel := range release {
		cancel()
	}
	return true
}

func (rs *ResizeSession) onMove(e Event) {
	if !rs.Active() {
		return
	}
	p, ok := rs.pointer(e)
	if !ok {
		return
	}
	v := rs.Baseline + rs.Type.Delta(rs.Origin, p)
	rs.resizer.store.setResized(rs.size, v)
	observability.Resize().OnResizeMove(rs.Space.ID, v)
	rs.Space.Update()
}

func (rs *ResizeSession) onEnd(Event) {
	rs.resizer.finish(rs)
}

// =============================================================================
// Resizer
// =============================================================================

// Resizer runs drag sessions against the spaces of one Store. At most one
// session is active per space; starting another replaces it.
type Resizer struct {
	store  *Store
	logger *log.Logger

	// mu guards active. It is never held while acquiring store.mu.
	mu     sync.Mutex
	active map[*Space]*ResizeSession
}

func newResizer(s *Store) *Resizer {
	return &Resizer{
		store:  s,
		logger: s.logger,
		active: make(map[*Space]*ResizeSession),
	}
}

// StartResize moves sp from Idle to Resizing. It records the origin
// coordinate, snapshots size.Resized as the baseline, sets sp.Resizing and
// listens on src for move and end events until the drag ends.
//
// On every move size.Resized becomes baseline plus the projected pointer
// delta and sp.Update is called; the parent is not recalculated. On the end
// event the listeners are removed, sp.Resizing is cleared and sp.Update is
// called a last time.
//
// StartResize returns nil when the origin event has no coordinate or an
// OnResizeStart hook vetoes the drag.
func (r *Resizer) StartResize(rt ResizeType, origin Event, sp *Space, size *SizeInfo, src EventSource, end, move EventKind, pointer PointerFunc, opts ...ResizeOption) *ResizeSession {
	var o resizeOptions
	for _, opt := range opts {
		opt(&o)
	}
	p, ok := pointer(origin)
	if !ok {
		r.logger.Warn("resize origin has no pointer coordinate", "space", sp.ID)
		return nil
	}
	if o.onStart != nil && !o.onStart() {
		r.logger.Debug("resize vetoed", "space", sp.ID)
		return nil
	}

	sess := &ResizeSession{
		ID:      ulid.Make(),
		Type:    rt,
		Space:   sp,
		Origin:  p,
		size:    size,
		pointer: pointer,
		opts:    o,
		resizer: r,
	}

	r.mu.Lock()
	prev := r.active[sp]
	r.active[sp] = sess
	r.mu.Unlock()
	if prev != nil {
		prev.stop()
		r.logger.Debug("resize replaced", "space", sp.ID, "session", prev.ID)
	}

	r.store.mu.Lock()
	sess.Baseline = size.Resized
	sp.Resizing = true
	r.store.mu.Unlock()

	sess.attach(src.Listen(move, sess.onMove))
	sess.attach(src.Listen(end, sess.onEnd))

	r.logger.Debug("resize started", "space", sp.ID, "type", rt, "session", sess.ID, "origin", p, "baseline", sess.Baseline)
	observability.Resize().OnResizeStart(sp.ID, sess.ID.String())
	sp.UpdateParent()
	return sess
}

// Active returns the session currently resizing sp.
func (r *Resizer) Active(sp *Space) (*ResizeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.active[sp]
	return sess, ok
}

// Cancel ends any drag on sp without a final update.
func (r *Resizer) Cancel(sp *Space) {
	if sess, ok := r.Active(sp); ok {
		r.cancel(sess)
	}
}

func (r *Resizer) finish(sess *ResizeSession) {
	if !r.end(sess) {
		return
	}
	r.store.mu.Lock()
	sess.Space.Resizing = false
	resized := sess.size.Resized
	r.store.mu.Unlock()

	r.logger.Debug("resize ended", "space", sess.Space.ID, "session", sess.ID, "resized", resized)
	observability.Resize().OnResizeEnd(sess.Space.ID, resized, false)
	if sess.opts.onEnd != nil {
		sess.opts.onEnd(resized)
	}
	sess.Space.Update()
	sess.Space.UpdateParent()
}

func (r *Resizer) cancel(sess *ResizeSession) {
	if !r.end(sess) {
		return
	}
	r.store.mu.Lock()
	sess.Space.Resizing = false
	resized := sess.size.Resized
	r.store.mu.Unlock()

	r.logger.Debug("resize cancelled", "space", sess.Space.ID, "session", sess.ID)
	observability.Resize().OnResizeEnd(sess.Space.ID, resized, true)
}

// end stops sess and forgets it if it is still the active session of its
// space.
func (r *Resizer) end(sess *ResizeSession) bool {
	if !sess.stop() {
		return false
	}
	r.mu.Lock()
	if r.active[sess.Space] == sess {
		delete(r.active, sess.Space)
	}
	r.mu.Unlock()
	return true
}

// detach stops and forgets the active session of sp, if any, without
// touching the space. Called by the Store with its lock held.
func (r *Resizer) detach(sp *Space) *ResizeSession {
	r.mu.Lock()
	sess, ok := r.active[sp]
	delete(r.active, sp)
	r.mu.Unlock()
	if !ok {
		return nil
	}
	sess.stop()
	return sess
}
