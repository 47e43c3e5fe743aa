package spaces

// StyleSink turns computed spaces into final positional styles.
// UpdateStyleDefinition is called when a space is added, when it is found
// dirty by a recalculation, and after explicit updates. RemoveStyleDefinition
// is called exactly once, when the space is removed.
//
// Sinks are called with the store lock held and must not call back into
// the Store.
type StyleSink interface {
	UpdateStyleDefinition(s *Space)
	RemoveStyleDefinition(s *Space)
}

// NopSink discards every style update.
type NopSink struct{}

func (NopSink) UpdateStyleDefinition(*Space) {}
func (NopSink) RemoveStyleDefinition(*Space) {}

// SinkFuncs adapts a pair of functions to StyleSink. Either may be nil.
type SinkFuncs struct {
	Update func(*Space)
	Remove func(*Space)
}

func (f SinkFuncs) UpdateStyleDefinition(s *Space) {
	if f.Update != nil {
		f.Update(s)
	}
}

func (f SinkFuncs) RemoveStyleDefinition(s *Space) {
	if f.Remove != nil {
		f.Remove(s)
	}
}

// MultiSink forwards to each sink in turn.
type MultiSink []StyleSink

func (m MultiSink) UpdateStyleDefinition(s *Space) {
	for _, sink := range m {
		sink.UpdateStyleDefinition(s)
	}
}

func (m MultiSink) RemoveStyleDefinition(s *Space) {
	for _, sink := range m {
		sink.RemoveStyleDefinition(s)
	}
}
