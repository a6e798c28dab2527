package tui

// syncPhase is the coordinator's position in the {Idle, Syncing} machine
type syncPhase int

const (
	syncIdle syncPhase = iota
	syncInFlight
)

// syncState serializes sync requests: at most one is in flight, and any
// number of requests made meanwhile collapse into a single pending flag.
type syncState struct {
	phase   syncPhase
	pending bool // only meaningful while syncInFlight, see fail()
}

// request reports whether the caller should start a sync now.
// While one is in flight it records a pending change instead.
func (s *syncState) request() bool {
	if s.phase == syncInFlight {
		s.pending = true
		return false
	}
	s.phase = syncInFlight
	return true
}

// complete returns to idle and reports (and clears) whether a resync is owed
func (s *syncState) complete() bool {
	s.phase = syncIdle
	resync := s.pending
	s.pending = false
	return resync
}

// fail returns to idle. The pending flag is left as-is: it is neither acted
// on now nor cleared, so it is honored by the next successful sync.
func (s *syncState) fail() {
	s.phase = syncIdle
}

func (s syncState) syncing() bool {
	return s.phase == syncInFlight
}
