package confirm

// Slot is the one place a confirmation can live. Opening a new state
// replaces whatever was there, so two dialogs can never be visible at once.
//
// Slot is owned by the UI event loop and is not safe for concurrent use.
type Slot struct {
	state State
	busy  bool
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{state: None{}}
}

// Open makes s the active confirmation. A nil state closes the slot.
func (s *Slot) Open(state State) {
	if state == nil {
		state = None{}
	}
	s.state = state
	s.busy = false
}

// Close resets the slot to None.
func (s *Slot) Close() {
	s.state = None{}
	s.busy = false
}

// Active returns the current state, never nil.
func (s *Slot) Active() State {
	if s.state == nil {
		return None{}
	}
	return s.state
}

// Kind returns the tag of the active state.
func (s *Slot) Kind() Kind {
	return s.Active().Kind()
}

// IsOpen reports whether any dialog is active.
func (s *Slot) IsOpen() bool {
	return s.Kind() != KindNone
}

// Visible reports whether the modal for kind should be shown.
func (s *Slot) Visible(kind Kind) bool {
	return kind != KindNone && s.Kind() == kind
}

// ToggleCascade flips the cascade flag of an active column or table
// dialog. Anything else, including an in-flight dialog, is left as is.
func (s *Slot) ToggleCascade() {
	if s.busy {
		return
	}
	switch st := s.Active().(type) {
	case ColumnDelete:
		st.Cascade = !st.Cascade
		s.state = st
	case TableDelete:
		st.Cascade = !st.Cascade
		s.state = st
	}
}

// Cascade returns the cascade flag of the active state.
func (s *Slot) Cascade() bool {
	switch st := s.Active().(type) {
	case ColumnDelete:
		return st.Cascade
	case TableDelete:
		return st.Cascade
	}
	return false
}

// Busy reports whether the confirmed mutation is still running.
func (s *Slot) Busy() bool {
	return s.busy
}

// SetBusy marks the dialog as waiting for its mutation. It is ignored
// when no dialog is open.
func (s *Slot) SetBusy(busy bool) {
	if !s.IsOpen() {
		s.busy = false
		return
	}
	s.busy = busy
}
