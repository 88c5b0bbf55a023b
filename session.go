package reader

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the fragments recognized in one image and the user's
// selection of them. The fragments are fixed for the session; the selection
// has one entry per fragment.
type Session struct {
	ID   uuid.UUID
	File *File

	mu        sync.Mutex
	fragments []Fragment
	selected  []bool
}

// NewSession keeps only usable fragments. Nothing is selected initially.
func NewSession(file *File, fragments []Fragment) *Session {
	usable := Usable(fragments)
	return &Session{
		ID:        uuid.New(),
		File:      file,
		fragments: usable,
		selected:  make([]bool, len(usable)),
	}
}

func (s *Session) Fragments() []Fragment {
	return append([]Fragment{}, s.fragments...)
}

func (s *Session) Selected() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool{}, s.selected...)
}

// Set selects or deselects fragment i. Out of range indices are ignored.
func (s *Session) Set(i int, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.selected) {
		s.selected[i] = selected
	}
}

func (s *Session) Toggle(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.selected) {
		s.selected[i] = !s.selected[i]
	}
}

func (s *Session) SelectAll(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.selected {
		s.selected[i] = selected
	}
}

// SelectAt sets every fragment whose box contains the normalized point (x, y)
// and returns the indices that changed state.
func (s *Session) SelectAt(x, y float64, selected bool) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []int
	for i, f := range s.fragments {
		if f.Box.Contains(x, y) && s.selected[i] != selected {
			s.selected[i] = selected
			changed = append(changed, i)
		}
	}
	return changed
}

func (s *Session) HasSelection() bool {
	return HasSelection(s.fragments, s.Selected())
}

// Text extracts the selected text with e.
func (s *Session) Text(e *Extractor) (string, error) {
	return e.Extract(s.fragments, s.Selected())
}
