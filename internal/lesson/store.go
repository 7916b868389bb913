package lesson

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for lesson ids the store doesn't hold.
var ErrNotFound = errors.New("lesson not found")

// Store is the ordered, most-recent-first collection of lessons plus the
// active lesson reference. It has a single writer (the UI update loop) and
// no locking.
type Store struct {
	lessons  []*Lesson
	activeID string
}

// NewStore returns a store holding the seed lessons.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Add prepends a copy of l and returns the stored copy. The collection is
// unbounded.
func (s *Store) Add(l *Lesson) *Lesson {
	stored := l.Clone()
	s.lessons = append([]*Lesson{stored}, s.lessons...)
	return stored
}

// SetActive selects the lesson with the given id.
func (s *Store) SetActive(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	s.activeID = id
	return nil
}

// Active returns the active lesson, or nil when none is selected.
func (s *Store) Active() *Lesson {
	if s.activeID == "" {
		return nil
	}
	l, err := s.Get(s.activeID)
	if err != nil {
		return nil
	}
	return l
}

// ActiveID returns the id of the active lesson, or "".
func (s *Store) ActiveID() string {
	return s.activeID
}

// ClearActive deselects the active lesson.
func (s *Store) ClearActive() {
	s.activeID = ""
}

// Get returns the lesson with the given id.
func (s *Store) Get(id string) (*Lesson, error) {
	for _, l := range s.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// All returns the lessons, most recent first.
func (s *Store) All() []*Lesson {
	return append([]*Lesson(nil), s.lessons...)
}

// Len returns the number of lessons.
func (s *Store) Len() int {
	return len(s.lessons)
}

// UpdateVocabulary replaces the vocabulary of lesson id with the result of fn.
// The lesson is addressed by id, never by "whichever is active".
func (s *Store) UpdateVocabulary(id string, fn func([]Vocabulary) []Vocabulary) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.Vocabulary = fn(l.Vocabulary)
	return nil
}

// Reset restores the seed lessons and clears the active lesson.
func (s *Store) Reset() {
	s.lessons = SeedLessons()
	s.activeID = ""
}
