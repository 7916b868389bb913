package lesson

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Status tracks where a vocabulary entry is in its lookup lifecycle.
type Status int

const (
	// StatusResolved entries carry a real definition.
	StatusResolved Status = iota
	// StatusPending entries are waiting on a definition lookup.
	StatusPending
	// StatusFailed entries could not be defined. They stay in the list.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "resolved"
	}
}

// Vocabulary is one studied word.
type Vocabulary struct {
	ID                string
	Word              string
	IPA               string
	EnglishDefinition string
	Meaning           string // Vietnamese meaning
	Type              string // part of speech
	Status            Status
}

// Lesson is a unit of study content. Everything but Vocabulary is fixed
// once the lesson is created.
type Lesson struct {
	ID          string
	Title       string
	FullText    string
	Summary     string
	Vocabulary  []Vocabulary
	DateCreated time.Time

	// ImageSource names the image or PDF the lesson was transcribed from.
	// Empty for pasted text.
	ImageSource string
}

// HasWord reports whether the lesson already lists word, ignoring case
// and surrounding whitespace.
func (l *Lesson) HasWord(word string) bool {
	key := foldWord(word)
	return lo.ContainsBy(l.Vocabulary, func(v Vocabulary) bool {
		return foldWord(v.Word) == key
	})
}

// VocabularyIndex returns the position of the entry with the given id.
func (l *Lesson) VocabularyIndex(id string) (int, bool) {
	_, idx, ok := lo.FindIndexOf(l.Vocabulary, func(v Vocabulary) bool {
		return v.ID == id
	})
	return idx, ok
}

// Clone returns a deep copy safe to hand to another goroutine.
func (l *Lesson) Clone() *Lesson {
	c := *l
	c.Vocabulary = append([]Vocabulary(nil), l.Vocabulary...)
	return &c
}

func foldWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
