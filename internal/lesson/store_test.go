package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLesson(id, title string) *Lesson {
	return &Lesson{ID: id, Title: title, FullText: "Text for " + title}
}

func TestNewStoreHoldsSeed(t *testing.T) {
	s := NewStore()
	require.Equal(t, 1, s.Len())
	assert.Equal(t, SampleLessonID, s.All()[0].ID)
	assert.Nil(t, s.Active())
	assert.Len(t, s.All()[0].Vocabulary, 4)
}

func TestAddPrepends(t *testing.T) {
	s := NewStore()
	s.Add(newLesson("a", "First"))
	s.Add(newLesson("b", "Second"))

	ids := []string{}
	for _, l := range s.All() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"b", "a", SampleLessonID}, ids)
}

func TestSetActive(t *testing.T) {
	s := NewStore()
	s.Add(newLesson("a", "First"))

	require.NoError(t, s.SetActive("a"))
	require.NotNil(t, s.Active())
	assert.Equal(t, "a", s.Active().ID)

	err := s.SetActive("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "a", s.ActiveID(), "failed SetActive must not change the active lesson")

	s.ClearActive()
	assert.Nil(t, s.Active())
}

func TestResetRestoresSeed(t *testing.T) {
	s := NewStore()
	s.Add(newLesson("a", "First"))
	require.NoError(t, s.SetActive("a"))
	require.NoError(t, s.UpdateVocabulary(SampleLessonID, func(v []Vocabulary) []Vocabulary {
		return append(v, Vocabulary{ID: "x", Word: "espresso"})
	}))

	s.Reset()

	require.Equal(t, 1, s.Len())
	assert.Nil(t, s.Active())
	sample, err := s.Get(SampleLessonID)
	require.NoError(t, err)
	assert.Len(t, sample.Vocabulary, 4)
}

func TestUpdateVocabularyTargetsLessonByID(t *testing.T) {
	s := NewStore()
	s.Add(newLesson("a", "First"))
	s.Add(newLesson("b", "Second"))
	require.NoError(t, s.SetActive("b"))

	require.NoError(t, s.UpdateVocabulary("a", func(v []Vocabulary) []Vocabulary {
		return append(v, Vocabulary{ID: "v", Word: "culture"})
	}))

	a, _ := s.Get("a")
	b, _ := s.Get("b")
	assert.Len(t, a.Vocabulary, 1)
	assert.Empty(t, b.Vocabulary)

	assert.ErrorIs(t, s.UpdateVocabulary("nope", func(v []Vocabulary) []Vocabulary { return v }), ErrNotFound)
}

func TestHasWordIgnoresCase(t *testing.T) {
	l := SeedLessons()[0]
	assert.True(t, l.HasWord("lubricant"))
	assert.True(t, l.HasWord("  DOMINANT "))
	assert.False(t, l.HasWord("espresso"))

	idx, ok := l.VocabularyIndex("v3")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestCloneIsDeep(t *testing.T) {
	l := SeedLessons()[0]
	c := l.Clone()
	c.Vocabulary[0].Word = "changed"
	assert.Equal(t, "Lubricant", l.Vocabulary[0].Word)
}

func TestAddStoresCopy(t *testing.T) {
	s := NewStore()
	in := newLesson("a", "First")
	stored := s.Add(in)

	in.Title = "changed by caller"
	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Same(t, stored, got)
	assert.Equal(t, "First", got.Title)
}
