package vocab

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/englishbuddy/internal/lesson"
)

type fakeDefiner struct {
	calls []string
	fail  bool
}

func (f *fakeDefiner) DefineWord(_ context.Context, word, _ string) lesson.Vocabulary {
	f.calls = append(f.calls, word)
	if f.fail {
		return lesson.Vocabulary{ID: "err", Meaning: "Không tìm thấy định nghĩa", Type: "unknown", Status: lesson.StatusFailed}
	}
	return lesson.Vocabulary{
		ID:                "from-definer",
		Word:              strings.ToLower(word),
		IPA:               "/test/",
		EnglishDefinition: "definition of " + word,
		Meaning:           "nghĩa",
		Type:              "noun",
	}
}

func newActiveStore(t *testing.T) *lesson.Store {
	t.Helper()
	s := lesson.NewStore()
	require.NoError(t, s.SetActive(lesson.SampleLessonID))
	return s
}

func countWord(l *lesson.Lesson, word string) int {
	n := 0
	for _, v := range l.Vocabulary {
		if strings.EqualFold(v.Word, word) {
			n++
		}
	}
	return n
}

func TestAddWordInsertsPendingAtHead(t *testing.T) {
	s := newActiveStore(t)
	lk := New(s)

	job, ok := lk.AddWord("espresso,")
	require.True(t, ok)
	assert.Equal(t, lesson.SampleLessonID, job.LessonID)
	assert.Equal(t, "espresso", job.Word)
	assert.Contains(t, job.Context, "Coffee culture")

	head := s.Active().Vocabulary[0]
	assert.Equal(t, job.EntryID, head.ID)
	assert.Equal(t, lesson.StatusPending, head.Status)
	assert.Equal(t, []string{job.EntryID}, lk.Pending(lesson.SampleLessonID))
}

func TestAddWordIsIdempotentAcrossCase(t *testing.T) {
	s := newActiveStore(t)
	lk := New(s)

	_, ok := lk.AddWord("Espresso")
	require.True(t, ok)
	_, ok = lk.AddWord("ESPRESSO")
	assert.False(t, ok)
	_, ok = lk.AddWord("lubricant")
	assert.False(t, ok, "seeded words are duplicates too")

	assert.Equal(t, 1, countWord(s.Active(), "espresso"))
	assert.Len(t, s.Active().Vocabulary, 5)
}

func TestAddWordRejectsEmptyAndInactive(t *testing.T) {
	s := lesson.NewStore()
	lk := New(s)

	_, ok := lk.AddWord("coffee")
	assert.False(t, ok, "no active lesson")

	require.NoError(t, s.SetActive(lesson.SampleLessonID))
	_, ok = lk.AddWord(" ... ")
	assert.False(t, ok)
}

func TestApplyReplacesByID(t *testing.T) {
	s := newActiveStore(t)
	lk := New(s)
	d := &fakeDefiner{}

	first, _ := lk.AddWord("Espresso")
	second, _ := lk.AddWord("western")

	// Resolve out of order; each result must land on its own entry.
	require.True(t, lk.Apply(Resolve(context.Background(), d, second)))
	require.True(t, lk.Apply(Resolve(context.Background(), d, first)))

	vocab := s.Active().Vocabulary
	assert.Equal(t, second.EntryID, vocab[0].ID)
	assert.Equal(t, first.EntryID, vocab[1].ID)
	assert.Equal(t, "western", vocab[0].Word)
	assert.Equal(t, "espresso", strings.ToLower(vocab[1].Word))
	assert.Equal(t, lesson.StatusResolved, vocab[1].Status)
	assert.Equal(t, "definition of Espresso", vocab[1].EnglishDefinition)

	ids := map[string]int{}
	for _, v := range vocab {
		ids[v.ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "duplicate id %s", id)
	}
	assert.Equal(t, 1, countWord(s.Active(), "espresso"))
	assert.Empty(t, lk.Pending(lesson.SampleLessonID))
}

func TestApplyTargetsOriginalLesson(t *testing.T) {
	s := newActiveStore(t)
	lk := New(s)

	job, ok := lk.AddWord("espresso")
	require.True(t, ok)

	other := s.Add(&lesson.Lesson{ID: "other", FullText: "Tea"})
	require.NoError(t, s.SetActive(other.ID))

	require.True(t, lk.Apply(Resolve(context.Background(), &fakeDefiner{}, job)))

	sample, _ := s.Get(lesson.SampleLessonID)
	assert.Equal(t, lesson.StatusResolved, sample.Vocabulary[0].Status)
	assert.Empty(t, other.Vocabulary)
}

func TestApplyFailureKeepsEntry(t *testing.T) {
	s := newActiveStore(t)
	lk := New(s)

	job, _ := lk.AddWord("zzzq")
	require.True(t, lk.Apply(Resolve(context.Background(), &fakeDefiner{fail: true}, job)))

	head := s.Active().Vocabulary[0]
	assert.Equal(t, job.EntryID, head.ID)
	assert.Equal(t, "zzzq", head.Word)
	assert.Equal(t, lesson.StatusFailed, head.Status)
	assert.Equal(t, "Không tìm thấy định nghĩa", head.Meaning)
}

func TestApplyAfterResetIsDropped(t *testing.T) {
	s := newActiveStore(t)
	lk := New(s)

	job, _ := lk.AddWord("espresso")
	s.Reset()

	assert.False(t, lk.Apply(Resolve(context.Background(), &fakeDefiner{}, job)))
	sample, _ := s.Get(lesson.SampleLessonID)
	assert.Len(t, sample.Vocabulary, 4)
}
