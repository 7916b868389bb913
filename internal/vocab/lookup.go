// Package vocab adds user-selected words to a lesson's vocabulary list.
//
// A lookup has two halves. AddWord runs on the UI update loop: it inserts a
// pending entry and returns a Job. Resolve runs off the loop (inside a
// tea.Cmd) and asks the definer. Apply runs back on the loop and swaps the
// pending entry for the result, addressing both the lesson and the entry
// by id so later navigation cannot redirect it.
package vocab

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/segmentio/ksuid"

	"github.com/abhisek/englishbuddy/internal/lesson"
)

// Definer resolves a word in the context of a passage. It never fails;
// unresolvable words come back with Status set to lesson.StatusFailed.
type Definer interface {
	DefineWord(ctx context.Context, word, context string) lesson.Vocabulary
}

// Job is an in-flight lookup.
type Job struct {
	LessonID string
	EntryID  string
	Word     string
	Context  string
}

// Result is a finished lookup, ready to Apply.
type Result struct {
	Job   Job
	Entry lesson.Vocabulary
}

// Lookup mutates vocabulary lists in a lesson.Store.
type Lookup struct {
	store *lesson.Store
	newID func() string
}

// New returns a Lookup over store.
func New(store *lesson.Store) *Lookup {
	return &Lookup{
		store: store,
		newID: func() string { return "tmp-" + ksuid.New().String() },
	}
}

// AddWord inserts a pending entry for word at the head of the active
// lesson's vocabulary. It returns false, and changes nothing, when there
// is no active lesson, the word is empty after cleaning, or the lesson
// already lists it in any casing.
func (l *Lookup) AddWord(word string) (Job, bool) {
	active := l.store.Active()
	if active == nil {
		return Job{}, false
	}

	word = lesson.CleanWord(word)
	if word == "" || active.HasWord(word) {
		return Job{}, false
	}

	job := Job{
		LessonID: active.ID,
		EntryID:  l.newID(),
		Word:     word,
		Context:  active.FullText,
	}
	pending := lesson.Vocabulary{
		ID:     job.EntryID,
		Word:   word,
		Status: lesson.StatusPending,
	}

	_ = l.store.UpdateVocabulary(active.ID, func(vs []lesson.Vocabulary) []lesson.Vocabulary {
		return append([]lesson.Vocabulary{pending}, vs...)
	})
	return job, true
}

// Resolve asks d for the definition. Blocking; call it off the UI loop.
func Resolve(ctx context.Context, d Definer, job Job) Result {
	return Result{Job: job, Entry: d.DefineWord(ctx, job.Word, job.Context)}
}

// Apply replaces the pending entry named by res.Job with the resolved one.
// The entry keeps its id and its position. It returns false when the
// lesson or entry no longer exists (for example after a logout reset), in
// which case the result is dropped.
func (l *Lookup) Apply(res Result) bool {
	target, err := l.store.Get(res.Job.LessonID)
	if err != nil {
		return false
	}
	idx, ok := target.VocabularyIndex(res.Job.EntryID)
	if !ok {
		return false
	}

	entry := res.Entry
	entry.ID = res.Job.EntryID
	// Keep the selected spelling unless the definer only changed its case,
	// so the list never gains a second spelling of a word.
	if !strings.EqualFold(strings.TrimSpace(entry.Word), res.Job.Word) {
		entry.Word = res.Job.Word
	}
	if entry.Status == lesson.StatusPending {
		entry.Status = lesson.StatusResolved
	}

	target.Vocabulary[idx] = entry
	return true
}

// Pending returns the ids of entries in lessonID still awaiting a definition.
func (l *Lookup) Pending(lessonID string) []string {
	target, err := l.store.Get(lessonID)
	if err != nil {
		return nil
	}
	return lo.FilterMap(target.Vocabulary, func(v lesson.Vocabulary, _ int) (string, bool) {
		return v.ID, v.Status == lesson.StatusPending
	})
}
