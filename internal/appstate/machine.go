// Package appstate is the application state machine: which screen mode is
// showing, which lesson is active, and which collaborator calls are in
// flight.
//
// Every method runs on the UI update loop. Blocking work leaves the loop
// as a job (AnalysisJob, QuizJob) whose Run method executes inside a
// tea.Cmd; its result comes back through Finish*, which checks the job's
// ticket and drops results that no longer apply.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/englishbuddy/internal/audio"
	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/llm"
	"github.com/abhisek/englishbuddy/internal/logger"
	"github.com/abhisek/englishbuddy/internal/quiz"
	"github.com/abhisek/englishbuddy/internal/tutor"
	"github.com/abhisek/englishbuddy/internal/vocab"
)

// Mode is the top-level application state.
type Mode int

const (
	Home Mode = iota
	Processing
	Learning
	Quiz
)

func (m Mode) String() string {
	switch m {
	case Processing:
		return "processing"
	case Learning:
		return "learning"
	case Quiz:
		return "quiz"
	default:
		return "home"
	}
}

var (
	// ErrBusy rejects a submission while another is being processed.
	ErrBusy = errors.New("already processing a submission")
	// ErrInvalidTransition rejects an action the current mode doesn't allow.
	ErrInvalidTransition = errors.New("action not available here")
	// ErrEmptyInput rejects blank text and empty files.
	ErrEmptyInput = errors.New("nothing to analyze")
	// ErrNotAuthenticated rejects collaborator work before login.
	ErrNotAuthenticated = errors.New("not logged in")
)

// Collaborator is the AI service a logged-in session talks to.
type Collaborator interface {
	Analyze(ctx context.Context, in tutor.Input) (*lesson.Lesson, error)
	GenerateQuiz(ctx context.Context, text string) ([]quiz.Question, error)
	vocab.Definer
	audio.Synthesizer
}

// Connector builds a Collaborator for an API key.
type Connector func(ctx context.Context, key string) (Collaborator, error)

// Machine owns the application state.
type Machine struct {
	store   *lesson.Store
	lookup  *vocab.Lookup
	creds   Credentials
	connect Connector
	log     *logger.Logger

	mode   Mode
	collab Collaborator
	notice string

	processTicket uint64
	cancelProcess context.CancelFunc

	quizTicket  uint64
	quizLoading bool
	cancelQuiz  context.CancelFunc
	quiz        *quiz.Session
}

// New returns a machine in Home mode with no collaborator.
func New(store *lesson.Store, creds Credentials, connect Connector, log *logger.Logger) *Machine {
	if log == nil {
		log = logger.Nop()
	}
	return &Machine{
		store:   store,
		lookup:  vocab.New(store),
		creds:   creds,
		connect: connect,
		log:     log,
	}
}

func (m *Machine) Mode() Mode                 { return m.mode }
func (m *Machine) Store() *lesson.Store       { return m.store }
func (m *Machine) Lookup() *vocab.Lookup      { return m.lookup }
func (m *Machine) Collaborator() Collaborator { return m.collab }
func (m *Machine) QuizSession() *quiz.Session { return m.quiz }
func (m *Machine) QuizLoading() bool          { return m.quizLoading }

// Authenticated reports whether a collaborator is connected.
func (m *Machine) Authenticated() bool { return m.collab != nil }

// Notice returns the last error surfaced to the user, or "".
func (m *Machine) Notice() string { return m.notice }

// DismissNotice clears the surfaced error.
func (m *Machine) DismissNotice() { m.notice = "" }

// ActiveLesson returns the lesson being studied, or nil.
func (m *Machine) ActiveLesson() *lesson.Lesson { return m.store.Active() }

// Restore connects with the stored credential, if one exists.
func (m *Machine) Restore(ctx context.Context) (bool, error) {
	key, ok, err := m.creds.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load credential: %w", err)
	}
	if !ok {
		return false, nil
	}
	collab, err := m.connect(ctx, key)
	if err != nil {
		return false, fmt.Errorf("connect: %w", err)
	}
	m.collab = collab
	return true, nil
}

// Login stores key and connects with it.
func (m *Machine) Login(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return tutor.ErrCredentialMissing
	}
	collab, err := m.connect(ctx, key)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := m.creds.Save(ctx, key); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	m.collab = collab
	m.log.Info("logged in")
	return nil
}

// Logout returns Home, restores the seed lessons, forgets the credential
// and drops the collaborator.
func (m *Machine) Logout(ctx context.Context) error {
	m.GoHome()
	m.store.Reset()
	m.collab = nil
	m.notice = ""
	if err := m.creds.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	m.log.Info("logged out")
	return nil
}

// AnalysisJob is a submission waiting to be analyzed.
type AnalysisJob struct {
	Ticket uint64
	Input  tutor.Input

	ctx    context.Context
	collab Collaborator
}

// AnalysisDone is the outcome of an AnalysisJob.
type AnalysisDone struct {
	Ticket uint64
	Lesson *lesson.Lesson
	Err    error
}

// Run performs the analysis. Blocking; call it off the UI loop.
func (j AnalysisJob) Run() AnalysisDone {
	l, err := j.collab.Analyze(j.ctx, j.Input)
	return AnalysisDone{Ticket: j.Ticket, Lesson: l, Err: err}
}

// SubmitText starts analysis of pasted text.
func (m *Machine) SubmitText(ctx context.Context, text string) (AnalysisJob, error) {
	if strings.TrimSpace(text) == "" {
		return AnalysisJob{}, ErrEmptyInput
	}
	return m.Submit(ctx, tutor.TextInput(text))
}

// SubmitFile starts analysis of file contents. An empty mimeType is
// detected from data.
func (m *Machine) SubmitFile(ctx context.Context, name string, data []byte, mimeType string) (AnalysisJob, error) {
	if len(data) == 0 {
		return AnalysisJob{}, ErrEmptyInput
	}
	return m.Submit(ctx, tutor.FileInput(name, data, mimeType))
}

// Submit moves Home to Processing and returns the job to run.
func (m *Machine) Submit(ctx context.Context, in tutor.Input) (AnalysisJob, error) {
	switch {
	case m.mode == Processing:
		return AnalysisJob{}, ErrBusy
	case m.mode != Home:
		return AnalysisJob{}, ErrInvalidTransition
	case m.collab == nil:
		return AnalysisJob{}, ErrNotAuthenticated
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.processTicket++
	m.cancelProcess = cancel
	m.mode = Processing
	m.notice = ""
	return AnalysisJob{Ticket: m.processTicket, Input: in, ctx: runCtx, collab: m.collab}, nil
}

// FinishAnalysis applies a finished analysis. Success adds the lesson and
// opens it; failure returns Home with a notice. Results for a cancelled
// or superseded submission are dropped and false is returned.
func (m *Machine) FinishAnalysis(done AnalysisDone) bool {
	if m.mode != Processing || done.Ticket != m.processTicket {
		return false
	}
	m.endProcessing()

	if done.Err != nil || done.Lesson == nil {
		m.mode = Home
		m.notice = analysisNotice(done.Err)
		m.log.Warn("analysis failed", "error", done.Err)
		return true
	}

	m.store.Add(done.Lesson)
	_ = m.store.SetActive(done.Lesson.ID)
	m.mode = Learning
	return true
}

// serviceNotice explains failures that are about the key or the service
// rather than the material.
func serviceNotice(err error) (string, bool) {
	var (
		auth *llm.ErrAuth
		rate *llm.ErrRateLimit
	)
	switch {
	case errors.As(err, &auth):
		return "The API key was rejected. Log out and enter a valid key.", true
	case errors.As(err, &rate):
		return "The AI service is rate limiting this key. Wait a minute and try again.", true
	case errors.Is(err, tutor.ErrCredentialMissing):
		return tutor.ErrCredentialMissing.Error(), true
	}
	return "", false
}

func analysisNotice(err error) string {
	if msg, ok := serviceNotice(err); ok {
		return msg
	}
	switch {
	case errors.Is(err, tutor.ErrUnsupportedInput):
		return "That file type can't be analyzed. Use text, an image or a PDF."
	default:
		return tutor.ErrAnalysis.Error()
	}
}

// CancelProcessing abandons the in-flight submission and returns Home.
func (m *Machine) CancelProcessing() {
	if m.mode != Processing {
		return
	}
	m.endProcessing()
	m.processTicket++
	m.mode = Home
}

func (m *Machine) endProcessing() {
	if m.cancelProcess != nil {
		m.cancelProcess()
		m.cancelProcess = nil
	}
}

// SelectLesson opens lesson id from Home or Learning.
func (m *Machine) SelectLesson(id string) error {
	switch m.mode {
	case Processing:
		return ErrBusy
	case Quiz:
		return ErrInvalidTransition
	}
	if err := m.store.SetActive(id); err != nil {
		m.notice = "That lesson no longer exists."
		return err
	}
	m.endQuizRequest()
	m.mode = Learning
	return nil
}

// GoHome returns Home from any mode, abandoning in-flight work and
// clearing the active lesson.
func (m *Machine) GoHome() {
	if m.mode == Processing {
		m.endProcessing()
		m.processTicket++
	}
	m.endQuizRequest()
	m.quiz = nil
	m.store.ClearActive()
	m.mode = Home
}

// AddWord starts a lookup for word in the active lesson.
func (m *Machine) AddWord(word string) (vocab.Job, bool) {
	if m.mode != Learning {
		return vocab.Job{}, false
	}
	return m.lookup.AddWord(word)
}

// ApplyDefinition stores a finished lookup.
func (m *Machine) ApplyDefinition(res vocab.Result) bool {
	return m.lookup.Apply(res)
}

// QuizJob is a pending quiz generation.
type QuizJob struct {
	Ticket   uint64
	LessonID string
	Text     string

	ctx    context.Context
	collab Collaborator
}

// QuizReady is the outcome of a QuizJob.
type QuizReady struct {
	Ticket    uint64
	LessonID  string
	Text      string
	Questions []quiz.Question
	Err       error
}

// Run generates the questions. Blocking; call it off the UI loop.
func (j QuizJob) Run() QuizReady {
	qs, err := j.collab.GenerateQuiz(j.ctx, j.Text)
	return QuizReady{Ticket: j.Ticket, LessonID: j.LessonID, Text: j.Text, Questions: qs, Err: err}
}

// StartQuiz requests questions for the active lesson. Learning mode only.
func (m *Machine) StartQuiz(ctx context.Context) (QuizJob, error) {
	if m.mode != Learning {
		return QuizJob{}, ErrInvalidTransition
	}
	active := m.store.Active()
	if active == nil {
		return QuizJob{}, ErrInvalidTransition
	}
	return m.requestQuiz(ctx, active.ID, active.FullText)
}

// RestartQuiz requests fresh questions for the same text. Quiz mode only.
func (m *Machine) RestartQuiz(ctx context.Context) (QuizJob, error) {
	if m.mode != Quiz || m.quiz == nil {
		return QuizJob{}, ErrInvalidTransition
	}
	return m.requestQuiz(ctx, m.store.ActiveID(), m.quiz.Source())
}

func (m *Machine) requestQuiz(ctx context.Context, lessonID, text string) (QuizJob, error) {
	if m.quizLoading {
		return QuizJob{}, ErrBusy
	}
	if m.collab == nil {
		return QuizJob{}, ErrNotAuthenticated
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.quizTicket++
	m.quizLoading = true
	m.cancelQuiz = cancel
	m.notice = ""
	return QuizJob{Ticket: m.quizTicket, LessonID: lessonID, Text: text, ctx: runCtx, collab: m.collab}, nil
}

// FinishQuiz applies generated questions. With at least one question the
// machine enters Quiz with a fresh session; with none it stays put and
// returns quiz.ErrInsufficientContent. Stale results return false.
func (m *Machine) FinishQuiz(res QuizReady) (bool, error) {
	if !m.quizLoading || res.Ticket != m.quizTicket || res.LessonID != m.store.ActiveID() {
		return false, nil
	}
	if m.mode != Learning && m.mode != Quiz {
		return false, nil
	}
	m.endQuizRequest()

	if res.Err != nil {
		m.log.Warn("quiz generation failed", "error", res.Err)
	}
	session, err := quiz.Start(res.Text, res.Questions)
	if err != nil {
		m.notice = err.Error()
		if msg, ok := serviceNotice(res.Err); ok {
			m.notice = msg
		}
		return true, err
	}
	m.quiz = session
	m.mode = Quiz
	return true, nil
}

func (m *Machine) endQuizRequest() {
	if m.cancelQuiz != nil {
		m.cancelQuiz()
		m.cancelQuiz = nil
	}
	if m.quizLoading {
		m.quizLoading = false
		m.quizTicket++
	}
}

// ExitQuiz returns from Quiz to Learning.
func (m *Machine) ExitQuiz() error {
	if m.mode != Quiz {
		return ErrInvalidTransition
	}
	m.endQuizRequest()
	m.quiz = nil
	m.mode = Learning
	return nil
}
