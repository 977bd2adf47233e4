package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"adaptive-quiz-service/internal/domain"
)

// DefaultSessionLength is the number of questions in one attempt.
const DefaultSessionLength = 10

// State is a step of a quiz session.
type State string

const (
	StateInitializing    State = "initializing"
	StateAwaitingAnswer  State = "awaiting_answer"
	StateChecking        State = "checking"
	StateShowingFeedback State = "showing_feedback"
	StateCompleted       State = "completed"
)

// View is a read-only snapshot of a session.
type View struct {
	SessionID    string              `json:"sessionId"`
	Mode         domain.Mode         `json:"mode"`
	State        State               `json:"state"`
	Position     int                 `json:"position"`
	Length       int                 `json:"length"`
	Question     *domain.Question    `json:"question,omitempty"`
	Selected     int                 `json:"selected"`
	Score        int                 `json:"score"`
	MaxScore     int                 `json:"maxScore"`
	Difficulties []domain.Difficulty `json:"difficulties"`
	Message      string              `json:"message"`
	Feedback     *domain.Feedback    `json:"feedback,omitempty"`
	Result       *domain.Result      `json:"result,omitempty"`
}

// SessionOption customizes a QuizSession.
type SessionOption func(*QuizSession)

// WithLength overrides the number of questions per attempt.
func WithLength(n int) SessionOption {
	return func(s *QuizSession) {
		if n > 0 {
			s.length = n
		}
	}
}

// WithRand injects the random source used for feedback phrasing.
func WithRand(rnd *rand.Rand) SessionOption {
	return func(s *QuizSession) { s.rnd = rnd }
}

// WithPreviousScore marks the attempt as a re-attempt.
func WithPreviousScore(score int) SessionOption {
	return func(s *QuizSession) { s.previousScore = &score }
}

// QuizSession drives one learner through a fixed-length adaptive attempt. At most one
// provider call runs at a time, and state changes only after a call succeeds.
type QuizSession struct {
	provider      QuestionProvider
	length        int
	rnd           *rand.Rand
	previousScore *int

	mu        sync.Mutex
	busy      bool
	state     State
	sessionID string
	questions []domain.Question
	answers   map[string]int
	card      Scorecard
	cursor    int
	selected  int
	message   string
	feedback  *domain.Feedback
	result    *domain.Result
}

func NewQuizSession(provider QuestionProvider, opts ...SessionOption) *QuizSession {
	s := &QuizSession{
		provider: provider,
		length:   DefaultSessionLength,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

func (s *QuizSession) resetLocked() {
	s.state = StateInitializing
	s.sessionID = ""
	s.questions = nil
	s.answers = make(map[string]int)
	s.card = Scorecard{}
	s.cursor = 0
	s.selected = -1
	s.message = ""
	s.feedback = nil
	s.result = nil
}

// Start fetches the first question.
func (s *QuizSession) Start(ctx context.Context) (View, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return View{}, domain.ErrRequestInFlight
	}
	if s.state != StateInitializing {
		s.mu.Unlock()
		return View{}, domain.ErrInvalidState
	}
	s.busy = true
	s.mu.Unlock()

	opening, err := s.provider.Start(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return s.viewLocked(), err
	}
	if err := validateQuestion(opening.Question); err != nil {
		return s.viewLocked(), err
	}
	s.sessionID = opening.SessionID
	s.questions = append(s.questions, opening.Question)
	s.message = OpeningMessage(s.previousScore)
	s.state = StateAwaitingAnswer
	return s.viewLocked(), nil
}

// Restart discards the current attempt and starts a new one.
func (s *QuizSession) Restart(ctx context.Context) (View, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return View{}, domain.ErrRequestInFlight
	}
	s.resetLocked()
	s.mu.Unlock()
	return s.Start(ctx)
}

// Select records the option the learner picked for the current question.
func (s *QuizSession) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardLocked(StateAwaitingAnswer); err != nil {
		return err
	}
	q := s.questions[s.cursor]
	if index < 0 || index >= len(q.Options) {
		return domain.ErrInvalidOption
	}
	s.selected = index
	return nil
}

// Submit checks the selected option and scores the current question.
func (s *QuizSession) Submit(ctx context.Context) (domain.Feedback, error) {
	s.mu.Lock()
	if err := s.guardLocked(StateAwaitingAnswer); err != nil {
		s.mu.Unlock()
		return domain.Feedback{}, err
	}
	if s.selected < 0 {
		s.mu.Unlock()
		return domain.Feedback{}, domain.ErrNoSelection
	}
	q := s.questions[s.cursor]
	selected := s.selected
	s.busy = true
	s.state = StateChecking
	s.mu.Unlock()

	verdict, err := s.provider.Check(ctx, q, selected)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err == nil && (verdict.CorrectIndex < domain.UnknownAnswer || verdict.CorrectIndex >= len(q.Options)) {
		err = fmt.Errorf("correct index %d: %w", verdict.CorrectIndex, domain.ErrOptionNotFound)
	}
	if err != nil {
		s.state = StateAwaitingAnswer
		return domain.Feedback{}, err
	}

	if s.questions[s.cursor].CorrectIndex == domain.UnknownAnswer {
		s.questions[s.cursor].CorrectIndex = verdict.CorrectIndex
	}
	awarded := s.card.Record(q.Difficulty, verdict.Correct)
	s.answers[q.ID] = selected
	next := NextDifficulty(q.Difficulty, verdict.Correct)
	s.message = FeedbackMessage(q.Difficulty, next, verdict.Correct, s.rnd)

	fb := domain.Feedback{
		QuestionID:     q.ID,
		Selected:       selected,
		Correct:        verdict.Correct,
		CorrectIndex:   s.questions[s.cursor].CorrectIndex,
		Awarded:        awarded,
		Score:          s.card.Score(),
		MaxScore:       s.card.MaxScore(),
		NextDifficulty: next,
		Message:        s.message,
		Last:           s.cursor >= s.length-1,
	}
	s.feedback = &fb
	s.state = StateShowingFeedback
	return fb, nil
}

// Advance moves past the feedback: to the next question, or to completion after the
// last one.
func (s *QuizSession) Advance(ctx context.Context) (View, error) {
	s.mu.Lock()
	if err := s.guardLocked(StateShowingFeedback); err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	prev := s.questions[s.cursor]
	want := s.feedback.NextDifficulty
	last := s.cursor >= s.length-1
	issued := make([]string, len(s.questions))
	for i, q := range s.questions {
		issued[i] = q.ID
	}
	progress := Progress{
		Score:        s.card.Score(),
		MaxScore:     s.card.MaxScore(),
		Difficulties: s.card.Difficulties(),
	}
	s.busy = true
	s.mu.Unlock()

	if last {
		result, err := s.provider.Finish(ctx, progress)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.busy = false
		if err != nil {
			return s.viewLocked(), err
		}
		if result.SessionID == "" {
			result.SessionID = s.sessionID
		}
		result.PreviousScore = s.previousScore
		s.result = &result
		s.state = StateCompleted
		return s.viewLocked(), nil
	}

	next, err := s.provider.Next(ctx, prev, want, issued)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return s.viewLocked(), err
	}
	if err := validateQuestion(next); err != nil {
		return s.viewLocked(), err
	}
	s.questions = append(s.questions, next)
	s.cursor++
	s.selected = -1
	s.feedback = nil
	s.state = StateAwaitingAnswer
	return s.viewLocked(), nil
}

// View returns a snapshot of the session.
func (s *QuizSession) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Questions returns the issued questions in order.
func (s *QuizSession) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns the selected option per answered question id.
func (s *QuizSession) Answers() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Result is set once the session is completed.
func (s *QuizSession) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

func (s *QuizSession) guardLocked(want State) error {
	if s.busy {
		return domain.ErrRequestInFlight
	}
	if s.state == StateCompleted {
		return domain.ErrSessionCompleted
	}
	if s.state != want {
		return domain.ErrInvalidState
	}
	return nil
}

func (s *QuizSession) viewLocked() View {
	v := View{
		SessionID:    s.sessionID,
		Mode:         s.provider.Mode(),
		State:        s.state,
		Position:     s.cursor,
		Length:       s.length,
		Selected:     s.selected,
		Score:        s.card.Score(),
		MaxScore:     s.card.MaxScore(),
		Difficulties: s.card.Difficulties(),
		Message:      s.message,
	}
	if s.cursor < len(s.questions) {
		q := s.questions[s.cursor]
		q.Options = append([]string(nil), q.Options...)
		v.Question = &q
	}
	if s.feedback != nil {
		fb := *s.feedback
		v.Feedback = &fb
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}

func validateQuestion(q domain.Question) error {
	if q.ID == "" || len(q.Options) == 0 {
		return fmt.Errorf("question %q: %w", q.ID, domain.ErrInvalidResponse)
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question %s: %w", q.ID, domain.ErrUnknownDifficulty)
	}
	return nil
}
