package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"adaptive-quiz-service/internal/domain"
)

// SessionRepository abstracts where live plays are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(key string, play *Play)
	Get(key string) (*Play, bool)
	// Delete removes the play stored under key, unless it has since been replaced.
	Delete(key string, play *Play)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, contentID string) (domain.QuestionBank, error)
}

// LeaderboardSource returns the raw, user-major leaderboard of a piece of content.
type LeaderboardSource interface {
	Overall(ctx context.Context, contentID string) ([]domain.LeaderboardEntry, error)
}

// AttemptRecorder persists completed attempts.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt domain.Attempt) error
}

// Learner identifies who is playing.
type Learner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Play is a learner's live session on one piece of content.
type Play struct {
	Learner   Learner
	ContentID string
	Session   *QuizSession
}

// SessionKey is the repository key of a learner's play on a piece of content.
func SessionKey(contentID, learnerID string) string {
	return contentID + ":" + learnerID
}

// QuizService contains the practice use cases.
type QuizService struct {
	sessions  SessionRepository
	providers ProviderFactory
	board     LeaderboardSource
	recorder  AttemptRecorder
	length    int
	now       func() time.Time
}

// NewQuizService wires the use cases. recorder may be nil when attempts are owned by a
// remote backend.
func NewQuizService(sessions SessionRepository, providers ProviderFactory, board LeaderboardSource, recorder AttemptRecorder) *QuizService {
	return &QuizService{
		sessions:  sessions,
		providers: providers,
		board:     board,
		recorder:  recorder,
		length:    DefaultSessionLength,
		now:       time.Now,
	}
}

// SetLength changes the number of questions of sessions begun afterwards.
func (s *QuizService) SetLength(n int) {
	if n > 0 {
		s.length = n
	}
}

// LocalProviders builds bank-backed providers, each with its own random source.
func LocalProviders(banks BankRepository) ProviderFactory {
	return ProviderFactoryFunc(func(ctx context.Context, _ string, contentID string) (QuestionProvider, error) {
		bank, err := banks.GetBank(ctx, contentID)
		if err != nil {
			return nil, err
		}
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		return NewLocalProvider(NewPoolSelector(bank, rnd)), nil
	})
}

// Begin opens a new attempt, replacing any play the learner had on that content. The
// returned play is what Abandon expects back.
func (s *QuizService) Begin(ctx context.Context, learner Learner, contentID string, previousScore *int) (*Play, View, error) {
	provider, err := s.providers.NewProvider(ctx, learner.ID, contentID)
	if err != nil {
		return nil, View{}, err
	}
	opts := []SessionOption{WithLength(s.length)}
	if previousScore != nil {
		opts = append(opts, WithPreviousScore(*previousScore))
	}
	session := NewQuizSession(provider, opts...)
	view, err := session.Start(ctx)
	if err != nil {
		return nil, view, err
	}
	play := &Play{Learner: learner, ContentID: contentID, Session: session}
	s.sessions.Put(SessionKey(contentID, learner.ID), play)
	return play, view, nil
}

// Current returns the learner's play state.
func (s *QuizService) Current(contentID, learnerID string) (View, error) {
	play, ok := s.sessions.Get(SessionKey(contentID, learnerID))
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return play.Session.View(), nil
}

// SelectOption records the learner's choice for the current question.
func (s *QuizService) SelectOption(contentID, learnerID string, index int) (View, error) {
	play, ok := s.sessions.Get(SessionKey(contentID, learnerID))
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	if err := play.Session.Select(index); err != nil {
		return play.Session.View(), err
	}
	return play.Session.View(), nil
}

// Submit checks the selected option.
func (s *QuizService) Submit(ctx context.Context, contentID, learnerID string) (domain.Feedback, error) {
	play, ok := s.sessions.Get(SessionKey(contentID, learnerID))
	if !ok {
		return domain.Feedback{}, domain.ErrSessionNotFound
	}
	return play.Session.Submit(ctx)
}

// Advance moves to the next question or completes the attempt. Completed local attempts
// are recorded for the leaderboard.
func (s *QuizService) Advance(ctx context.Context, contentID, learnerID string) (View, error) {
	play, ok := s.sessions.Get(SessionKey(contentID, learnerID))
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	view, err := play.Session.Advance(ctx)
	if err != nil {
		return view, err
	}
	if view.State == StateCompleted && view.Result != nil {
		s.record(ctx, play, *view.Result)
	}
	return view, nil
}

// Restart discards the learner's attempt and starts over.
func (s *QuizService) Restart(ctx context.Context, contentID, learnerID string) (View, error) {
	play, ok := s.sessions.Get(SessionKey(contentID, learnerID))
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return play.Session.Restart(ctx)
}

// Abandon drops play. A newer play begun by the same learner on the same content stays.
func (s *QuizService) Abandon(play *Play) {
	if play == nil {
		return
	}
	s.sessions.Delete(SessionKey(play.ContentID, play.Learner.ID), play)
}

// RawLeaderboard returns the user-major leaderboard.
func (s *QuizService) RawLeaderboard(ctx context.Context, contentID string) ([]domain.LeaderboardEntry, error) {
	return s.board.Overall(ctx, contentID)
}

// Leaderboard returns the overall list plus one leaderboard per match.
func (s *QuizService) Leaderboard(ctx context.Context, contentID string) (domain.LeaderboardView, error) {
	overall, err := s.board.Overall(ctx, contentID)
	if err != nil {
		return domain.LeaderboardView{}, err
	}
	return Reshape(overall), nil
}

func (s *QuizService) record(ctx context.Context, play *Play, result domain.Result) {
	if s.recorder == nil || result.Mode != domain.ModeLocal {
		return
	}
	attempt := domain.Attempt{
		ContentID:   play.ContentID,
		SessionID:   result.SessionID,
		UserID:      play.Learner.ID,
		UserName:    play.Learner.Name,
		Score:       float64(result.FinalScore),
		AttemptedAt: s.now(),
	}
	if err := s.recorder.RecordAttempt(ctx, attempt); err != nil {
		log.Printf("record attempt %s for %s: %v", attempt.SessionID, attempt.UserID, err)
	}
}
