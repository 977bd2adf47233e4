package backend

import (
	"context"
	"fmt"
	"math"
	"sync"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
)

// RemoteProvider delegates question issuance, checking and scoring to the session backend.
// It owns the rotating session token: the token is replaced only after a response has
// been validated, and a replaced token is never sent again.
type RemoteProvider struct {
	backend   *SessionBackend
	userID    string
	contentID string

	mu        sync.Mutex
	sessionID string
	token     string
}

func NewRemoteProvider(backend *SessionBackend, userID, contentID string) *RemoteProvider {
	return &RemoteProvider{backend: backend, userID: userID, contentID: contentID}
}

// Providers builds one RemoteProvider per session.
func Providers(backend *SessionBackend) app.ProviderFactory {
	return app.ProviderFactoryFunc(func(_ context.Context, learnerID, contentID string) (app.QuestionProvider, error) {
		return NewRemoteProvider(backend, learnerID, contentID), nil
	})
}

func (p *RemoteProvider) Mode() domain.Mode { return domain.ModeRemote }

func (p *RemoteProvider) Start(ctx context.Context) (app.Opening, error) {
	res, err := p.backend.Start(ctx, p.userID, p.contentID)
	if err != nil {
		return app.Opening{}, err
	}
	if res.SessionID == "" {
		return app.Opening{}, fmt.Errorf("start test without session: %w", domain.ErrInvalidResponse)
	}
	q, err := res.Question.Domain()
	if err != nil {
		return app.Opening{}, err
	}

	p.mu.Lock()
	p.sessionID = res.SessionID
	p.token = res.SessionID
	p.mu.Unlock()
	return app.Opening{SessionID: res.SessionID, Question: q}, nil
}

func (p *RemoteProvider) Check(ctx context.Context, q domain.Question, selected int) (app.Verdict, error) {
	if selected < 0 || selected >= len(q.Options) {
		return app.Verdict{}, domain.ErrInvalidOption
	}
	res, err := p.backend.SubmitAnswer(ctx, AnswerRequest{
		UserID:     p.userID,
		VideoID:    p.contentID,
		QuestionID: q.ID,
		SessionID:  p.currentToken(),
		Answer:     q.Options[selected],
	})
	if err != nil {
		return app.Verdict{}, err
	}
	if len(res.CorrectAnswer) == 0 {
		return app.Verdict{}, fmt.Errorf("answer to %s without correct option: %w", q.ID, domain.ErrInvalidResponse)
	}
	idx, ok := q.OptionIndex(res.CorrectAnswer[0])
	if !ok {
		return app.Verdict{}, fmt.Errorf("correct option %q of %s: %w", res.CorrectAnswer[0], q.ID, domain.ErrOptionNotFound)
	}
	return app.Verdict{Correct: bool(res.IsCorrect), CorrectIndex: idx}, nil
}

func (p *RemoteProvider) Next(ctx context.Context, prev domain.Question, want domain.Difficulty, _ []string) (domain.Question, error) {
	res, err := p.backend.NextQuestion(ctx, NextRequest{
		UserID:              p.userID,
		VideoID:             p.contentID,
		PreviousQuestionID:  prev.ID,
		QuestionID:          prev.ID,
		SessionID:           p.currentToken(),
		RequestedDifficulty: string(want),
	})
	if err != nil {
		return domain.Question{}, err
	}
	if res.SessionID == "" {
		return domain.Question{}, fmt.Errorf("next question without session: %w", domain.ErrInvalidResponse)
	}
	q, err := res.Question.Domain()
	if err != nil {
		return domain.Question{}, err
	}

	p.mu.Lock()
	p.token = res.SessionID
	p.mu.Unlock()
	return q, nil
}

// Finish submits the test. Marks and the sequence length come from the backend; the
// difficulty history is the locally recorded one.
func (p *RemoteProvider) Finish(ctx context.Context, progress app.Progress) (domain.Result, error) {
	res, err := p.backend.Complete(ctx, CompleteRequest{
		UserID:    p.userID,
		VideoID:   p.contentID,
		SessionID: p.currentToken(),
	})
	if err != nil {
		return domain.Result{}, err
	}

	p.mu.Lock()
	sessionID := p.sessionID
	p.mu.Unlock()
	return domain.Result{
		SessionID:    sessionID,
		Mode:         domain.ModeRemote,
		Score:        int(math.Round(res.Marks)),
		MaxScore:     len(res.QuestionSequence),
		Difficulties: progress.Difficulties,
		FinalScore:   app.NormalizeRemote(res.Marks, len(res.QuestionSequence)),
	}, nil
}

// Token returns the token the next request will carry.
func (p *RemoteProvider) Token() string {
	return p.currentToken()
}

func (p *RemoteProvider) currentToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}
