package app

import (
	"context"
	"fmt"

	"adaptive-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// LocalProvider serves questions from a bank and checks answers in-process.
type LocalProvider struct {
	selector  *PoolSelector
	newID     func() string
	sessionID string
}

func NewLocalProvider(selector *PoolSelector) *LocalProvider {
	return &LocalProvider{selector: selector, newID: uuid.NewString}
}

func (p *LocalProvider) Mode() domain.Mode { return domain.ModeLocal }

// Start always opens with the first Easy question.
func (p *LocalProvider) Start(_ context.Context) (Opening, error) {
	q, err := p.selector.First(domain.Easy)
	if err != nil {
		return Opening{}, err
	}
	p.sessionID = p.newID()
	return Opening{SessionID: p.sessionID, Question: q}, nil
}

func (p *LocalProvider) Check(_ context.Context, q domain.Question, selected int) (Verdict, error) {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return Verdict{}, fmt.Errorf("question %s has no correct option: %w", q.ID, domain.ErrOptionNotFound)
	}
	return Verdict{Correct: selected == q.CorrectIndex, CorrectIndex: q.CorrectIndex}, nil
}

func (p *LocalProvider) Next(_ context.Context, _ domain.Question, want domain.Difficulty, issued []string) (domain.Question, error) {
	return p.selector.Select(want, issued)
}

func (p *LocalProvider) Finish(_ context.Context, progress Progress) (domain.Result, error) {
	return domain.Result{
		SessionID:    p.sessionID,
		Mode:         domain.ModeLocal,
		Score:        progress.Score,
		MaxScore:     progress.MaxScore,
		Difficulties: progress.Difficulties,
		FinalScore:   NormalizeLocal(progress.Score),
	}, nil
}
