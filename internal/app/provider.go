package app

import (
	"context"

	"adaptive-quiz-service/internal/domain"
)

// QuestionProvider is the question source behind a session. The local implementation
// draws from an in-process bank; the remote one delegates to the session backend.
type QuestionProvider interface {
	Mode() domain.Mode
	// Start opens a new attempt and returns its first question.
	Start(ctx context.Context) (Opening, error)
	// Check reports whether selected is the right option of q.
	Check(ctx context.Context, q domain.Question, selected int) (Verdict, error)
	// Next issues the question following prev, asking for tier want.
	Next(ctx context.Context, prev domain.Question, want domain.Difficulty, issued []string) (domain.Question, error)
	// Finish closes the attempt and produces the final result.
	Finish(ctx context.Context, progress Progress) (domain.Result, error)
}

// Opening is the outcome of Start.
type Opening struct {
	SessionID string
	Question  domain.Question
}

// Verdict is the outcome of checking one answer.
type Verdict struct {
	Correct      bool
	CorrectIndex int
}

// Progress is the locally accumulated state handed to Finish.
type Progress struct {
	Score        int
	MaxScore     int
	Difficulties []domain.Difficulty
}

// ProviderFactory builds a provider for one learner's attempt at a piece of content.
type ProviderFactory interface {
	NewProvider(ctx context.Context, learnerID, contentID string) (QuestionProvider, error)
}

// ProviderFactoryFunc adapts a function to ProviderFactory.
type ProviderFactoryFunc func(ctx context.Context, learnerID, contentID string) (QuestionProvider, error)

func (f ProviderFactoryFunc) NewProvider(ctx context.Context, learnerID, contentID string) (QuestionProvider, error) {
	return f(ctx, learnerID, contentID)
}
