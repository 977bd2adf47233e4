package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"adaptive-quiz-service/internal/domain"
)

const (
	startPath       = "/items/start-test"
	submitPath      = "/items/submit-answer"
	nextPath        = "/items/next-question"
	completePath    = "/items/submit-test"
	leaderboardPath = "/leaderboard/generate-leaderboard"
	healthPath      = "/health"
)

// WireQuestion is a question as the backend sends it.
type WireQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Level    string   `json:"level"`
	HasGraph bool     `json:"hasGraph,omitempty"`
}

// Domain validates the question and maps it onto domain.Question. The correct answer is
// withheld by the backend, so it starts as domain.UnknownAnswer.
func (w WireQuestion) Domain() (domain.Question, error) {
	if w.ID == "" || len(w.Options) == 0 {
		return domain.Question{}, fmt.Errorf("question %q without id or options: %w", w.ID, domain.ErrInvalidResponse)
	}
	level, err := domain.ParseDifficulty(w.Level)
	if err != nil {
		return domain.Question{}, fmt.Errorf("question %s level %q: %w", w.ID, w.Level, err)
	}
	return domain.Question{
		ID:           w.ID,
		Difficulty:   level,
		Prompt:       w.Question,
		Options:      append([]string(nil), w.Options...),
		CorrectIndex: domain.UnknownAnswer,
		HasDiagram:   w.HasGraph,
	}, nil
}

type StartResponse struct {
	SessionID string       `json:"sessionId"`
	Question  WireQuestion `json:"question"`
}

type AnswerRequest struct {
	UserID     string `json:"userId"`
	VideoID    string `json:"videoId"`
	QuestionID string `json:"questionId"`
	SessionID  string `json:"sessionId"`
	Answer     string `json:"answer"`
}

type AnswerResponse struct {
	IsCorrect     FlexBool `json:"isCorrect"`
	CorrectAnswer []string `json:"correctAnswer"`
}

type NextRequest struct {
	UserID              string `json:"userId"`
	VideoID             string `json:"videoId"`
	PreviousQuestionID  string `json:"previousQuestionId"`
	QuestionID          string `json:"questionId"`
	SessionID           string `json:"sessionId"`
	RequestedDifficulty string `json:"requestedDifficulty"`
}

type NextResponse struct {
	SessionID string       `json:"sessionId"`
	Question  WireQuestion `json:"question"`
}

type CompleteRequest struct {
	UserID    string `json:"userId"`
	VideoID   string `json:"videoId"`
	SessionID string `json:"sessionId"`
}

type CompleteResponse struct {
	Marks            float64           `json:"marks"`
	QuestionSequence []json.RawMessage `json:"questionSequence"`
}

type leaderboardData struct {
	Overall []domain.LeaderboardEntry `json:"overall"`
}

// SessionBackend wraps the endpoints of the server-authoritative quiz backend.
type SessionBackend struct {
	client *Client
}

func NewSessionBackend(client *Client) *SessionBackend {
	return &SessionBackend{client: client}
}

func (b *SessionBackend) Start(ctx context.Context, userID, contentID string) (StartResponse, error) {
	var out StartResponse
	params := url.Values{"userId": {userID}, "videoId": {contentID}}
	if err := b.client.Get(ctx, startPath, params, &out); err != nil {
		return StartResponse{}, fmt.Errorf("start test: %w", err)
	}
	return out, nil
}

func (b *SessionBackend) SubmitAnswer(ctx context.Context, req AnswerRequest) (AnswerResponse, error) {
	var out AnswerResponse
	if err := b.client.Post(ctx, submitPath, req, &out); err != nil {
		return AnswerResponse{}, fmt.Errorf("submit answer: %w", err)
	}
	return out, nil
}

func (b *SessionBackend) NextQuestion(ctx context.Context, req NextRequest) (NextResponse, error) {
	var out NextResponse
	if err := b.client.Post(ctx, nextPath, req, &out); err != nil {
		return NextResponse{}, fmt.Errorf("next question: %w", err)
	}
	return out, nil
}

func (b *SessionBackend) Complete(ctx context.Context, req CompleteRequest) (CompleteResponse, error) {
	var out CompleteResponse
	if err := b.client.Post(ctx, completePath, req, &out); err != nil {
		return CompleteResponse{}, fmt.Errorf("submit test: %w", err)
	}
	return out, nil
}

// Overall fetches the backend's raw leaderboard; it satisfies app.LeaderboardSource.
func (b *SessionBackend) Overall(ctx context.Context, contentID string) ([]domain.LeaderboardEntry, error) {
	var out leaderboardData
	if err := b.client.Get(ctx, leaderboardPath, url.Values{"videoId": {contentID}}, &out); err != nil {
		return nil, fmt.Errorf("generate leaderboard: %w", err)
	}
	if out.Overall == nil {
		out.Overall = []domain.LeaderboardEntry{}
	}
	return out.Overall, nil
}

func (b *SessionBackend) Health(ctx context.Context) error {
	return b.client.Health(ctx)
}
