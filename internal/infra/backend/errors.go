package backend

import (
	"fmt"

	"adaptive-quiz-service/internal/domain"
)

// NetworkError indicates the backend could not be reached or did not answer in time.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timeout: %v", e.Err)
	}
	return fmt.Sprintf("network connection failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{domain.ErrUnavailable, e.Err} }

// AuthError indicates the backend rejected our credentials (401/403). Never retried.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func (e *AuthError) Unwrap() error { return domain.ErrUnauthorized }

// RateLimitError is returned once the retry budget is spent on 429 responses.
type RateLimitError struct {
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded after %d attempts", e.Attempts)
}

func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// ServerError is any other non-2xx answer, or an envelope reporting success=false.
type ServerError struct {
	Status int
	Code   string
	Detail string
	Text   string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Text)
}

func (e *ServerError) Unwrap() error { return domain.ErrBackend }

// ServerMessage is the message the backend put in the response body, if any.
func (e *ServerError) ServerMessage() string { return e.Detail }
