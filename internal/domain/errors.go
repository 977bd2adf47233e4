package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no practice session is active for a learner.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank for a content id could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrQuestionNotFound indicates a question id is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionNotFound indicates an option text did not match any option of the question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrPoolEmpty means a bank has no questions at all for a tier.
	ErrPoolEmpty = errors.New("question pool is empty")
	// ErrUnknownDifficulty is returned for a tier outside easy/medium/hard.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrNoSelection is returned when an answer is submitted before an option was chosen.
	ErrNoSelection = errors.New("no option selected")
	// ErrInvalidOption is returned for an option index outside the question's options.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrSessionCompleted is returned for actions after the last question.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrInvalidState is returned when an action does not fit the current step.
	ErrInvalidState = errors.New("action not allowed in current state")
	// ErrRequestInFlight is returned while another request for the same session is outstanding.
	ErrRequestInFlight = errors.New("a request is already in progress")
	// ErrInvalidResponse indicates a backend response was missing required fields.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// Failure categories of the session backend. Transport errors unwrap to one of these.
var (
	ErrUnavailable  = errors.New("backend unavailable")
	ErrUnauthorized = errors.New("not authorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBackend      = errors.New("backend error")
)
