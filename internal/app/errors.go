package app

import (
	"errors"

	"adaptive-quiz-service/internal/domain"
)

// UserMessage turns an error from this package's use cases into text that can be shown
// to the learner. None of these errors end the session.
func UserMessage(err error) string {
	var serverErr interface{ ServerMessage() string }
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnauthorized):
		return "Your sign-in has expired. Please sign in again."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests right now. Please wait a moment and try again."
	case errors.Is(err, domain.ErrUnavailable):
		return "We couldn't reach the server. Check your connection and try again."
	case errors.As(err, &serverErr) && serverErr.ServerMessage() != "":
		return serverErr.ServerMessage()
	case errors.Is(err, domain.ErrBackend):
		return "Something went wrong on our side. Please try again."
	case errors.Is(err, domain.ErrNoSelection):
		return "Pick an option first."
	case errors.Is(err, domain.ErrInvalidOption):
		return "That option does not exist."
	case errors.Is(err, domain.ErrRequestInFlight):
		return "Still working on your last answer."
	case errors.Is(err, domain.ErrSessionCompleted):
		return "This practice is already finished."
	case errors.Is(err, domain.ErrSessionNotFound):
		return "No practice in progress. Start a new one."
	case errors.Is(err, domain.ErrBankNotFound):
		return "This practice is not available."
	}
	return "Something went wrong. Please try again."
}

// Recoverable reports whether the learner can retry the same action. Authorization
// failures need a new sign-in first.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	return !errors.Is(err, domain.ErrUnauthorized) && !errors.Is(err, domain.ErrSessionCompleted)
}
