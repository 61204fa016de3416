package models

import "errors"

// Search error classes. Callers match with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMalformedResponse = errors.New("malformed response")
	ErrSearchFailed      = errors.New("search failed")
	ErrSuperseded        = errors.New("search superseded by a newer request")
	ErrNotFound          = errors.New("requested item not found")
)

// SearchError pairs an error class with the message shown to the user.
type SearchError struct {
	Class   error
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SearchError) Is(target error) bool { return target == e.Class }

func (e *SearchError) Unwrap() error { return e.Cause }

func NewInvalidInput(message string) error {
	return &SearchError{Class: ErrInvalidInput, Message: message}
}

func NewMalformedResponse(cause error) error {
	return &SearchError{
		Class:   ErrMalformedResponse,
		Message: "AI response was not in the expected format. Try rephrasing your search.",
		Cause:   cause,
	}
}

func NewSearchFailed(cause error) error {
	return &SearchError{
		Class:   ErrSearchFailed,
		Message: "Failed to fetch places from Gemini API.",
		Cause:   cause,
	}
}

// UserMessage returns the message to show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *SearchError
	if errors.As(err, &se) {
		return se.Message
	}
	if errors.Is(err, ErrSuperseded) {
		return "A newer search replaced this one."
	}
	return "An unknown error occurred."
}

const (
	MsgMissingLocation = "Please provide a location to search."
	MsgMissingQuery    = "Please enter something to search for."
)
