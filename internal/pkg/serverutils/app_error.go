package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors shared across the repository and service layers. Controllers
// map them to HTTP statuses through StatusForError.
var (
	// ErrNotInitialized: the vector store has not been loaded/connected yet.
	ErrNotInitialized = errors.New("vector store not initialized")
	// ErrEmbedding wraps upstream embedding API failures.
	ErrEmbedding = errors.New("embedding generation failed")
	// ErrEmptyStore: an operation needing at least one document found none.
	ErrEmptyStore = errors.New("no questions in store")
	// ErrQuestionNotFound: lookup by official question number missed.
	ErrQuestionNotFound = errors.New("question not found")
)

// AppError carries an explicit HTTP status alongside a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// StatusForError resolves the HTTP status for a service-layer error.
func StatusForError(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrQuestionNotFound), errors.Is(err, ErrEmptyStore):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNotInitialized):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrEmbedding):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
