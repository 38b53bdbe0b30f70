package auth

import "github.com/tradebench/backend/internal/models"

// Failure codes carried on Result. Handlers map them onto HTTP statuses;
// embedded callers branch on them directly.
const (
	CodeValidation = "validation"
	CodeAuth       = "auth"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeBackend    = "backend"
)

// Result is the uniform outcome of every identity operation. Expected
// failures (bad input, wrong password, duplicate email) come back as
// Success=false with a code and message, never as an error.
type Result struct {
	Success bool
	User    *models.Profile
	Token   string
	Message string
	Code    string
}

func failure(code, message string) Result {
	return Result{Code: code, Message: message}
}
