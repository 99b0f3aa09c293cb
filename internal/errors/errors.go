package errors

import "fmt"

// ErrorCode represents an idmark error code.
type ErrorCode string

const (
	ErrUnsupportedEncoding ErrorCode = "UNSUPPORTED_ENCODING" // 422, skip-with-warning
	ErrUnknownLanguage     ErrorCode = "UNKNOWN_LANGUAGE"     // 422, skip-with-warning
	ErrParseError          ErrorCode = "PARSE_ERROR"          // 422, partial result
	ErrIO                  ErrorCode = "IO_ERROR"             // 500, fails the single file
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrUpstream            ErrorCode = "UPSTREAM"             // 502, LLM endpoint failure
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewUnsupportedEncoding creates an error for a file whose encoding could
// not be confidently detected.
func NewUnsupportedEncoding(path string) *Error {
	return &Error{
		Code:    ErrUnsupportedEncoding,
		Status:  422,
		Message: fmt.Sprintf("unsupported encoding for %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewUnknownLanguage creates an error for a filename no language profile matches.
func NewUnknownLanguage(path string) *Error {
	return &Error{
		Code:    ErrUnknownLanguage,
		Status:  422,
		Message: fmt.Sprintf("no language profile matches %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewParseError creates an error noting reduced fidelity for a file whose
// grammar engine reported structural errors. Extraction still proceeds
// best-effort over the parseable portion.
func NewParseError(path string) *Error {
	return &Error{
		Code:    ErrParseError,
		Status:  422,
		Message: fmt.Sprintf("syntax errors in %s; identifier set may be incomplete", path),
		Details: map[string]any{"path": path},
	}
}

// NewIO creates an error for an unreadable or unwritable file.
func NewIO(path string, err error) *Error {
	return &Error{
		Code:    ErrIO,
		Status:  500,
		Message: fmt.Sprintf("%s: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUpstream creates an error for a failed LLM endpoint call.
func NewUpstream(status int, msg string) *Error {
	return &Error{
		Code:    ErrUpstream,
		Status:  502,
		Message: fmt.Sprintf("llm endpoint returned %d: %s", status, msg),
		Details: map[string]any{"upstream_status": status},
	}
}

// NewInternal wraps an unexpected error.
func NewInternal(err error) *Error {
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: err.Error(),
	}
}
