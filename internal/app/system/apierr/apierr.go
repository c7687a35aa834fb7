// internal/app/system/apierr/apierr.go

// Package apierr defines the error kinds the API reports and renders them
// as JSON. Handlers wrap failures in a kind; Render maps the kind to an
// HTTP status and writes the error envelope. Anything without a kind is
// treated as a remote/storage failure.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an API error.
type Kind string

const (
	// KindInvalidInput covers malformed request data: bad dates, bad IDs,
	// empty required fields.
	KindInvalidInput Kind = "InvalidInput"

	// KindValidation covers requests that are well-formed but violate a
	// business rule (e.g. saving an attendance sheet with no statuses).
	KindValidation Kind = "ValidationError"

	// KindNotFound covers edit/delete targets that no longer exist.
	KindNotFound Kind = "NotFound"

	// KindRemote covers storage and network failures.
	KindRemote Kind = "RemoteFailure"
)

// Error carries a kind, a user-facing message, and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput builds an InvalidInput error with an optional cause.
func InvalidInput(msg string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Err: cause}
}

// Validation builds a ValidationError.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound builds a NotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Remote wraps a storage/network failure with a short user-facing message.
func Remote(msg string, cause error) *Error {
	return &Error{Kind: KindRemote, Message: msg, Err: cause}
}

// KindOf extracts the kind from an error chain; unclassified errors
// count as RemoteFailure.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindRemote
}

// statusFor maps an error kind to its HTTP status.
func statusFor(k Kind) int {
	switch k {
	case KindInvalidInput, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// envelope is the JSON error body: {"error":{"kind":"...","message":"..."}}.
type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Render writes err as a JSON error response. The message shown to the
// client is the Error's Message; causes stay server-side.
func Render(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	msg := "An unexpected error occurred."
	var ae *Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(kind))
	_ = json.NewEncoder(w).Encode(envelope{Error: body{Kind: kind, Message: msg}})
}

// ErrorLogger logs server-side failures and renders the client-facing
// error in one call, so handlers stay short.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs the underlying error with context and responds with a
// RemoteFailure envelope carrying userMsg.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	l.Log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	)
	Render(w, Remote(userMsg, err))
}

// LogError renders err as-is and logs it only when it is a server-side
// (RemoteFailure) kind; client mistakes are not log noise.
func (l *ErrorLogger) LogError(w http.ResponseWriter, r *http.Request, err error) {
	if KindOf(err) == KindRemote {
		l.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(err),
		)
	}
	Render(w, err)
}
