package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Network and proxy errors (1xxx)
	ErrCodeNetworkUnavailable ErrorCode = "TDL1001"
	ErrCodeProxyInvalid       ErrorCode = "TDL1002"
	ErrCodeProxyUnreachable   ErrorCode = "TDL1003"
	ErrCodeAPIStatus          ErrorCode = "TDL1004"
	ErrCodeAPIResponse        ErrorCode = "TDL1005"

	// Configuration errors (2xxx)
	ErrCodeConfigInvalid ErrorCode = "TDL2001"
	ErrCodeConfigWrite   ErrorCode = "TDL2002"
	ErrCodeCredentials   ErrorCode = "TDL2003"

	// Repository errors (3xxx)
	ErrCodeRepoUnknown ErrorCode = "TDL3001"
	ErrCodeTagUnknown  ErrorCode = "TDL3002"

	// File system errors (5xxx)
	ErrCodeOutputDir     ErrorCode = "TDL5001"
	ErrCodeFileOperation ErrorCode = "TDL5002"

	// User input (6xxx)
	ErrCodeUserInput ErrorCode = "TDL6001"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "TDL9001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Process cannot continue
	SeverityError    ErrorSeverity = "ERROR"    // Action failed
	SeverityWarning  ErrorSeverity = "WARNING"  // Action skipped, program continues
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	var inner *AppError
	if errors.As(err, &inner) {
		for k, v := range inner.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// NetworkError wraps a transport failure talking to the API
func NetworkError(url string, cause error) *AppError {
	return Wrap(cause, ErrCodeNetworkUnavailable, "Request to GitHub API failed").
		WithContext("url", url).
		WithSuggestions(
			"Check your network connection",
			"Use --proxy if you are behind an HTTP proxy",
		)
}

// ProxyError creates a fatal proxy connectivity error
func ProxyError(proxyURL string, cause error) *AppError {
	return Wrap(cause, ErrCodeProxyUnreachable, fmt.Sprintf("Proxy %s is not usable", proxyURL)).
		WithSeverity(SeverityCritical).
		WithContext("proxy", proxyURL).
		WithSuggestions(
			"Verify the proxy host and port",
			"Check the proxy credentials given with --proxy-user",
		)
}

// StatusError reports a non-success HTTP status from the API. The server was
// reached, so the failure only ends the current action.
func StatusError(url string, status int) *AppError {
	err := New(ErrCodeAPIStatus, fmt.Sprintf("GitHub API returned HTTP %d", status)).
		WithSeverity(SeverityWarning).
		WithContext("url", url).
		WithContext("status", status)
	if status == 403 || status == 429 {
		_ = err.WithSuggestions("The unauthenticated API rate limit may be exhausted, try again later")
	}
	return err
}

// OutputDirError creates a fatal output directory error
func OutputDirError(dir string, reason string, cause error) *AppError {
	err := New(ErrCodeOutputDir, fmt.Sprintf("Output directory %q %s", dir, reason)).
		WithSeverity(SeverityCritical).
		WithContext("dir", dir).
		WithSuggestions(
			"Create the directory or choose another one with --output-dir",
			"Check TESSDATA_PREFIX if no --output-dir was given",
		)
	err.Cause = cause
	return err
}

// UnknownTagError is reported when a tag does not exist in a repository
func UnknownTagError(repository, tag string) *AppError {
	return New(ErrCodeTagUnknown, fmt.Sprintf("Unknown tag '%s' for repository '%s'", tag, repository)).
		WithSeverity(SeverityWarning).
		WithContext("repository", repository).
		WithContext("tag", tag).
		WithSuggestions("Run with --list-tags to see available tags")
}

// UnknownRepositoryError is reported when a repository name is not one of the known ones
func UnknownRepositoryError(repository string) *AppError {
	return New(ErrCodeRepoUnknown, fmt.Sprintf("Unknown repository '%s'", repository)).
		WithSeverity(SeverityWarning).
		WithContext("repository", repository)
}

// IsFatal reports whether err must terminate the process
func IsFatal(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Severity != SeverityWarning
	}
	return err != nil
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}
