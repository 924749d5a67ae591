package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeExecution        = "EXECUTION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMalformedGraph   = "MALFORMED_GRAPH"
	ErrCodeInconsistentJoin = "INCONSISTENT_JOIN"
	ErrCodeMissingOperation = "MISSING_OPERATION"
)

// FlowtreeError is the structured error type for all flowtree operations.
// Conversion failures are fatal for the whole call: no partial tree is
// returned alongside a non-nil error.
type FlowtreeError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	NodeID  string         `json:"node_id,omitempty"`
	Cause   error          `json:"-"`
}

func (e *FlowtreeError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *FlowtreeError) Unwrap() error {
	return e.Cause
}

// NewError creates a new FlowtreeError.
func NewError(code, message string) *FlowtreeError {
	return &FlowtreeError{Code: code, Message: message}
}

// NewErrorf creates a new FlowtreeError with a formatted message.
func NewErrorf(code, format string, args ...any) *FlowtreeError {
	return &FlowtreeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithNode attaches a node ID to the error.
func (e *FlowtreeError) WithNode(nodeID string) *FlowtreeError {
	e.NodeID = nodeID
	return e
}

// WithCause attaches an underlying cause.
func (e *FlowtreeError) WithCause(err error) *FlowtreeError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *FlowtreeError) WithDetails(details map[string]any) *FlowtreeError {
	e.Details = details
	return e
}
