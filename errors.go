package statechart

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in chart construction or execution
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// A referenced state does not exist in the chart
	ErrCodeUnknownState
	// The parent of a new state cannot contain children
	ErrCodeInvalidContext
	// A context already owns a start pseudostate
	ErrCodeDuplicateStart
	// A context that needs a start pseudostate has none
	ErrCodeMissingStart
	// A start pseudostate has the wrong outgoing transitions
	ErrCodeInvalidStart
	// A hierarchical state already owns a history pseudostate
	ErrCodeDuplicateHistory
	// A history pseudostate is misplaced or has the wrong outgoing transition
	ErrCodeInvalidHistory
	// The source or target of a transition does not accept it
	ErrCodeTransitionNotAllowed
	// An event was dispatched to an end pseudostate
	ErrCodeDispatchToEnd
	// An event was dispatched to, or a child activated under, an inactive state
	ErrCodeInactiveState
	// The chart has not been started
	ErrCodeNotStarted
	// Dispatch was called from inside an action or guard
	ErrCodeReentrantDispatch
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeNone:                 "none",
	ErrCodeUnknownState:         "unknown_state",
	ErrCodeInvalidContext:       "invalid_context",
	ErrCodeDuplicateStart:       "duplicate_start",
	ErrCodeMissingStart:         "missing_start",
	ErrCodeInvalidStart:         "invalid_start",
	ErrCodeDuplicateHistory:     "duplicate_history",
	ErrCodeInvalidHistory:       "invalid_history",
	ErrCodeTransitionNotAllowed: "transition_not_allowed",
	ErrCodeDispatchToEnd:        "dispatch_to_end",
	ErrCodeInactiveState:        "inactive_state",
	ErrCodeNotStarted:           "not_started",
	ErrCodeReentrantDispatch:    "reentrant_dispatch",
}

// String returns the snake_case name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error_code(%d)", int(c))
}

var (
	// ErrStructural matches every StructuralViolation through errors.Is
	ErrStructural = errors.New("statechart: structural violation")

	// ErrInvariant matches every InvariantViolation through errors.Is
	ErrInvariant = errors.New("statechart: invariant violation")
)

// StructuralViolation reports a defect in the chart definition detected while it is built.
type StructuralViolation struct {
	Code    ErrorCode
	State   string
	Message string
}

func (e *StructuralViolation) Error() string {
	if e.State == "" {
		return fmt.Sprintf("structural violation [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("structural violation [%s] at '%s': %s", e.Code, e.State, e.Message)
}

// Is reports whether target is ErrStructural
func (e *StructuralViolation) Is(target error) bool {
	return target == ErrStructural
}

// NewStructuralViolation creates a new structural violation
func NewStructuralViolation(code ErrorCode, state string, message string) *StructuralViolation {
	return &StructuralViolation{
		Code:    code,
		State:   state,
		Message: message,
	}
}

// InvariantViolation reports a broken engine invariant detected while a chart runs.
// The chart instance should be treated as unusable afterwards.
type InvariantViolation struct {
	Code    ErrorCode
	State   string
	Message string
}

func (e *InvariantViolation) Error() string {
	if e.State == "" {
		return fmt.Sprintf("invariant violation [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("invariant violation [%s] at '%s': %s", e.Code, e.State, e.Message)
}

// Is reports whether target is ErrInvariant
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrInvariant
}

// NewInvariantViolation creates a new invariant violation
func NewInvariantViolation(code ErrorCode, state string, message string) *InvariantViolation {
	return &InvariantViolation{
		Code:    code,
		State:   state,
		Message: message,
	}
}

// NewNotStartedError creates the violation returned when a chart is used before Start
func NewNotStartedError(operation string) *InvariantViolation {
	return &InvariantViolation{
		Code:    ErrCodeNotStarted,
		Message: fmt.Sprintf("%s called before the chart was started", operation),
	}
}

// IsStructuralViolation checks if an error is, or wraps, a StructuralViolation
func IsStructuralViolation(err error) bool {
	var target *StructuralViolation
	return errors.As(err, &target)
}

// IsInvariantViolation checks if an error is, or wraps, an InvariantViolation
func IsInvariantViolation(err error) bool {
	var target *InvariantViolation
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var structural *StructuralViolation
	if errors.As(err, &structural) {
		return structural.Code
	}
	var invariant *InvariantViolation
	if errors.As(err, &invariant) {
		return invariant.Code
	}
	return ErrCodeNone
}
