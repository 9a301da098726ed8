package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a numerical analysis failure
type Kind string

const (
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindEmptyInput        Kind = "empty_input"
	KindInsufficientData  Kind = "insufficient_data"
	KindUndefinedResult   Kind = "undefined_result"
	KindDuplicateAbscissa Kind = "duplicate_abscissa"
	KindInvalidArgument   Kind = "invalid_argument"
)

// AnalysisError is the single failure signal returned by the numerical engines.
// Two AnalysisErrors match under errors.Is when their kinds are equal.
type AnalysisError struct {
	Kind    Kind                   `json:"kind"`
	Op      string                 `json:"op,omitempty"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e == nil {
		return "unknown analysis error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Kind, e.Op, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is an AnalysisError of the same kind
func (e *AnalysisError) Is(target error) bool {
	t, ok := target.(*AnalysisError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// WithContext adds context to the error
func (e *AnalysisError) WithContext(key string, value interface{}) *AnalysisError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is comparisons
var (
	ErrDimensionMismatch = &AnalysisError{Kind: KindDimensionMismatch, Message: "paired sequences have different lengths"}
	ErrEmptyInput        = &AnalysisError{Kind: KindEmptyInput, Message: "sample is empty"}
	ErrInsufficientData  = &AnalysisError{Kind: KindInsufficientData, Message: "too few observations"}
	ErrUndefinedResult   = &AnalysisError{Kind: KindUndefinedResult, Message: "result is undefined"}
	ErrDuplicateAbscissa = &AnalysisError{Kind: KindDuplicateAbscissa, Message: "abscissas are not strictly increasing"}
	ErrInvalidArgument   = &AnalysisError{Kind: KindInvalidArgument, Message: "invalid argument"}
)

// NewDimensionMismatchError reports paired sequences of unequal length
func NewDimensionMismatchError(op string, left, right int) *AnalysisError {
	return (&AnalysisError{
		Kind:    KindDimensionMismatch,
		Op:      op,
		Message: fmt.Sprintf("length %d does not match length %d", left, right),
	}).WithContext("left", left).WithContext("right", right)
}

// NewEmptyInputError reports a zero-length sample
func NewEmptyInputError(op string) *AnalysisError {
	return &AnalysisError{
		Kind:    KindEmptyInput,
		Op:      op,
		Message: "at least one observation is required",
	}
}

// NewInsufficientDataError reports fewer observations than an algorithm needs
func NewInsufficientDataError(op string, have, need int) *AnalysisError {
	return (&AnalysisError{
		Kind:    KindInsufficientData,
		Op:      op,
		Message: fmt.Sprintf("need at least %d observations, got %d", need, have),
	}).WithContext("have", have).WithContext("need", need)
}

// NewUndefinedResultError reports a division by a zero quantity
func NewUndefinedResultError(op, quantity string) *AnalysisError {
	return (&AnalysisError{
		Kind:    KindUndefinedResult,
		Op:      op,
		Message: fmt.Sprintf("%s is zero", quantity),
	}).WithContext("quantity", quantity)
}

// NewDuplicateAbscissaError reports an interpolation abscissa that does not increase
func NewDuplicateAbscissaError(op string, index int, x float64) *AnalysisError {
	return (&AnalysisError{
		Kind:    KindDuplicateAbscissa,
		Op:      op,
		Message: fmt.Sprintf("abscissa %g at position %d does not increase", x, index),
	}).WithContext("index", index).WithContext("x", x)
}

// NewInvalidArgumentError reports a parameter or value the engine cannot accept
func NewInvalidArgumentError(op, message string) *AnalysisError {
	return &AnalysisError{
		Kind:    KindInvalidArgument,
		Op:      op,
		Message: message,
	}
}

// WrapAnalysisError attaches a cause to a new AnalysisError of the given kind
func WrapAnalysisError(kind Kind, op, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

// IsAnalysisError checks if err carries an AnalysisError
func IsAnalysisError(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}

// KindOf returns the analysis kind of err, or "" when err is not an AnalysisError
func KindOf(err error) Kind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// FailureMarker renders err for the status column of an output table
func FailureMarker(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := KindOf(err); kind != "" {
		return "error: " + string(kind)
	}
	return "error: " + err.Error()
}
