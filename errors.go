package reader

import (
	"errors"
	"fmt"
)

// ErrorCode classifies recognition errors.
type ErrorCode string

const (
	// The recognizer returned a result of an unexpected shape.
	ErrorTypeMismatch ErrorCode = "RECOGNITION_TYPE_MISMATCH"
	// The underlying recognizer failed.
	ErrorRecognitionFailure ErrorCode = "RECOGNITION_FAILURE"
)

// ErrEmptySelection is returned by Extractor.Extract when no selected
// fragment has usable text. Callers treat it as a no-op, not a failure.
var ErrEmptySelection = errors.New("no fragment selected")

// RecognitionError is reported to the user as is. Recognition is never retried.
type RecognitionError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *RecognitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RecognitionError) Unwrap() error {
	return e.Cause
}

func NewTypeMismatchError(detail string) *RecognitionError {
	return &RecognitionError{
		Code:    ErrorTypeMismatch,
		Message: "unexpected result type: " + detail,
	}
}

func NewRecognitionFailure(recognizer string, cause error) *RecognitionError {
	return &RecognitionError{
		Code:    ErrorRecognitionFailure,
		Message: "recognizer failure: " + recognizer,
		Cause:   cause,
	}
}

// IsCode reports whether err is a RecognitionError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var re *RecognitionError
	return errors.As(err, &re) && re.Code == code
}
