package ingest

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure by which stage produced it.
type Kind string

const (
	// KindValidation: a required field is missing or invalid. No side
	// effects occurred (or they were rolled back).
	KindValidation Kind = "validation"

	// KindUpload: the blob store rejected or failed the image commit.
	// No catalog row was created.
	KindUpload Kind = "upload"

	// KindPersistence: the catalog insert failed after the blob (if
	// any) was committed. The blob has been rolled back.
	KindPersistence Kind = "persistence"
)

// Error codes quoted in error responses, for support reference.
const (
	CodeMissingName     = "VAL001"
	CodeMissingContact  = "VAL002"
	CodeNegativePrice   = "VAL003"
	CodeInvalidField    = "VAL004"
	CodeUnsupportedType = "UPL001"
	CodeImageTooLarge   = "UPL002"
	CodeBlobWrite       = "UPL003"
	CodeInsertFailed    = "STO001"
)

// Error is a pipeline failure with a machine-distinguishable kind, a
// short support code, and a human-readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a validation-stage failure.
func IsValidation(err error) bool { return hasKind(err, KindValidation) }

// IsUpload reports whether err is a blob-commit failure.
func IsUpload(err error) bool { return hasKind(err, KindUpload) }

// IsPersistence reports whether err is a catalog-insert failure.
func IsPersistence(err error) bool { return hasKind(err, KindPersistence) }

func hasKind(err error, kind Kind) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}

func validationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func uploadError(code, message string, err error) *Error {
	return &Error{Kind: KindUpload, Code: code, Message: message, Err: err}
}

func persistenceError(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Code: CodeInsertFailed, Message: message, Err: err}
}
