package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeExtractionParse   = "EXTRACTION_PARSE_ERROR"
	ErrCodeGeneration        = "GENERATION_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion     = NewDomainError(ErrCodeValidation, "question is required")
	ErrQuestionsNotArray = NewDomainError(ErrCodeValidation, "questions must be an array")
	ErrMissingUploadFile = NewDomainError(ErrCodeValidation, "file is required")
	ErrNegativeMaxMarks  = NewDomainError(ErrCodeValidation, "max_marks must be non-negative")
	ErrMaxMarksTooLarge  = NewDomainError(ErrCodeValidation, "max_marks exceeds the allowed maximum")
	ErrEmptyDocument     = NewDomainError(ErrCodeValidation, "document contains no extractable text")
)

// Format errors
var (
	ErrUnsupportedFormat = NewDomainError(ErrCodeUnsupportedFormat, "unsupported file format")
)

// Generation and extraction errors
var (
	ErrNoGeneration    = NewDomainError(ErrCodeGeneration, "ai provider returned no usable output")
	ErrCorpusNotLoaded = NewDomainError(ErrCodeGeneration, "faq corpus is not loaded")
	ErrExtractionParse = NewDomainError(ErrCodeExtractionParse, "failed to parse extracted test")
)
