package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/angelmondragon/storefront/pkg/enums"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeRejected     Code = "REMOTE_REJECTED"
	CodeDependency   Code = "DEPENDENCY_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Generic connectivity messages shown when the remote is unreachable or returns garbage.
const (
	MsgBackendUnavailable = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
	MsgCatalogUnavailable = "Something went wrong. Check the backend console for more details"
	MsgCartUnavailable    = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
)

type Metadata struct {
	Severity      enums.Severity
	PublicMessage string
	// Verbatim reports whether the error's own message is shown to the shopper as-is.
	Verbatim bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Severity:      enums.SeverityWarning,
		PublicMessage: "validation failed",
		Verbatim:      true,
	},
	CodeUnauthorized: {
		Severity:      enums.SeverityWarning,
		PublicMessage: "authentication required",
		Verbatim:      true,
	},
	CodeNotFound: {
		Severity:      enums.SeverityError,
		PublicMessage: "resource not found",
		Verbatim:      true,
	},
	CodeRejected: {
		Severity:      enums.SeverityError,
		PublicMessage: "request rejected",
		Verbatim:      true,
	},
	CodeDependency: {
		Severity:      enums.SeverityError,
		PublicMessage: MsgBackendUnavailable,
		Verbatim:      true,
	},
	CodeInternal: {
		Severity:      enums.SeverityError,
		PublicMessage: "internal error",
		Verbatim:      false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// Notice returns the severity and shopper-facing text for err. Untyped errors are
// reported as internal failures.
func Notice(err error) (enums.Severity, string) {
	typed := As(err)
	if typed == nil {
		meta := MetadataFor(CodeInternal)
		return meta.Severity, meta.PublicMessage
	}
	meta := MetadataFor(typed.Code())
	if meta.Verbatim && typed.Message() != "" {
		return meta.Severity, typed.Message()
	}
	return meta.Severity, meta.PublicMessage
}
