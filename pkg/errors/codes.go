package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeStorageError       ErrorCode = "COMMON_014"
	ErrCodeMessagingError     ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Aliases kept short for call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
)

// Layout Module Error Codes
const (
	// ErrCodeMalformedInput: the tokenizer or graph builder could not produce a graph.
	ErrCodeMalformedInput ErrorCode = "LAY_001"
	// ErrCodeIncompleteRingAssignment: peeling exhausted its rules with rings unclassified.
	ErrCodeIncompleteRingAssignment ErrorCode = "LAY_002"
	// ErrCodeUnsupportedRingAttachment: no placement rule for the ring's attachment kind.
	ErrCodeUnsupportedRingAttachment ErrorCode = "LAY_003"
	// ErrCodeDegenerateGeometry: zero-length anchor or non-finite polygon.
	ErrCodeDegenerateGeometry ErrorCode = "LAY_004"
	ErrCodeMoleculeTooLarge   ErrorCode = "LAY_005"
	ErrCodeExampleNotFound    ErrorCode = "LAY_006"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeMalformedInput:            http.StatusBadRequest,
	ErrCodeIncompleteRingAssignment:  http.StatusUnprocessableEntity,
	ErrCodeUnsupportedRingAttachment: http.StatusUnprocessableEntity,
	ErrCodeDegenerateGeometry:        http.StatusUnprocessableEntity,
	ErrCodeMoleculeTooLarge:          http.StatusRequestEntityTooLarge,
	ErrCodeExampleNotFound:           http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeMalformedInput:            "malformed SMILES input",
	ErrCodeIncompleteRingAssignment:  "ring assignment incomplete",
	ErrCodeUnsupportedRingAttachment: "unsupported ring attachment",
	ErrCodeDegenerateGeometry:        "degenerate ring geometry",
	ErrCodeMoleculeTooLarge:          "molecule exceeds atom limit",
	ErrCodeExampleNotFound:           "example molecule not found",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// Process exit codes used by the command line.
const (
	ExitOK         = 0
	ExitParseError = 1
	ExitUsageError = 2
	ExitInternal   = 3
)

// ExitCodeFor maps an error to a process exit code: parse failures exit 1,
// invalid arguments exit 2, anything else exits 3.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeMalformedInput, ErrCodeMoleculeTooLarge:
		return ExitParseError
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeExampleNotFound:
		return ExitUsageError
	default:
		return ExitInternal
	}
}

//Personal.AI order the ending
