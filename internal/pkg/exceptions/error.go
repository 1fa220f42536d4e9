package exceptions

import (
	"errors"
	"fmt"
	"mentorship-service/internal/pkg/constvars"
	"runtime"
)

type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindBusinessRule       Kind = "business_rule"
	KindUnauthorized       Kind = "unauthorized"
	KindPaymentProvider    Kind = "payment_provider"
	KindPaymentNotCaptured Kind = "payment_not_captured"
	KindGone               Kind = "gone"
	KindValidation         Kind = "validation"
	KindRateLimited        Kind = "rate_limited"
	KindInternal           Kind = "internal"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Kind          Kind       `json:"kind,omitempty"`
	Provider      string     `json:"-"`
	Locations     []Location `json:"locations,omitempty"`
	cause         error
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	loc := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, loc.File, loc.Line, loc.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// BuildNewCustomError wraps err (which may be nil) and records the caller location.
// When err is already a CustomError its locations are kept so the chain shows every hop.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	customErr := &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Kind:          kindFromStatus(statusCode),
		Locations:     []Location{getLocation(3)},
		cause:         err,
	}

	if err != nil {
		customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
		var inner *CustomError
		if errors.As(err, &inner) {
			customErr.Locations = append(customErr.Locations, inner.Locations...)
			customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, inner.DevMessage)
		}
	}
	return customErr
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Kind:          kindFromStatus(statusCode),
		Locations:     []Location{getLocation(2)},
	}
}

// KindOf reports the kind of the outermost CustomError in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func kindFromStatus(statusCode int) Kind {
	switch statusCode {
	case constvars.StatusNotFound:
		return KindNotFound
	case constvars.StatusConflict:
		return KindConflict
	case constvars.StatusUnprocessableEntity:
		return KindBusinessRule
	case constvars.StatusUnauthorized, constvars.StatusForbidden:
		return KindUnauthorized
	case constvars.StatusBadGateway:
		return KindPaymentProvider
	case constvars.StatusPaymentRequired:
		return KindPaymentNotCaptured
	case constvars.StatusGone:
		return KindGone
	case constvars.StatusBadRequest:
		return KindValidation
	case constvars.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
