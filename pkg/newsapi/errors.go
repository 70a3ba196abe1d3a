package newsapi

import "fmt"

// Kind classifies client failures.
type Kind int

const (
	// KindRequestFailed: transport failure or unexpected HTTP status on Fetch.
	KindRequestFailed Kind = iota + 1
	// KindConvertStringFailed: the response body could not be read.
	KindConvertStringFailed
	// KindFormatFailed: a 2xx body that is not valid JSON.
	KindFormatFailed
	// KindURLParsing: the base URL cannot be parsed.
	KindURLParsing
	// KindBadRequest: the API answered with a non-"ok" status.
	KindBadRequest
	// KindAsyncRequestFailed: transport failure or unexpected HTTP status on FetchAsync.
	KindAsyncRequestFailed
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request failed"
	case KindConvertStringFailed:
		return "convert string failed"
	case KindFormatFailed:
		return "format failed"
	case KindURLParsing:
		return "url parsing"
	case KindBadRequest:
		return "bad request"
	case KindAsyncRequestFailed:
		return "async request failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrRequestFailed       = &Error{Kind: KindRequestFailed}
	ErrConvertStringFailed = &Error{Kind: KindConvertStringFailed}
	ErrFormatFailed        = &Error{Kind: KindFormatFailed}
	ErrURLParsing          = &Error{Kind: KindURLParsing}
	ErrBadRequest          = &Error{Kind: KindBadRequest}
	ErrAsyncRequestFailed  = &Error{Kind: KindAsyncRequestFailed}
)

func (e *Error) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Kind == KindBadRequest {
		msg = "request failed: " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can test against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

func newError(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

const unknownErrorReason = "Unknown error"

// responseErrors maps vendor error codes to the reason reported to callers.
var responseErrors = map[string]string{
	"apiKeyDisabled": "API key disabled",
}

// mapResponseErr turns the envelope's error code into a BadRequest error.
func mapResponseErr(code string) *Error {
	reason, ok := responseErrors[code]
	if !ok {
		reason = unknownErrorReason
	}
	return newError(KindBadRequest, reason, nil)
}
