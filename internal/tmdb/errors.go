package tmdb

import (
	"errors"
	"fmt"
)

// ErrKind classifies a failed catalog call.
type ErrKind int

const (
	// ErrKindTimeout means the call exceeded its deadline.
	ErrKindTimeout ErrKind = iota
	// ErrKindTransport means the request could not be completed
	// (connection error, non-2xx status).
	ErrKindTransport
	// ErrKindMalformed means the response body could not be decoded.
	ErrKindMalformed
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTimeout:
		return "timeout"
	case ErrKindTransport:
		return "transport"
	case ErrKindMalformed:
		return "malformed"
	}
	return "unknown"
}

// CallError is a typed failure from one catalog call.
// Callers decide on retries; the client never retries.
type CallError struct {
	Kind     ErrKind
	Endpoint string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("tmdb %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a catalog call that hit its deadline.
func IsTimeout(err error) bool {
	var ce *CallError
	return errors.As(err, &ce) && ce.Kind == ErrKindTimeout
}
