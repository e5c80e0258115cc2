package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindDuplicateAnswer
	KindAlreadySubmitted
	KindUpstream
	KindTimeout
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindDuplicateAnswer:
		return "duplicate_answer"
	case KindAlreadySubmitted:
		return "already_submitted"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Error is the single failure shape every service returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) holds for any
// not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrDuplicateAnswer  = &Error{Kind: KindDuplicateAnswer}
	ErrAlreadySubmitted = &Error{Kind: KindAlreadySubmitted}
	ErrUpstream         = &Error{Kind: KindUpstream}
	ErrTimeout          = &Error{Kind: KindTimeout}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func invalid(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

// validationError flattens validator output into one readable message.
func validationError(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return invalid("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		}
		return invalid("%s failed on '%s'", fe.Field(), fe.Tag())
	}
	return invalid("%v", err)
}

// storeError maps a store failure for the operation op into the taxonomy.
// what names the missing entity for not-found errors.
func storeError(ctx context.Context, op, what string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: fmt.Sprintf("%s timed out", op), Err: err}
	case errors.Is(err, database.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", what), Err: err}
	}
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("%s failed", op), Err: err}
}
