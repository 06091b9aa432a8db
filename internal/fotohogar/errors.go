package fotohogar

import "errors"

// Kind classifies failures returned by the data service.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidCredentials
	KindNotAuthenticated
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return ""
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotAuthenticated:
		return "not_authenticated"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to the user;
// Err, when set, carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	sentinel bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind against one of the package sentinels,
// so errors.Is(err, ErrNotFound) holds for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found", sentinel: true}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict", sentinel: true}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden", sentinel: true}
	ErrInternal           = &Error{Kind: KindInternal, Message: "internal error", sentinel: true}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password", sentinel: true}
	ErrNotAuthenticated   = &Error{Kind: KindNotAuthenticated, Message: "not logged in", sentinel: true}
)

// NewError returns a classified error with a user-facing message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// InternalError wraps an unexpected failure behind a generic message.
func InternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf classifies err. Unclassified errors count as internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Result is the uniform {ok, data, message} envelope callers can render
// instead of handling Go errors directly.
type Result[T any] struct {
	OK      bool   `json:"ok"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// NewResult builds the envelope for a (data, err) pair.
func NewResult[T any](data T, err error) Result[T] {
	if err != nil {
		var zero T
		return Result[T]{Data: zero, Message: err.Error(), Kind: KindOf(err).String()}
	}
	return Result[T]{OK: true, Data: data}
}

// Domain failures shared by every Repository implementation.
var (
	ErrAlbumNotFound  = NewError(KindNotFound, "album not found")
	ErrPhotoNotFound  = NewError(KindNotFound, "photo not found")
	ErrUserNotFound   = NewError(KindNotFound, "no user found with that email")
	ErrNotMember      = NewError(KindNotFound, "user is not a member of the album")
	ErrAlreadyMember  = NewError(KindConflict, "user is already a member of the album")
	ErrRemoveCreator  = NewError(KindForbidden, "the album creator cannot be removed")
	ErrNotAlbumAuthor = NewError(KindForbidden, "only the album creator can remove members")
)
