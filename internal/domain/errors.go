package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the domain and application layers
// unwraps to exactly one of these.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrAlreadyDeleted = errors.New("already deleted")
	ErrConflict       = errors.New("conflict")
)

// Error is a specific domain error tagged with its kind.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

var (
	ErrUserNotFound          = newError(ErrNotFound, "user not found")
	ErrPostNotFound          = newError(ErrNotFound, "post not found")
	ErrCommentNotFound       = newError(ErrNotFound, "comment not found")
	ErrConversationNotFound  = newError(ErrNotFound, "conversation not found")
	ErrReadPositionNotFound  = newError(ErrNotFound, "read position not found")
	ErrNotMember             = newError(ErrUnauthorized, "user not member of conversation")
	ErrNotAuthor             = newError(ErrUnauthorized, "only the author can modify this content")
	ErrInvalidCredentials    = newError(ErrUnauthorized, "identity token rejected")
	ErrPostAlreadyDeleted    = newError(ErrAlreadyDeleted, "post already deleted")
	ErrCommentAlreadyDeleted = newError(ErrAlreadyDeleted, "comment already deleted")
	ErrSelfConversation      = newError(ErrValidation, "cannot start a conversation with yourself")
	ErrConversationExists    = newError(ErrConflict, "conversation already exists for this member pair")
)

// InvalidIDError reports a raw identifier that is not a canonical UUID.
type InvalidIDError struct {
	Type  string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Type, e.Value)
}

func (e *InvalidIDError) Unwrap() error { return ErrValidation }

// ValidationError reports a content value that violates its format or length rules.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
