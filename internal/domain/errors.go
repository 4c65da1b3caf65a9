package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a domain failure / Classe une erreur du domaine
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindValidation
)

// String returns kind name / Retourne le nom du type d'erreur
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindValidation:
		return "ValidationError"
	default:
		return "InternalFailure"
	}
}

// Error carries a kind, a caller-facing message and an optional cause / Porte un type, un message et une cause
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for KindValidation only
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a missing-entity error / Construit une erreur d'entité absente
func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// InvalidArgument builds a caller error / Construit une erreur d'argument invalide
func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a field constraint error / Construit une erreur de contrainte de champ
func Validation(field, msg string) error {
	return &Error{Kind: KindValidation, Field: field, Message: strings.TrimSpace(msg)}
}

// Internal wraps an unexpected lower-layer fault / Encapsule une erreur inattendue
func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of the first domain error in the chain / Retourne le type de la première erreur du domaine
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a NotFound error / Indique si err est NotFound
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// AsError extracts the first domain error / Extrait la première erreur du domaine
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
