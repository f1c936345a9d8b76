package fbx

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mogaika/fbxdoc/readat"
)

type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrBadMagic
	ErrTruncated
	ErrCompression
	ErrNoVersion
	ErrSyntax
	ErrIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBadMagic:
		return "bad magic"
	case ErrTruncated:
		return "truncated"
	case ErrCompression:
		return "compression"
	case ErrNoVersion:
		return "no version"
	case ErrSyntax:
		return "syntax"
	case ErrIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is returned by every read entry point
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fbx %v: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("fbx %v: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// ErrorKindOf returns ErrUnknown for errors not produced by this package
func ErrorKindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrUnknown
}

// recoverError turns decoder panics into *Error. Foreign panics are re-raised
func recoverError(r interface{}) *Error {
	switch e := r.(type) {
	case nil:
		return nil
	case *Error:
		return e
	case *readat.Error:
		return newError(ErrTruncated, e, "unexpected end of data")
	default:
		panic(r)
	}
}
