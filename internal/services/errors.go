package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindTemplateNotFound     ErrorKind = "template_not_found"
	KindTemplateAssetMissing ErrorKind = "template_asset_missing"
	KindInvalidImage         ErrorKind = "invalid_image"
	KindDimensionMismatch    ErrorKind = "dimension_mismatch"
	KindStorageWrite         ErrorKind = "storage_write"
)

// Subjects of an invalid image error.
const (
	SubjectTemplate  = "template"
	SubjectUserPhoto = "user_photo"
)

var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateAssetMissing = errors.New("template asset missing")
	ErrInvalidImage         = errors.New("invalid image")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrStorageWrite         = errors.New("storage write failed")
)

var kindSentinels = map[ErrorKind]error{
	KindTemplateNotFound:     ErrTemplateNotFound,
	KindTemplateAssetMissing: ErrTemplateAssetMissing,
	KindInvalidImage:         ErrInvalidImage,
	KindDimensionMismatch:    ErrDimensionMismatch,
	KindStorageWrite:         ErrStorageWrite,
}

// Error is a cover generation failure. Subject names what failed: a model
// name, a file, or one of the Subject constants for invalid images.
type Error struct {
	Kind    ErrorKind
	Subject string
	Err     error
}

func newError(kind ErrorKind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

func (e *Error) Error() string {
	msg := kindSentinels[e.Kind].Error()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Subject)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}
