package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// DetailError carries the client-facing message for one of the sentinel kinds above.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string { return e.Kind.Error() + ": " + e.Detail }

func (e *DetailError) Unwrap() error { return e.Kind }

func validation(detail string) error   { return &DetailError{Kind: ErrValidation, Detail: detail} }
func notFound(detail string) error     { return &DetailError{Kind: ErrNotFound, Detail: detail} }
func unauthorized(detail string) error { return &DetailError{Kind: ErrUnauthorized, Detail: detail} }
func forbidden(detail string) error    { return &DetailError{Kind: ErrForbidden, Detail: detail} }
func conflict(detail string) error     { return &DetailError{Kind: ErrConflict, Detail: detail} }

// Detail returns the client-facing message of err, or "" for unexpected errors.
func Detail(err error) string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail
	}
	return ""
}

const detailNotFound = "Not found"

// lookup maps a missing row to a 404 and passes other errors through.
func lookup[T any](v *T, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(detailNotFound)
		}
		return nil, err
	}
	return v, nil
}

// onWrite maps a uniqueness violation reported by the database to the same
// validation error the pre-check would have produced.
func onWrite(err error, duplicateDetail string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validation(duplicateDetail)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(detailNotFound)
	}
	return err
}
