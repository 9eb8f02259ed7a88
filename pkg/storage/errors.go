package storage

import (
	"errors"

	"gorm.io/gorm"
)

// Standardized storage errors. They abstract away the underlying database
// error details so callers can branch without importing gorm.
var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when an insert violates a name uniqueness
	// constraint.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrVersionConflict is returned by AppendVersion when the targeted
	// version slot is already taken.
	ErrVersionConflict = errors.New("version slot already taken")
)

// translateError converts GORM errors into the standardized errors above.
// Unknown errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	}

	return err
}
