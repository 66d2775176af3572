package types

import "errors"

// Data access errors.
var (
	ErrNotFound = errors.New("habit not found")

	// ErrEntryRejected is returned when the store refuses an entry write,
	// e.g. a uniqueness or foreign key violation.
	ErrEntryRejected = errors.New("duplicate entry prevented")
)

// Validation errors. Callers map these to client errors.
var (
	ErrInvalidName    = errors.New("name is required")
	ErrInvalidIcon    = errors.New("icon is required")
	ErrInvalidColor   = errors.New("color must be a hex color like #007bff")
	ErrInvalidDate    = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidMonth   = errors.New("invalid year or month")
	ErrInvalidHabitID = errors.New("habit_id must be a positive integer")
)

// IsValidation reports whether err is one of the validation errors above.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidName,
		ErrInvalidIcon,
		ErrInvalidColor,
		ErrInvalidDate,
		ErrInvalidMonth,
		ErrInvalidHabitID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
