package types

import (
	"regexp"
	"strings"
)

// DefaultColor is applied to habits created or updated without a color,
// and to every habit created by a CSV import.
const DefaultColor = "#007bff"

// colorPattern accepts #rgb and #rrggbb hex colors.
var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Habit represents a user-defined tracked activity.
type Habit struct {
	ID          int64  `json:"id"`    // Assigned on creation, never reused.
	Name        string `json:"name"`  // Display name (required, non-empty).
	Icon        string `json:"icon"`  // Icon glyph, usually an emoji (required).
	Color       string `json:"color"` // Hex color string.
	CreatedDate string `json:"-"`     // ISO date of creation; immutable.
}

// HabitInput carries the mutable fields of a habit for create and update.
type HabitInput struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Normalize validates the input and returns a copy with the default color
// applied when Color is empty. Name and icon are stored as given; they only
// need to contain something other than whitespace.
func (in HabitInput) Normalize() (HabitInput, error) {
	if strings.TrimSpace(in.Name) == "" {
		return in, ErrInvalidName
	}
	if strings.TrimSpace(in.Icon) == "" {
		return in, ErrInvalidIcon
	}
	if in.Color == "" {
		in.Color = DefaultColor
	}
	if !colorPattern.MatchString(in.Color) {
		return in, ErrInvalidColor
	}
	return in, nil
}
