package cardology

import "errors"

var (
	// ErrInvalidMonthDay is returned for a month/day pair that is not a calendar date.
	ErrInvalidMonthDay = errors.New("invalid month/day")

	// ErrDeckSize is returned when a spread operation receives anything but 52 cards.
	ErrDeckSize = errors.New("deck must contain exactly 52 cards")
)
