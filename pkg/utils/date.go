package utils

import "time"

// DaysBetween returns the number of whole days from 'from' to 'to', floored,
// never negative. A 'from' in the future yields 0.
func DaysBetween(from, to time.Time) int {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ToPointer returns a pointer to the given value.
func ToPointer[T any](value T) *T {
	return &value
}
