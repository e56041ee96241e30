package id

import "github.com/google/uuid"

// UUID generates a random UUID v4 string.
func UUID() string {
	return uuid.NewString()
}

// Sortable generates a time-ordered UUID v7 string.
// Falls back to a v4 UUID if the v7 generator cannot read randomness.
func Sortable() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
