package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a path parameter, tolerating surrounding whitespace.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// UUIDStrings converts ids to their canonical string form, in order.
func UUIDStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
