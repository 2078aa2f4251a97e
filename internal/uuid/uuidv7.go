// Package uuid generates the time-ordered identifiers used for holdings and
// snapshots.
package uuid

import (
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. The leading 48 bits carry the Unix time in
// milliseconds, so ids sort in creation order and stay unique within the same
// millisecond.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy exhaustion; a v4 id is still unique, just not ordered.
		return googleuuid.New().String()
	}
	return id.String()
}

// Time extracts the creation timestamp embedded in a UUIDv7 string.
func Time(s string) (time.Time, bool) {
	id, err := googleuuid.Parse(s)
	if err != nil || id.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec), true
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
