package model

import "time"

// Message is an immutable chat entry.
//
// User is the display name of the sender at posting time. It is a plain
// value, not a reference: deleting or renaming a User leaves it untouched.
type Message struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Before reports whether m sorts before other in a message listing.
// Messages are ordered by CreatedAt, with the ID as a tie breaker.
func (m *Message) Before(other *Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
