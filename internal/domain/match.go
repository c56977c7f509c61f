package domain

import "time"

// Match is a backend-confirmed mutual wave between two users in the same
// mode. It is created by a database trigger when the second wave of a pair
// lands; the engine only ever reads it.
type Match struct {
	ID          string         `json:"id" db:"id"`
	UserA       string         `json:"user_a" db:"user_a"`
	UserB       string         `json:"user_b" db:"user_b"`
	Mode        ConnectionMode `json:"mode" db:"mode"`
	Icebreakers []string       `json:"icebreakers" db:"icebreakers"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

func (m *Match) HasUser(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// OtherUser returns the counterpart of userID in the match. Callers check
// HasUser first.
func (m *Match) OtherUser(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

// MatchWithProfile is the chat-list view of a match.
type MatchWithProfile struct {
	Match
	OtherProfile Profile  `json:"other_user"`
	LastMessage  *Message `json:"last_message"`
	UnreadCount  int      `json:"unread_count"`
}
