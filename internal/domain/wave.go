package domain

import "time"

// FreeWaveLimit is the number of waves a free-tier user may send per day.
const FreeWaveLimit = 3

// Wave is a one-directional expression of interest. Waves are write-once:
// there is no update or delete path.
type Wave struct {
	ID        string         `json:"id" db:"id"`
	FromUser  string         `json:"from_user" db:"from_user"`
	ToUser    string         `json:"to_user" db:"to_user"`
	Mode      ConnectionMode `json:"mode" db:"mode"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// WaveDay formats a timestamp as the day key used by the counter table. A
// missing row for the day reads as zero.
func WaveDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
