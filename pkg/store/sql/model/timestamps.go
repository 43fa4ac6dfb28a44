package model

import "time"

// Timestamps are stored as unix milliseconds, like every other time column in
// this schema.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
