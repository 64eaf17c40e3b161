package internal

import "time"

const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// resolveStatus places now against the event window.
func resolveStatus(now, start, end time.Time) string {
	switch {
	case now.After(end):
		return StatusCompleted
	case !now.Before(start): // start <= now <= end
		return StatusActive
	default:
		return StatusUpcoming
	}
}
