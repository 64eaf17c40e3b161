package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus_BeforeWindow(t *testing.T) {
	now := time.Now()
	got := resolveStatus(now, now.Add(1*time.Hour), now.Add(2*time.Hour))
	assert.Equal(t, StatusUpcoming, got)
}

func TestResolveStatus_InsideWindow(t *testing.T) {
	now := time.Now()
	got := resolveStatus(now, now.Add(-1*time.Hour), now.Add(1*time.Hour))
	assert.Equal(t, StatusActive, got)
}

func TestResolveStatus_AtBoundaries(t *testing.T) {
	now := time.Now()

	// start <= now counts as begun
	assert.Equal(t, StatusActive, resolveStatus(now, now, now.Add(1*time.Hour)))
	// now == end is still inside the window
	assert.Equal(t, StatusActive, resolveStatus(now, now.Add(-1*time.Hour), now))
}

func TestResolveStatus_AfterWindow(t *testing.T) {
	now := time.Now()
	got := resolveStatus(now, now.Add(-2*time.Hour), now.Add(-1*time.Hour))
	assert.Equal(t, StatusCompleted, got)
}
