package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankLeaderboard_ByMeanThenCount(t *testing.T) {
	entries := []LeaderboardEntry{
		{ProjectID: 1, AverageScore: 8.5, RatingCount: 2},
		{ProjectID: 2, AverageScore: 9.0, RatingCount: 3},
	}
	rankLeaderboard(entries)

	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].ProjectID)
	assert.Equal(t, 1, entries[1].ProjectID)
}

func TestRankLeaderboard_TieBrokenByCount(t *testing.T) {
	entries := []LeaderboardEntry{
		{ProjectID: 1, AverageScore: 9.0, RatingCount: 1},
		{ProjectID: 2, AverageScore: 9.0, RatingCount: 4},
		{ProjectID: 3, AverageScore: 9.0, RatingCount: 2},
	}
	rankLeaderboard(entries)

	assert.Equal(t, []int{entries[0].ProjectID, entries[1].ProjectID, entries[2].ProjectID}, []int{2, 3, 1})
}

func TestRankLeaderboard_UnratedSinkToBottom(t *testing.T) {
	entries := []LeaderboardEntry{
		{ProjectID: 1, AverageScore: 0, RatingCount: 0},
		{ProjectID: 2, AverageScore: 3.2, RatingCount: 1},
	}
	rankLeaderboard(entries)

	assert.Equal(t, 2, entries[0].ProjectID)
}

func TestRankLeaderboard_Stable(t *testing.T) {
	entries := []LeaderboardEntry{
		{ProjectID: 1, AverageScore: 7.0, RatingCount: 2},
		{ProjectID: 2, AverageScore: 7.0, RatingCount: 2},
	}
	rankLeaderboard(entries)

	assert.Equal(t, 1, entries[0].ProjectID)
	assert.Equal(t, 2, entries[1].ProjectID)
}

func TestSubmissionRate(t *testing.T) {
	assert.Equal(t, "0.0", submissionRate(0, 5))
	assert.Equal(t, "50.0", submissionRate(10, 5))
	// 1/3 -> 33.3
	assert.Equal(t, "33.3", submissionRate(3, 1))
}
