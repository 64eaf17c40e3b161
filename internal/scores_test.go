package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScores_AllInRange(t *testing.T) {
	assert.True(t, validateScores(Scores{Innovation: 1, Technical: 10, Feasibility: 5, Presentation: 7}))
}

func TestValidateScores_OutOfRange(t *testing.T) {
	assert.False(t, validateScores(Scores{Innovation: 5, Technical: 12, Feasibility: 5, Presentation: 5}))
	assert.False(t, validateScores(Scores{Innovation: 0, Technical: 5, Feasibility: 5, Presentation: 5}))
}

func TestValidateScores_OptionalImpact(t *testing.T) {
	impact := 11
	assert.False(t, validateScores(Scores{Innovation: 5, Technical: 5, Feasibility: 5, Presentation: 5, Impact: &impact}))

	impact = 10
	assert.True(t, validateScores(Scores{Innovation: 5, Technical: 5, Feasibility: 5, Presentation: 5, Impact: &impact}))
}

func TestOverallScore_MeanOfFour(t *testing.T) {
	got := overallScore(Scores{Innovation: 8, Technical: 9, Feasibility: 7, Presentation: 8})
	require.Equal(t, 8.0, got)
}

func TestOverallScore_RoundsToOneDecimal(t *testing.T) {
	// (7+8+8+8)/4 = 7.75 -> 7.8
	got := overallScore(Scores{Innovation: 7, Technical: 8, Feasibility: 8, Presentation: 8})
	assert.Equal(t, 7.8, got)
}

func TestOverallScore_IncludesImpactWhenSet(t *testing.T) {
	impact := 10
	// (6+6+6+6+10)/5 = 6.8
	got := overallScore(Scores{Innovation: 6, Technical: 6, Feasibility: 6, Presentation: 6, Impact: &impact})
	assert.Equal(t, 6.8, got)
}
