package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeForScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"top grade", 95, "A+"},
		{"boundary A+", 90, "A+"},
		{"grade A", 85, "A"},
		{"boundary A", 80, "A"},
		{"grade B+", 75, "B+"},
		{"grade B", 65, "B"},
		{"grade C+", 55, "C+"},
		{"grade C", 45, "C"},
		{"grade D", 40, "D"},
		{"failing", 39.9, "F"},
		{"zero", 0, "F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeForScore(tt.score))
		})
	}
}

func TestScoreWeightsSum(t *testing.T) {
	sum := WeightActivity + WeightHealth + WeightQuality + WeightCollaboration
	assert.InDelta(t, 1.0, sum, 1e-9, "repository score weights should sum to 1.0")
}
