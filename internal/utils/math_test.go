package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		v, lo, hi  int
		want       int
	}{
		{"below range", -5, 0, 100, 0},
		{"above range", 150, 0, 100, 100},
		{"within range", 42, 0, 100, 42},
		{"at lower bound", 0, 0, 100, 0},
		{"at upper bound", 100, 0, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestRandomInt(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := RandomInt(1, 5)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 5)
	}

	// min > max degenerates to min
	assert.Equal(t, 7, RandomInt(7, 3))
}
