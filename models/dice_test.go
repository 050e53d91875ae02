package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiceRoll(t *testing.T) {
	tests := []struct {
		input    string
		expected DiceRoll
		wantErr  bool
	}{
		{"3d6", DiceRoll{Count: 3, Sides: 6}, false},
		{"d20", DiceRoll{Count: 1, Sides: 20}, false},
		{"1d6", DiceRoll{Count: 1, Sides: 6}, false},
		{"0d6", DiceRoll{Count: 1, Sides: 6}, false}, // zero count falls back to one
		{"20d120", DiceRoll{Count: 20, Sides: 120}, false},
		{"6", DiceRoll{}, true},
		{"", DiceRoll{}, true},
		{"dd", DiceRoll{}, true},
		{"3d", DiceRoll{}, true},
		{"d0", DiceRoll{}, true},
		// overflowing values must not fall back to defaults
		{"99999999999999999999d6", DiceRoll{}, true},
		{"1d99999999999999999999", DiceRoll{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			roll, err := ParseDiceRoll(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDiceRoll)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, roll)
		})
	}
}

func TestDiceRoll_String(t *testing.T) {
	assert.Equal(t, "3d6", DiceRoll{Count: 3, Sides: 6}.String())
}

func TestDiceRoll_Roll_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	roll := DiceRoll{Count: 4, Sides: 6}

	for i := 0; i < 1000; i++ {
		outcome := roll.Roll(rng)

		require.Len(t, outcome.Rolls, 4)
		assert.GreaterOrEqual(t, outcome.Total, 4)
		assert.LessOrEqual(t, outcome.Total, 24)

		sum := 0
		for _, r := range outcome.Rolls {
			assert.GreaterOrEqual(t, r, 1)
			assert.LessOrEqual(t, r, 6)
			sum += r
		}
		assert.Equal(t, sum, outcome.Total)
	}
}

func TestDiceRoll_Roll_CoversBothEnds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	roll := DiceRoll{Count: 1, Sides: 2}

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[roll.Roll(rng).Total] = true
	}

	assert.True(t, seen[1], "never rolled the low end")
	assert.True(t, seen[2], "never rolled the high end")
}
