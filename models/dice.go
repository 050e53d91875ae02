package models

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

var diceRollPattern = regexp.MustCompile(`(\d+)?d(\d+)`)

// DiceRoll is a parsed dice specification: roll Count dice with Sides sides
// each and sum the results.
type DiceRoll struct {
	Count int
	Sides int
}

// ParseDiceRoll parses a specification of the form [count]d<sides>, e.g.
// "3d6" or "d20". An omitted or zero count defaults to 1. Anything that
// does not match the pattern is ErrInvalidDiceRoll.
func ParseDiceRoll(s string) (DiceRoll, error) {
	m := diceRollPattern.FindStringSubmatch(s)
	if m == nil {
		return DiceRoll{}, ErrInvalidDiceRoll
	}

	count := 1
	if m[1] != "" {
		var err error
		count, err = strconv.Atoi(m[1])
		if err != nil {
			// the captured group is all digits, so this is an overflow
			return DiceRoll{}, ErrInvalidDiceRoll
		}
		if count == 0 {
			count = 1
		}
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 1 {
		return DiceRoll{}, ErrInvalidDiceRoll
	}

	return DiceRoll{Count: count, Sides: sides}, nil
}

func (d DiceRoll) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Sides)
}

// RollOutcome is the result of rolling a dice specification once.
type RollOutcome struct {
	Rolls []int
	Total int
}

// Roll draws Count uniform integers in [1, Sides], both ends inclusive,
// and sums them.
func (d DiceRoll) Roll(rng *rand.Rand) RollOutcome {
	outcome := RollOutcome{Rolls: make([]int, 0, d.Count)}
	for i := 0; i < d.Count; i++ {
		r := rng.Intn(d.Sides) + 1
		outcome.Rolls = append(outcome.Rolls, r)
		outcome.Total += r
	}
	return outcome
}
