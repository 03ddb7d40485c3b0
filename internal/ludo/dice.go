package ludo

import "math/rand/v2"

type Dice interface {
	Roll() int
}

type randomDice struct{}

// NewRandomDice returns a fair six-sided die.
func NewRandomDice() Dice {
	return randomDice{}
}

func (randomDice) Roll() int {
	return MinDie + rand.IntN(MaxDie) //nolint: gosec // game dice, not a secret
}
