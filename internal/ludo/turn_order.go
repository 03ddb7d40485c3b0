package ludo

import (
	"slices"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

// ResolveTurnOrder rolls once per seat and orders seats by descending roll. Tied seats
// re-roll among themselves until every seat holds a distinct rank.
func ResolveTurnOrder(seats []*entity.Seat, dice Dice) ([]string, []entity.TurnOrderRound) {
	var rounds []entity.TurnOrderRound

	order := resolveGroup(seats, dice, &rounds)

	return order, rounds
}

func resolveGroup(seats []*entity.Seat, dice Dice, rounds *[]entity.TurnOrderRound) []string {
	if len(seats) == 0 {
		return nil
	}

	if len(seats) == 1 {
		return []string{seats[0].ParticipantID}
	}

	round := entity.TurnOrderRound{Rolls: make([]entity.TurnOrderRoll, 0, len(seats))}
	bySeat := make(map[string]int, len(seats))

	for _, seat := range seats {
		value := dice.Roll()
		bySeat[seat.ParticipantID] = value
		round.Rolls = append(round.Rolls, entity.TurnOrderRoll{
			ParticipantID: seat.ParticipantID,
			Color:         seat.Color,
			Value:         value,
		})
	}

	*rounds = append(*rounds, round)

	values := make([]int, 0, len(seats))
	for _, roll := range round.Rolls {
		if !slices.Contains(values, roll.Value) {
			values = append(values, roll.Value)
		}
	}
	slices.Sort(values)
	slices.Reverse(values)

	order := make([]string, 0, len(seats))
	for _, value := range values {
		var group []*entity.Seat
		for _, seat := range seats {
			if bySeat[seat.ParticipantID] == value {
				group = append(group, seat)
			}
		}

		order = append(order, resolveGroup(group, dice, rounds)...)
	}

	return order
}
