package ludo

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

type MoveResult struct {
	Tokens         []entity.Token
	From           int
	To             int
	Captured       bool
	CapturedTokens []string
	CapturedColors []entity.Color
	LeftBase       bool
	Finished       bool
}

// NewTokens returns the four base tokens of color.
func NewTokens(color entity.Color) []entity.Token {
	tokens := make([]entity.Token, 0, TokensPerColor)
	for i := range TokensPerColor {
		tokens = append(tokens, entity.Token{
			ID:       fmt.Sprintf("%s-%d", color, i),
			Color:    color,
			Position: Base,
		})
	}

	return tokens
}

// Destination computes where a token at position lands with die, ignoring other tokens.
func Destination(position, die int) (int, bool) {
	if die < MinDie || die > MaxDie {
		return 0, false
	}

	switch {
	case IsFinished(position):
		return 0, false
	case InBase(position):
		if die != ExitRoll {
			return 0, false
		}
		return 0, true
	case position < 0 || position > Goal:
		return 0, false
	case position+die > Goal:
		// exact count required to finish
		return 0, false
	default:
		return position + die, true
	}
}

// LegalMoves returns the ids of color's tokens that can move with die.
func LegalMoves(tokens []entity.Token, color entity.Color, die int) []string {
	movable := make([]string, 0, TokensPerColor)

	for _, token := range tokens {
		if token.Color != color {
			continue
		}

		dest, ok := Destination(token.Position, die)
		if !ok {
			continue
		}

		if occupiedByOwnColor(tokens, token, dest) {
			continue
		}

		movable = append(movable, token.ID)
	}

	return movable
}

// ApplyMove moves tokenID by die and sends captured opposing tokens back to base.
// The input slice is left untouched.
func ApplyMove(tokens []entity.Token, tokenID string, die int) (MoveResult, error) {
	index := slices.IndexFunc(tokens, func(token entity.Token) bool { return token.ID == tokenID })
	if index < 0 {
		return MoveResult{}, fmt.Errorf("%w: unknown token %s", apperror.ErrIllegalMove, tokenID)
	}

	mover := tokens[index]
	if !slices.Contains(LegalMoves(tokens, mover.Color, die), tokenID) {
		return MoveResult{}, fmt.Errorf("%w: token %s with die %d", apperror.ErrIllegalMove, tokenID, die)
	}

	dest, _ := Destination(mover.Position, die)

	result := MoveResult{
		Tokens:   slices.Clone(tokens),
		From:     mover.Position,
		To:       dest,
		LeftBase: InBase(mover.Position),
		Finished: IsFinished(dest),
	}
	result.Tokens[index].Position = dest

	cell, onRing := AbsoluteCell(mover.Color, dest)
	if !onRing || IsSafeCell(cell) {
		return result, nil
	}

	for i, token := range result.Tokens {
		if token.Color == mover.Color {
			continue
		}

		other, ok := AbsoluteCell(token.Color, token.Position)
		if !ok || other != cell {
			continue
		}

		result.Tokens[i].Position = Base
		result.Captured = true
		result.CapturedTokens = append(result.CapturedTokens, token.ID)
		if !slices.Contains(result.CapturedColors, token.Color) {
			result.CapturedColors = append(result.CapturedColors, token.Color)
		}
	}

	return result, nil
}

// CheckWin reports whether every token of color reached the goal.
func CheckWin(tokens []entity.Token, color entity.Color) bool {
	count := 0
	for _, token := range tokens {
		if token.Color != color {
			continue
		}
		if !IsFinished(token.Position) {
			return false
		}
		count++
	}

	return count == TokensPerColor
}

// FinishedCount returns how many of color's tokens reached the goal.
func FinishedCount(tokens []entity.Token, color entity.Color) int {
	count := 0
	for _, token := range tokens {
		if token.Color == color && IsFinished(token.Position) {
			count++
		}
	}

	return count
}

func occupiedByOwnColor(tokens []entity.Token, mover entity.Token, dest int) bool {
	// the goal holds every finished token
	if IsFinished(dest) {
		return false
	}

	for _, token := range tokens {
		if token.ID == mover.ID || token.Color != mover.Color {
			continue
		}
		if token.Position == dest {
			return true
		}
	}

	return false
}
