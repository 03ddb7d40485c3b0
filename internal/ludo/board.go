package ludo

import "github.com/rocketscienceinc/ludo-backend/internal/entity"

// Positions are color-relative: Base, then 0..55 around the shared ring starting at the
// color's own entry cell, then 56..59 in the color's home stretch. Goal is the last
// home-stretch slot and means the token is finished.
const (
	RingSize       = 56
	StretchLength  = 4
	Base           = -1
	StretchStart   = RingSize
	Goal           = RingSize + StretchLength - 1
	TokensPerColor = 4

	MinDie   = 1
	MaxDie   = 6
	ExitRoll = MaxDie

	entrySpacing = RingSize / 4
)

var entryOffsets = map[entity.Color]int{
	entity.ColorRed:    0,
	entity.ColorGreen:  entrySpacing,
	entity.ColorYellow: 2 * entrySpacing,
	entity.ColorBlue:   3 * entrySpacing,
}

// EntryOffset returns the absolute ring cell where color's tokens enter the board.
func EntryOffset(color entity.Color) int {
	return entryOffsets[color]
}

// AbsoluteCell translates a color-relative position to a shared ring cell.
// ok is false for positions off the ring (base, home stretch, goal).
func AbsoluteCell(color entity.Color, position int) (int, bool) {
	if position < 0 || position >= RingSize {
		return 0, false
	}

	return (EntryOffset(color) + position) % RingSize, true
}

// IsSafeCell reports whether an absolute ring cell forbids captures.
func IsSafeCell(cell int) bool {
	return cell >= 0 && cell < RingSize && cell%entrySpacing == 0
}

func InBase(position int) bool {
	return position == Base
}

func IsFinished(position int) bool {
	return position == Goal
}

func InHomeStretch(position int) bool {
	return position >= StretchStart && position < Goal
}
