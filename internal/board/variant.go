package board

import "strings"

// Variant is a bitmask of independently togglable rule variants.
type Variant uint32

const (
	Standard Variant = 0
	Chess960 Variant = 1 << iota
	Atomic
	Horde
	House
	KingOfTheHill
	Race
	ThreeCheck
)

// Start position FEN strings. Only horde and racing kings change the
// initial layout; the remaining variants play from the standard setup.
const (
	StartFEN      = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	StartFENHorde = "rnbqkbnr/pppppppp/8/1PP2PP1/PPPPPPPP/PPPPPPPP/PPPPPPPP/PPPPPPPP w kq - 0 1"
	StartFENRace  = "8/8/8/8/8/8/krbnNBRK/qrbnNBRQ w - - 0 1"
)

var variantNames = []struct {
	v    Variant
	name string
}{
	{Chess960, "chess960"},
	{Atomic, "atomic"},
	{Horde, "horde"},
	{House, "crazyhouse"},
	{KingOfTheHill, "kingofthehill"},
	{Race, "racingkings"},
	{ThreeCheck, "threecheck"},
}

func (v Variant) Has(flag Variant) bool { return v&flag != 0 }

func (v Variant) String() string {
	if v == Standard {
		return "standard"
	}
	var parts []string
	for _, vn := range variantNames {
		if v.Has(vn.v) {
			parts = append(parts, vn.name)
		}
	}
	return strings.Join(parts, "+")
}

// StartingFEN selects the initial layout for the active variant flags.
// Horde takes precedence over racing kings; every other combination
// plays from the standard layout.
func (v Variant) StartingFEN() string {
	switch {
	case v.Has(Horde):
		return StartFENHorde
	case v.Has(Race):
		return StartFENRace
	default:
		return StartFEN
	}
}
