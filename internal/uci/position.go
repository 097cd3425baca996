package uci

import (
	"strings"

	"github.com/finback-chess/finback/internal/board"
)

// handlePosition rebuilds the authoritative position from a start
// token or a FEN plus a trailing move list:
//
//	position startpos [moves e2e4 e7e5 ...]
//	position fen <fen fields...> [moves e2e4 ...]
//
// The variant flags are read from the option table at call time and
// pick the initial layout for "startpos". A token that does not
// resolve to a legal move ends the move list silently; everything
// accepted up to that point stays applied.
func (d *Driver) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	variants := d.activeVariants()

	var fen string
	var moveTokens []string

	switch args[0] {
	case "startpos":
		fen = variants.StartingFEN()
		moveTokens = args[1:]
		// Consume the "moves" keyword if any.
		if len(moveTokens) > 0 && moveTokens[0] == "moves" {
			moveTokens = moveTokens[1:]
		}
	case "fen":
		// The FEN itself contains spaces; glue tokens back together
		// until "moves" or end of input.
		rest := args[1:]
		end := len(rest)
		for i, tok := range rest {
			if tok == "moves" {
				end = i
				break
			}
		}
		fen = strings.Join(rest[:end], " ")
		if end < len(rest) {
			moveTokens = rest[end+1:]
		}
	default:
		// Not a position spec; ignore the command.
		return
	}

	pos, err := board.FromFEN(fen, variants)
	if err != nil {
		d.log.Warnf("position rejected: %v", err)
		d.send("info string Invalid FEN: %v", err)
		return
	}
	d.pos = pos

	// A fresh replay stack replaces the previous game history.
	d.replay = board.NewReplayStack()
	d.replay.Root(d.pos)

	for _, token := range moveTokens {
		move := d.pos.MoveFromUCI(token)
		if move == nil {
			// First failure stops the list, without error.
			d.log.Debugf("move list truncated at %q", token)
			break
		}
		d.pos.Apply(move)
		d.replay.Push(d.pos, move)
	}
}
