package board

import "github.com/corentings/chess/v2"

// Perft counts the leaf nodes of the legal move tree to the given
// depth. Debug aid for validating the move backend.
func Perft(pos *Position, depth int) uint64 {
	return perft(pos.Inner(), depth)
}

func perft(pos *chess.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := pos.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for i := range moves {
		nodes += perft(pos.Update(&moves[i]), depth-1)
	}
	return nodes
}
