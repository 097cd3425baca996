package engine

import (
	"github.com/corentings/chess/v2"

	"github.com/finback-chess/finback/internal/board"
)

const (
	// MateScore is the score for delivering mate at the root; mates
	// further down the tree score lower by the ply distance.
	MateScore = 32000
	// mateBound separates mate scores from positional ones.
	mateBound = MateScore - 1024

	drawScore  = 0
	tempoBonus = 10
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
}

// evaluate scores the position in centipawns from the side to move's
// point of view. Material plus a small centralization term; the real
// evaluation belongs to whatever engine this driver is paired with.
func evaluate(pos *chess.Position) int {
	score := 0
	b := pos.Board()
	for sq := chess.Square(0); sq <= chess.H8; sq++ {
		p := b.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		v := pieceValues[p.Type()]
		v += centerBonus(sq, p.Type())
		if p.Color() == chess.White {
			score += v
		} else {
			score -= v
		}
	}
	if pos.Turn() == chess.Black {
		score = -score
	}
	return score + tempoBonus
}

// centerBonus nudges minor pieces and pawns toward the middle files.
func centerBonus(sq chess.Square, pt chess.PieceType) int {
	if pt != chess.Pawn && pt != chess.Knight && pt != chess.Bishop {
		return 0
	}
	file := int(sq) % 8
	rank := int(sq) / 8
	df := file
	if df > 3 {
		df = 7 - df
	}
	dr := rank
	if dr > 3 {
		dr = 7 - dr
	}
	return (df + dr) * 2
}

// Evaluate exposes the static evaluation for the "eval" debug command.
func (e *Engine) Evaluate(pos *board.Position) int {
	return evaluate(pos.Inner())
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > mateBound || score < -mateBound
}

// MateIn converts a mate score to full moves until mate, negative when
// the side to move is being mated.
func MateIn(score int) int {
	if score > mateBound {
		return (MateScore - score + 1) / 2
	}
	if score < -mateBound {
		return -(MateScore + score + 1) / 2
	}
	return 0
}
