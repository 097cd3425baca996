package board

import "strings"

// Polyglot-style Zobrist keys for opening book lookups. The table is
// generated once from a fixed xorshift seed, so hashes are stable
// across runs and match books produced by the bundled tooling.
var (
	polyglotPieces     [12][64]uint64 // [piece kind][square]
	polyglotCastling   [4]uint64      // [KQkq]
	polyglotEnPassant  [8]uint64      // [file]
	polyglotSideToMove uint64
)

func init() {
	initPolyglotKeys()
}

// Polyglot piece kind ordering: bp bN bB bR bQ bK wp wN wB wR wQ wK.
var polyglotKindByLetter = map[byte]int{
	'p': 0, 'n': 1, 'b': 2, 'r': 3, 'q': 4, 'k': 5,
	'P': 6, 'N': 7, 'B': 8, 'R': 9, 'Q': 10, 'K': 11,
}

// PolyglotHash computes the book hash key for the position.
func (p *Position) PolyglotHash() uint64 {
	fields := strings.Fields(p.inner.String())
	if len(fields) < 4 {
		return 0
	}

	var hash uint64

	// Piece keys. FEN lists ranks from 8 down to 1.
	rank := 7
	for _, row := range strings.Split(fields[0], "/") {
		file := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if kind, ok := polyglotKindByLetter[c]; ok {
				hash ^= polyglotPieces[kind][rank*8+file]
			}
			file++
		}
		rank--
	}

	// Castling keys.
	castling := fields[2]
	for i, c := range "KQkq" {
		if strings.ContainsRune(castling, c) {
			hash ^= polyglotCastling[i]
		}
	}

	// En passant key, only when a pawn can actually capture.
	ep := fields[3]
	if len(ep) == 2 {
		file := int(ep[0] - 'a')
		if file >= 0 && file < 8 && p.epCapturable(fields[0], fields[1], file) {
			hash ^= polyglotEnPassant[file]
		}
	}

	// Side to move key.
	if fields[1] == "w" {
		hash ^= polyglotSideToMove
	}

	return hash
}

// epCapturable reports whether a pawn of the side to move sits next to
// the en passant target file on the capturing rank.
func (p *Position) epCapturable(placement, side string, epFile int) bool {
	// White captures from rank 5, black from rank 4.
	wantRank := 4 // rank 5, zero-based
	pawn := byte('P')
	if side == "b" {
		wantRank = 3
		pawn = 'p'
	}

	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return false
	}
	row := rows[7-wantRank]

	file := 0
	for i := 0; i < len(row); i++ {
		c := row[i]
		if c >= '1' && c <= '8' {
			file += int(c - '0')
			continue
		}
		if c == pawn && (file == epFile-1 || file == epFile+1) {
			return true
		}
		file++
	}
	return false
}

func initPolyglotKeys() {
	var s uint64 = 0x37b4a4b3f0d1c0d0

	rng := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}

	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = rng()
		}
	}
	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng()
	}
	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng()
	}
	polyglotSideToMove = rng()
}
