// Package board exposes the board state the protocol driver works
// with. Move generation and legality live in the chess library; this
// package owns variant selection, the replay stack used for
// repetition detection, and the FEN-level bookkeeping around them.
package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"
)

// Position is the authoritative board state. It is owned by the
// dispatcher goroutine and read-only to the search goroutine while a
// search is in flight.
type Position struct {
	inner    *chess.Position
	variants Variant
	startFEN string
}

// FromFEN builds a position from a FEN string and the active variant
// flags.
func FromFEN(fen string, variants Variant) (*Position, error) {
	fen = strings.TrimSpace(fen)
	inner := &chess.Position{}
	if err := inner.UnmarshalText([]byte(fen)); err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return &Position{inner: inner, variants: variants, startFEN: fen}, nil
}

// NewPosition returns the initial position for the given variant flags.
func NewPosition(variants Variant) *Position {
	p, err := FromFEN(variants.StartingFEN(), variants)
	if err != nil {
		// The built-in start layouts always parse.
		panic(err)
	}
	return p
}

func (p *Position) FEN() string            { return p.inner.String() }
func (p *Position) StartFEN() string       { return p.startFEN }
func (p *Position) Variants() Variant      { return p.variants }
func (p *Position) Turn() chess.Color      { return p.inner.Turn() }
func (p *Position) Inner() *chess.Position { return p.inner }

// LegalMoves returns every legal move in the current position.
func (p *Position) LegalMoves() []chess.Move {
	return p.inner.ValidMoves()
}

// MoveFromUCI resolves a coordinate-notation token ("e2e4", "e7e8q")
// against the current position. It returns nil when the token is not
// a legal move. Decoding alone only checks syntax; the move must also
// appear in the legal move set.
func (p *Position) MoveFromUCI(token string) *chess.Move {
	move, err := chess.UCINotation{}.Decode(p.inner, token)
	if err != nil {
		return nil
	}
	for _, legal := range p.inner.ValidMoves() {
		if legal.S1() == move.S1() && legal.S2() == move.S2() && legal.Promo() == move.Promo() {
			m := legal
			return &m
		}
	}
	return nil
}

// Apply plays a move, updating the position in place.
func (p *Position) Apply(move *chess.Move) {
	p.inner = p.inner.Update(move)
}

// Copy returns an independent snapshot handed to the search goroutine.
func (p *Position) Copy() *Position {
	cp, err := FromFEN(p.inner.String(), p.variants)
	if err != nil {
		panic(err)
	}
	cp.startFEN = p.startFEN
	return cp
}

// Status reports checkmate/stalemate for the current position.
func (p *Position) Status() chess.Method {
	return p.inner.Status()
}

// RepetitionKey identifies the position for repetition detection:
// placement, side to move, castling rights and en passant square,
// with the move clocks stripped.
func (p *Position) RepetitionKey() string {
	fields := strings.Fields(p.inner.String())
	if len(fields) < 4 {
		return p.inner.String()
	}
	return strings.Join(fields[:4], " ")
}

// HalfmoveClock returns the fifty-move-rule counter.
func (p *Position) HalfmoveClock() int {
	fields := strings.Fields(p.inner.String())
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}

// GamePly estimates the current half-move number from the FEN move
// counters, used for time allocation.
func (p *Position) GamePly() int {
	fields := strings.Fields(p.inner.String())
	if len(fields) < 6 {
		return 0
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return 0
	}
	ply := (full - 1) * 2
	if p.inner.Turn() == chess.Black {
		ply++
	}
	return ply
}

// String renders the board the way the "d" debug command prints it.
func (p *Position) String() string {
	fields := strings.Fields(p.inner.String())
	var sb strings.Builder
	sb.WriteString(" +---+---+---+---+---+---+---+---+\n")
	for _, rank := range strings.Split(fields[0], "/") {
		sb.WriteString(" |")
		for _, c := range rank {
			if c >= '1' && c <= '8' {
				for i := 0; i < int(c-'0'); i++ {
					sb.WriteString("   |")
				}
			} else {
				sb.WriteString(" " + string(c) + " |")
			}
		}
		sb.WriteString("\n +---+---+---+---+---+---+---+---+\n")
	}
	fmt.Fprintf(&sb, "Fen: %s\n", p.inner.String())
	fmt.Fprintf(&sb, "Key: %016x", p.PolyglotHash())
	return sb.String()
}

// Flip mirrors the position vertically and swaps the side to move,
// matching the original "flip" debug command.
func (p *Position) Flip() (*Position, error) {
	fields := strings.Fields(p.inner.String())
	if len(fields) < 6 {
		return nil, fmt.Errorf("malformed fen %q", p.inner.String())
	}

	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	placement := swapCase(strings.Join(ranks, "/"))

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}

	castling := fields[2]
	if castling != "-" {
		swapped := swapCase(castling)
		var sb strings.Builder
		for _, c := range "KQkq" {
			if strings.ContainsRune(swapped, c) {
				sb.WriteRune(c)
			}
		}
		castling = sb.String()
	}

	ep := fields[3]
	if ep != "-" && len(ep) == 2 {
		switch ep[1] {
		case '3':
			ep = string(ep[0]) + "6"
		case '6':
			ep = string(ep[0]) + "3"
		}
	}

	fen := strings.Join([]string{placement, side, castling, ep, fields[4], fields[5]}, " ")
	return FromFEN(fen, p.variants)
}

func swapCase(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			sb.WriteRune(c - 'a' + 'A')
		case c >= 'A' && c <= 'Z':
			sb.WriteRune(c - 'A' + 'a')
		default:
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
