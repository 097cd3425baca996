// Package book loads and probes Polyglot-format opening books.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/corentings/chess/v2"

	"github.com/finback-chess/finback/internal/board"
)

// Entry is a single book entry.
type Entry struct {
	Move   uint16 // polyglot move encoding
	Weight uint16
}

// Book is an opening book keyed by polyglot position hash.
type Book struct {
	entries map[uint64][]Entry
}

func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// LoadPolyglot loads a Polyglot book from a file.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	defer file.Close()

	return LoadPolyglotReader(file)
}

// LoadPolyglotReader loads a Polyglot book from a reader.
// Entry layout: 8 bytes key, 2 bytes move, 2 bytes weight, 4 bytes
// learn data (ignored), all big-endian.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	book := New()

	var entry [16]byte
	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read book entry: %w", err)
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		moveData := binary.BigEndian.Uint16(entry[8:10])
		weight := binary.BigEndian.Uint16(entry[10:12])

		book.entries[key] = append(book.entries[key], Entry{
			Move:   moveData,
			Weight: weight,
		})
	}

	return book, nil
}

// Len returns the number of distinct positions in the book.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Probe looks up the position and returns a legal book move chosen by
// weighted random selection, or nil when the book has nothing to say.
func (b *Book) Probe(pos *board.Position) *chess.Move {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok || len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})

	totalWeight := uint32(0)
	for _, e := range entries {
		totalWeight += uint32(e.Weight)
	}
	if totalWeight == 0 {
		return resolve(pos, entries[0].Move)
	}

	r := rand.Uint32() % totalWeight
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			if m := resolve(pos, e.Move); m != nil {
				return m
			}
		}
	}
	return resolve(pos, entries[0].Move)
}

// EncodeMove converts a coordinate-notation token to the polyglot move
// encoding. Used by book-building tooling and tests.
func EncodeMove(token string) (uint16, error) {
	if len(token) < 4 {
		return 0, fmt.Errorf("short move token %q", token)
	}
	fromFile := int(token[0] - 'a')
	fromRank := int(token[1] - '1')
	toFile := int(token[2] - 'a')
	toRank := int(token[3] - '1')
	if fromFile < 0 || fromFile > 7 || fromRank < 0 || fromRank > 7 ||
		toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
		return 0, fmt.Errorf("bad move token %q", token)
	}

	data := uint16(toFile | toRank<<3 | fromFile<<6 | fromRank<<9)
	if len(token) == 5 {
		promo := map[byte]uint16{'n': 1, 'b': 2, 'r': 3, 'q': 4}[token[4]]
		if promo == 0 {
			return 0, fmt.Errorf("bad promotion in %q", token)
		}
		data |= promo << 12
	}
	return data, nil
}

// resolve turns a polyglot move encoding into a legal move token.
// Polyglot move layout (bits): 0-5 to square, 6-11 from square,
// 12-14 promotion (0 none, 1 knight, 2 bishop, 3 rook, 4 queen).
func resolve(pos *board.Position, data uint16) *chess.Move {
	toFile := int(data & 7)
	toRank := int((data >> 3) & 7)
	fromFile := int((data >> 6) & 7)
	fromRank := int((data >> 9) & 7)
	promo := (data >> 12) & 7

	from := squareName(fromFile, fromRank)
	to := squareName(toFile, toRank)

	// Polyglot encodes castling as king-captures-rook.
	switch from + to {
	case "e1h1":
		to = "g1"
	case "e1a1":
		to = "c1"
	case "e8h8":
		to = "g8"
	case "e8a8":
		to = "c8"
	}

	token := from + to
	if promo > 0 && promo < 5 {
		token += string("_nbrq"[promo])
	}

	// Resolving against the legal moves rejects stale or corrupt
	// entries outright.
	return pos.MoveFromUCI(token)
}

func squareName(file, rank int) string {
	return string(rune('a'+file)) + string(rune('1'+rank))
}
