package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/finback-chess/finback/internal/board"
)

const maxDepth = 64

// stopCheckInterval is how many nodes pass between stop-flag polls.
const stopCheckInterval = 1024

type searcher struct {
	sig       *Signals
	tm        *TimeManager
	timeBound func() bool // whether the clock budget applies right now
	nodeLimit uint64

	replay *board.ReplayStack
	path   []string // repetition keys along the current line

	nodes   uint64
	stopped bool
}

func (s *searcher) shouldStop() bool {
	if s.stopped {
		return true
	}
	if s.sig.StopRequested() {
		s.stopped = true
	} else if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.stopped = true
	} else if s.timeBound() && s.tm.ShouldStop() {
		s.stopped = true
	}
	return s.stopped
}

// repState extracts the repetition key and halfmove clock in one pass.
func repState(pos *chess.Position) (string, int) {
	fen := pos.String()
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return fen, 0
	}
	clock, _ := strconv.Atoi(fields[4])
	return strings.Join(fields[:4], " "), clock
}

// isRepetitionDraw counts the key across the game history and the
// current search line. A single earlier occurrence already scores as
// a draw inside the tree.
func (s *searcher) isRepetitionDraw(key string) bool {
	n := s.replay.Occurrences(key)
	for _, k := range s.path {
		if k == key {
			n++
		}
	}
	return n >= 2
}

func orderMoves(moves []chess.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].HasTag(chess.Capture) && !moves[j].HasTag(chess.Capture)
	})
}

// alphaBeta returns the score and principal variation for pos.
func (s *searcher) alphaBeta(pos *chess.Position, depth, ply, alpha, beta int) (int, []*chess.Move) {
	s.nodes++
	if s.nodes%stopCheckInterval == 0 && s.shouldStop() {
		return 0, nil
	}

	key, clock := repState(pos)
	if ply > 0 {
		if clock >= 100 {
			return drawScore, nil
		}
		if s.isRepetitionDraw(key) {
			return drawScore, nil
		}
	}

	if depth <= 0 {
		return evaluate(pos), nil
	}

	moves := pos.ValidMoves()
	if len(moves) == 0 {
		if pos.Status() == chess.Checkmate {
			return -(MateScore - ply), nil
		}
		return drawScore, nil
	}
	orderMoves(moves)

	s.path = append(s.path, key)
	defer func() { s.path = s.path[:len(s.path)-1] }()

	best := -MateScore - 1
	var bestLine []*chess.Move
	for i := range moves {
		move := &moves[i]
		child := pos.Update(move)
		score, line := s.alphaBeta(child, depth-1, ply+1, -beta, -alpha)
		score = -score
		if s.stopped {
			return 0, nil
		}
		if score > best {
			best = score
			bestLine = append([]*chess.Move{move}, line...)
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
	}
	return best, bestLine
}

// searchRoot runs one fixed-depth iteration over the root moves.
func (s *searcher) searchRoot(pos *chess.Position, rootMoves []chess.Move, depth int) (int, []*chess.Move) {
	key, _ := repState(pos)
	s.path = append(s.path[:0], key)

	alpha, beta := -MateScore-1, MateScore+1
	best := -MateScore - 1
	var bestLine []*chess.Move
	for i := range rootMoves {
		move := &rootMoves[i]
		child := pos.Update(move)
		score, line := s.alphaBeta(child, depth-1, 1, -beta, -alpha)
		score = -score
		if s.stopped {
			break
		}
		if score > best {
			best = score
			bestLine = append([]*chess.Move{move}, line...)
			if score > alpha {
				alpha = score
			}
		}
	}
	return best, bestLine
}

// encodeLine renders a PV as coordinate notation starting from pos.
func encodeLine(pos *chess.Position, line []*chess.Move) []string {
	out := make([]string, 0, len(line))
	cur := pos
	for _, m := range line {
		out = append(out, chess.UCINotation{}.Encode(cur, m))
		cur = cur.Update(m)
	}
	return out
}
