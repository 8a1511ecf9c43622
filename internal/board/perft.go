package board

import (
	"fmt"
	"sort"
	"strings"
)

// Perft counts the leaf nodes of the legal move tree of the given depth.
func Perft(pos *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	scratch := *pos
	return perft(NewMakeUnmaker(&scratch), NewMoveList(depth*64), depth)
}

func perft(mu *MakeUnmaker, ml *MoveList, depth int) uint64 {
	pos := mu.Position()
	ply := ml.BeginPly()
	pos.GeneratePseudoLegalMoves(ml)

	var nodes uint64
	for i := 0; i < ml.Len(ply); i++ {
		u := mu.Apply(ml.At(ply, i))
		if pos.WasMoveLegal() {
			if depth == 1 {
				nodes++
			} else {
				nodes += perft(mu, ml, depth-1)
			}
		}
		mu.Revert(u)
	}
	ml.EndPly(ply)
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft below every legal root move. Entries are sorted by
// move text; the second result is their sum.
func Divide(pos *Position, depth int) ([]DivideEntry, uint64) {
	if depth <= 0 {
		return nil, 1
	}
	scratch := *pos
	mu := NewMakeUnmaker(&scratch)
	ml := NewMoveList(depth * 64)

	var entries []DivideEntry
	var total uint64
	for _, m := range pos.LegalMoves() {
		u := mu.Apply(m)
		n := uint64(1)
		if depth > 1 {
			n = perft(mu, ml, depth-1)
		}
		mu.Revert(u)
		entries = append(entries, DivideEntry{Move: m, Nodes: n})
		total += n
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, total
}

// ApplyMoves plays a sequence of long algebraic moves on pos. On error pos
// holds the moves played before the failing one.
func ApplyMoves(pos *Position, moves []string) error {
	mu := NewMakeUnmaker(pos)
	for i, s := range moves {
		m, err := ParseMove(s, pos)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		mu.Apply(m)
	}
	return nil
}

// FormatDivide renders entries in perftree format: one "<move> <nodes>"
// line per root move, a blank line, then the total.
func FormatDivide(entries []DivideEntry, total uint64) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %d\n", e.Move, e.Nodes)
	}
	fmt.Fprintf(&sb, "\n%d\n", total)
	return sb.String()
}
