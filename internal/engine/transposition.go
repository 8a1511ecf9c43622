package engine

import (
	"github.com/matthiasgreen/chess-engine/internal/board"
)

// TTEntry is one cached search result.
type TTEntry struct {
	Hash     uint64     // full Zobrist hash of the position
	Score    int32      // fail-soft score from the side to move's view
	BestMove board.Move // NoMove when the node had no legal move
	Depth    int8       // remaining depth the score was searched to
	used     bool
}

// TranspositionTable is a direct-mapped cache from position hash to
// TTEntry. Stores always replace; probes hit only on an exact hash match.
// It is not safe for concurrent use.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64

	probes uint64
	hits   uint64
}

// NewTranspositionTable sizes the table to the largest power-of-two slot
// count that fits in sizeMB mebibytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	const entrySize = 16
	slots := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
	return &TranspositionTable{
		entries: make([]TTEntry, slots),
		mask:    slots - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe returns the entry stored for hash, if the slot holds exactly that
// position.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	e := tt.entries[hash&tt.mask]
	if !e.used || e.Hash != hash {
		return TTEntry{}, false
	}
	tt.hits++
	return e, true
}

// Store overwrites the slot of hash.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, best board.Move) {
	tt.entries[hash&tt.mask] = TTEntry{
		Hash:     hash,
		Score:    int32(score),
		BestMove: best,
		Depth:    int8(depth),
		used:     true,
	}
}

// BestMove returns the stored best move for hash, or NoMove.
func (tt *TranspositionTable) BestMove(hash uint64) board.Move {
	if e, ok := tt.Probe(hash); ok {
		return e.BestMove
	}
	return board.NoMove
}

// Clear empties the table and resets its counters.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.probes, tt.hits = 0, 0
}

// Size returns the number of slots.
func (tt *TranspositionTable) Size() uint64 {
	return tt.mask + 1
}

// HashFull returns the permille of used slots among the first thousand.
func (tt *TranspositionTable) HashFull() int {
	n := 1000
	if uint64(n) > tt.Size() {
		n = int(tt.Size())
	}
	used := 0
	for i := 0; i < n; i++ {
		if tt.entries[i].used {
			used++
		}
	}
	return used * 1000 / n
}

// HitRate returns the percentage of probes that hit.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}
