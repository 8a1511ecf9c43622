package board

import "fmt"

// MoveList is a move arena shared by every level of a recursive search.
// Each recursion level opens its own segment with BeginPly and closes it
// with EndPly before returning; segments nest strictly.
type MoveList struct {
	moves  []Move
	starts []int
}

// Ply is the handle of one open MoveList segment.
type Ply struct {
	depth int
}

// NewMoveList returns an arena with room for the given number of moves.
func NewMoveList(capacity int) *MoveList {
	return &MoveList{
		moves:  make([]Move, 0, capacity),
		starts: make([]int, 0, 64),
	}
}

// BeginPly opens a new segment on top of the current one.
func (ml *MoveList) BeginPly() Ply {
	ml.starts = append(ml.starts, len(ml.moves))
	return Ply{depth: len(ml.starts)}
}

// EndPly discards the segment p. p must be the innermost open segment.
func (ml *MoveList) EndPly(p Ply) {
	ml.check(p)
	if p.depth != len(ml.starts) {
		panic(fmt.Sprintf("board: EndPly(%d) while ply %d is open", p.depth, len(ml.starts)))
	}
	ml.moves = ml.moves[:ml.starts[p.depth-1]]
	ml.starts = ml.starts[:p.depth-1]
}

// Add appends m to the innermost open segment.
func (ml *MoveList) Add(m Move) {
	if len(ml.starts) == 0 {
		panic("board: MoveList.Add with no open ply")
	}
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in segment p.
func (ml *MoveList) Len(p Ply) int {
	lo, hi := ml.bounds(p)
	return hi - lo
}

// At returns move i of segment p.
func (ml *MoveList) At(p Ply, i int) Move {
	lo, hi := ml.bounds(p)
	if i < 0 || lo+i >= hi {
		panic(fmt.Sprintf("board: move index %d out of range for ply %d (len %d)", i, p.depth, hi-lo))
	}
	return ml.moves[lo+i]
}

// Moves returns segment p as a slice aliasing the arena. It is valid until
// the next Add.
func (ml *MoveList) Moves(p Ply) []Move {
	lo, hi := ml.bounds(p)
	return ml.moves[lo:hi:hi]
}

// Depth returns the number of open segments.
func (ml *MoveList) Depth() int {
	return len(ml.starts)
}

// Reset closes every segment.
func (ml *MoveList) Reset() {
	ml.moves = ml.moves[:0]
	ml.starts = ml.starts[:0]
}

func (ml *MoveList) check(p Ply) {
	if p.depth < 1 || p.depth > len(ml.starts) {
		panic(fmt.Sprintf("board: ply %d is not open (depth %d)", p.depth, len(ml.starts)))
	}
}

// bounds returns the [lo, hi) range of segment p; inner segments end where
// the next one starts.
func (ml *MoveList) bounds(p Ply) (int, int) {
	ml.check(p)
	lo := ml.starts[p.depth-1]
	hi := len(ml.moves)
	if p.depth < len(ml.starts) {
		hi = ml.starts[p.depth]
	}
	return lo, hi
}
