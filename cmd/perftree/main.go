// Command perftree prints a perft divide in the format expected by the
// perftree debugging tool:
//
//	perftree <depth> <fen> [moves]
//
// where moves is a single space-separated argument of long algebraic moves.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/matthiasgreen/chess-engine/internal/board"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("perftree: ")

	if len(os.Args) < 3 {
		log.Fatal("usage: perftree <depth> <fen> [moves]")
	}

	depth, err := strconv.Atoi(os.Args[1])
	if err != nil || depth < 1 {
		log.Fatalf("invalid depth %q", os.Args[1])
	}

	pos, err := board.ParseFEN(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}

	if len(os.Args) > 3 {
		if err := board.ApplyMoves(pos, strings.Fields(os.Args[3])); err != nil {
			log.Fatal(err)
		}
	}

	entries, total := board.Divide(pos, depth)
	fmt.Print(board.FormatDivide(entries, total))
}
