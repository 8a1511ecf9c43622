package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/matthiasgreen/chess-engine/internal/board"
	"github.com/matthiasgreen/chess-engine/internal/engine"
	"github.com/matthiasgreen/chess-engine/internal/storage"
	"github.com/matthiasgreen/chess-engine/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", 16, "transposition table size in MiB")
	journalDir = flag.String("journal", "", `analysis journal directory ("auto" for the user data dir, empty to disable)`)
	debug      = flag.Bool("debug", false, "log search iterations and hash checks")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	engine.Debug = *debug
	board.DebugMoveValidation = *debug

	eng := engine.NewEngine(*hashMB, nil)
	protocol := uci.New(eng, os.Stdin, os.Stdout)

	if *journalDir != "" {
		dir := *journalDir
		if dir == "auto" {
			var err error
			dir, err = storage.JournalDir()
			if err != nil {
				log.Fatal("could not resolve journal directory: ", err)
			}
		}
		journal, err := storage.Open(dir)
		if err != nil {
			log.Fatal("could not open journal: ", err)
		}
		defer journal.Close()
		protocol.SetJournal(journal)
		log.Printf("Recording analyses to %s", dir)
	}

	if err := protocol.Run(); err != nil {
		log.Printf("uci: %v", err)
	}
}
