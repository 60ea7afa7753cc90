package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/maithanhduyan/tbprobe/internal/board"
	"github.com/maithanhduyan/tbprobe/internal/tablebase"
)

var (
	tbPath = flag.String("path", "", "directory list to search for .rtbw/.rtbz files (falls back to $SYZYGY_PATH)")
	fen    = flag.String("fen", "", "FEN of the position to probe")
	root   = flag.Bool("root", false, "probe every legal move at the root instead of just the position's WDL/DTZ")
)

func main() {
	flag.Parse()

	searchPath := *tbPath
	if searchPath == "" {
		searchPath = os.Getenv("SYZYGY_PATH")
	}
	if err := tablebase.Init(searchPath); err != nil {
		log.Fatalf("tbprobe: init: %v", err)
	}
	log.Printf("tbprobe: local tables registered up to %d men, search path %q", tablebase.MaxCardinality(), searchPath)

	if *fen == "" {
		flag.Usage()
		os.Exit(2)
	}

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatalf("tbprobe: parsing FEN: %v", err)
	}

	if *root {
		probeRootAndPrint(pos)
		return
	}
	probeAndPrint(pos)
}

func probeAndPrint(pos *board.Position) {
	wdl, status := tablebase.ProbeWDL(pos)
	if status == 0 {
		fmt.Println("WDL: not available")
	} else {
		fmt.Printf("WDL: %s\n", wdlString(wdl))
	}

	dtz, status := tablebase.ProbeDTZ(pos)
	if status == 0 {
		fmt.Println("DTZ: not available")
	} else {
		fmt.Printf("DTZ: %d\n", dtz)
	}
}

func probeRootAndPrint(pos *board.Position) {
	moves := pos.GenerateLegalMoves()
	var list []board.Move
	for i := 0; i < moves.Len(); i++ {
		list = append(list, moves.Get(i))
	}

	results, ok := tablebase.RootProbe(pos, list, nil, 0)
	if !ok {
		results = tablebase.RootProbeWDL(pos, list)
	}
	for _, r := range results {
		if !r.Found {
			continue
		}
		fmt.Printf("%s  wdl=%s dtz=%d\n", r.Move.String(), wdlString(r.WDL), r.DTZ)
	}
}

func wdlString(wdl tablebase.WDL) string {
	switch wdl {
	case tablebase.WDLWin:
		return "win"
	case tablebase.WDLCursedWin:
		return "cursed win"
	case tablebase.WDLDraw:
		return "draw"
	case tablebase.WDLBlessedLoss:
		return "blessed loss"
	case tablebase.WDLLoss:
		return "loss"
	default:
		return "unknown"
	}
}
