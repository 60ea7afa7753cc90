// Package tablebase probes precomputed Syzygy endgame tablebases.
//
// Given a position with at most six pieces it returns a Win/Draw/Loss
// verdict (WDL) from the side-to-move's perspective, or a Distance-To-Zero
// ply count (DTZ) — how many plies until the next capture or pawn move
// under optimal play, with 50-move-rule semantics folded in.
//
// The package is organized bottom-up, mirroring the four subsystems the
// format demands:
//
//   - file.go / file_unix.go / file_windows.go: memory-mapped file loading
//   - huffman.go: the canonical-Huffman pair-dictionary decompressor
//   - header.go: per-file header parsing into PairsData
//   - registry.go: the table registry, lazy init, and the DTZ MRU cache
//   - encode.go: position-to-index canonicalization and combinatorial encoding
//   - probe.go: the WDL/DTZ probing orchestrator and root-move filtering
//
// The Prober implementations (syzygy.go, lichess.go, cached.go) answer
// through the Lichess tablebase API and do not call ProbeWDL or ProbeDTZ;
// local table files are read only through those package-level functions.
package tablebase
