package engine

import (
	"fmt"
	"io"
)

type SearchStatsT struct {
	Nodes            uint64 // #nodes visited
	NonLeafs         uint64 // #non-leaf nodes
	Mates            uint64 // #true terminal nodes
	PosRepetitions   uint64 // #nodes with repeated position
	CutNodes         uint64 // #(beta-)cut nodes
	FirstChildCuts   uint64 // #non-leaf nodes that (beta-)cut on the first child searched
	AllChildrenNodes uint64 // #non-leaf nodes with no beta cut
	TTHits           uint64 // #nodes with successful TT probe
	TTDepthHits      uint64 // #nodes where TT hit was deep enough to use the eval
	TTBetaCuts       uint64 // #nodes with beta cutoff from TT hit
	TTAlphaCuts      uint64 // #nodes with alpha cutoff from TT hit
	TTTrueEvals      uint64 // #nodes with exact TT hits
	TTMoveCuts       uint64 // #nodes where the tt move cut
	Killers          uint64 // #nodes with killer move available
	KillerCuts       uint64 // #nodes with killer move cut
	QNodes           uint64 // #nodes visited in qsearch
	QMates           uint64 // #true terminal nodes in qsearch
	QNonLeafs        uint64 // #non-leaf qnodes
	QCutNodes        uint64 // #(beta-)cut qnodes
	QPats            uint64 // #qnodes with stand pat best
	QPatCuts         uint64 // #qnodes with stand pat cut
	QSeePrunes       uint64 // #captures skipped for losing material by SEE
	QPrunes          uint64 // #qnodes where we reached full depth - i.e. likely failed to quiesce

	NonLeafsAt [MaxDepthStats]uint64 // non-leafs by depth
}

const MaxDepthStats = 16

func (s *SearchStatsT) Add(o *SearchStatsT) {
	s.Nodes += o.Nodes
	s.NonLeafs += o.NonLeafs
	s.Mates += o.Mates
	s.PosRepetitions += o.PosRepetitions
	s.CutNodes += o.CutNodes
	s.FirstChildCuts += o.FirstChildCuts
	s.AllChildrenNodes += o.AllChildrenNodes
	s.TTHits += o.TTHits
	s.TTDepthHits += o.TTDepthHits
	s.TTBetaCuts += o.TTBetaCuts
	s.TTAlphaCuts += o.TTAlphaCuts
	s.TTTrueEvals += o.TTTrueEvals
	s.TTMoveCuts += o.TTMoveCuts
	s.Killers += o.Killers
	s.KillerCuts += o.KillerCuts
	s.QNodes += o.QNodes
	s.QMates += o.QMates
	s.QNonLeafs += o.QNonLeafs
	s.QCutNodes += o.QCutNodes
	s.QPats += o.QPats
	s.QPatCuts += o.QPatCuts
	s.QSeePrunes += o.QSeePrunes
	s.QPrunes += o.QPrunes
	for i := range s.NonLeafsAt {
		s.NonLeafsAt[i] += o.NonLeafsAt[i]
	}
}

func PerC(n uint64, N uint64) string {
	if N == 0 {
		return fmt.Sprintf("%d [-]", n)
	}
	return fmt.Sprintf("%d [%.2f%%]", n, float64(n)/float64(N)*100)
}

func (s *SearchStatsT) Dump(w io.Writer, finalDepth int) {
	// Reverse order from which it appears in the UCI driver
	fmt.Fprintln(w, "info string   q-mates:", PerC(s.QMates, s.QNonLeafs), "q-pat-cuts:", PerC(s.QPatCuts, s.QNonLeafs), "q-see-prunes:", s.QSeePrunes)
	fmt.Fprintln(w, "info string q-nodes:", s.QNodes, "q-non-leafs:", s.QNonLeafs, "q-cuts:", PerC(s.QCutNodes, s.QNonLeafs), "q-pats:", PerC(s.QPats, s.QNonLeafs), "q-prunes:", PerC(s.QPrunes, s.QNonLeafs))
	fmt.Fprintln(w, "info string   cuts:", PerC(s.CutNodes, s.NonLeafs), "first-child-cuts:", PerC(s.FirstChildCuts, s.CutNodes), "tt-move-cuts:", PerC(s.TTMoveCuts, s.CutNodes), "killers:", PerC(s.Killers, s.NonLeafs), "killer-cuts:", PerC(s.KillerCuts, s.CutNodes))
	if UseTT {
		fmt.Fprintln(w, "info string   tt-hits:", PerC(s.TTHits, s.NonLeafs), "tt-depth-hits:", PerC(s.TTDepthHits, s.NonLeafs), "tt-beta-cuts:", PerC(s.TTBetaCuts, s.NonLeafs), "tt-alpha-cuts:", PerC(s.TTAlphaCuts, s.NonLeafs), "tt-true-evals:", PerC(s.TTTrueEvals, s.NonLeafs))
	}
	fmt.Fprint(w, "info string    non-leafs by depth:")
	for i := 0; i < MaxDepthStats && i < finalDepth; i++ {
		fmt.Fprintf(w, " %d: %s", i, PerC(s.NonLeafsAt[i], s.NonLeafs))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "info string nodes:", s.Nodes, "non-leafs:", s.NonLeafs, "all-nodes:", PerC(s.AllChildrenNodes, s.NonLeafs), "mates:", PerC(s.Mates, s.Nodes), "pos-repetitions:", PerC(s.PosRepetitions, s.Nodes))
}
