package board

// Perft counts the leaf nodes of the legal move tree to the given depth. It
// uses the hash-free make/unmake pair.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var ml MoveList
	GenerateMoves(p, &ml)

	var nodes uint64
	for _, m := range ml.Slice() {
		p.MakeNoHash(m)
		if !p.LeftInCheck() {
			nodes += Perft(p, depth-1)
		}
		p.UnmakeNoHash(m)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs Perft below each legal root move.
func Divide(p *Position, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}

	legal := GenerateLegalMoves(p)
	entries := make([]DivideEntry, 0, legal.Len())
	for _, m := range legal.Slice() {
		p.MakeNoHash(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: Perft(p, depth-1)})
		p.UnmakeNoHash(m)
	}
	return entries
}
