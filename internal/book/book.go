// Package book holds opening lines and picks moves from them.
package book

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/hailam/rayfish/internal/board"
)

// Entry is a book move with the number of lines that play it.
type Entry struct {
	Move   board.Move
	Weight int
}

// Book maps position hashes to the moves played there.
type Book struct {
	keys    *board.Keys
	entries map[uint64][]Entry
}

// New creates an empty book for positions hashed with keys. Nil keys select
// the default key set.
func New(keys *board.Keys) *Book {
	if keys == nil {
		keys = board.NewKeys(board.DefaultSeed)
	}
	return &Book{
		keys:    keys,
		entries: make(map[uint64][]Entry),
	}
}

// Default returns a book holding the built-in lines.
func Default(keys *board.Keys) (*Book, error) {
	b := New(keys)
	for _, line := range whiteLines {
		if err := b.AddLine(board.White, line); err != nil {
			return nil, err
		}
	}
	for _, line := range blackLines {
		if err := b.AddLine(board.Black, line); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddLine replays a line of coordinate moves from the initial position and
// records the moves played by side.
func (b *Book) AddLine(side board.Color, line string) error {
	pos := board.NewPosition(b.keys)

	for _, s := range strings.Fields(line) {
		m, err := board.ParseMove(pos, s)
		if err != nil {
			return fmt.Errorf("book line %q: %w", line, err)
		}
		if pos.SideToMove == side {
			b.add(pos.Hash, m)
		}
		pos.Make(m)
		if pos.LeftInCheck() {
			return fmt.Errorf("book line %q: %s: %w", line, s, board.ErrIllegalMove)
		}
	}
	return nil
}

func (b *Book) add(hash uint64, m board.Move) {
	entries := b.entries[hash]
	for i := range entries {
		if entries[i].Move.SameAs(m) {
			entries[i].Weight++
			return
		}
	}
	b.entries[hash] = append(entries, Entry{Move: m, Weight: 1})
}

// Probe picks a book move for pos at random, weighted by how many lines
// play it.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	entries := b.ProbeAll(pos)
	if len(entries) == 0 {
		return board.NoMove, false
	}

	r := frand.Intn(lo.SumBy(entries, func(e Entry) int { return e.Weight }))
	for _, e := range entries {
		if r < e.Weight {
			log.Debug().Str("move", e.Move.String()).Int("weight", e.Weight).Msg("book hit")
			return e.Move, true
		}
		r -= e.Weight
	}
	return entries[0].Move, true
}

// ProbeAll returns the book moves for pos, highest weight first. Each move
// carries an undo snapshot taken from pos.
func (b *Book) ProbeAll(pos *board.Position) []Entry {
	if b == nil {
		return nil
	}

	result := lo.FilterMap(b.entries[pos.Hash], func(e Entry, _ int) (Entry, bool) {
		m, ok := pos.Refresh(e.Move)
		return Entry{Move: m, Weight: e.Weight}, ok
	})
	slices.SortStableFunc(result, func(a, b Entry) int {
		return b.Weight - a.Weight
	})
	return result
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
