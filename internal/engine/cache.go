package engine

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hailam/rayfish/internal/board"
)

// Bound indicates the type of score stored in a cache entry.
type Bound uint8

const (
	Exact Bound = iota // Score is exact
	Lower              // Failed high (beta cutoff)
	Upper              // Failed low
)

// DefaultCacheEntries is the table size used when no size is configured.
const DefaultCacheEntries = 1 << 20

// Number of shards for entry locking (power of 2 for fast modulo)
const shardCount = 256
const shardMask = shardCount - 1

// Entry is one slot of the transposition cache.
type Entry struct {
	Key   uint64     // Full 64-bit hash, compared on every probe
	Move  board.Move // Best move, NoMove if none
	Score int32      // Node-relative for mate scores
	Depth int8
	Bound Bound
}

// Cache is the transposition table. Besides the entries it owns the hashing
// keys used by positions searched through it and the history heuristic
// counters, so independent caches give independent searches.
type Cache struct {
	entries []Entry
	shards  [shardCount]sync.RWMutex
	mask    uint64

	keys    *board.Keys
	history [12][64]atomic.Int32

	hits   atomic.Uint64
	probes atomic.Uint64
}

// NewCache creates a cache of sizeMB megabytes using keys for hashing. A
// non-positive size gives DefaultCacheEntries slots and nil keys give the
// default key set.
func NewCache(sizeMB int, keys *board.Keys) *Cache {
	n := uint64(DefaultCacheEntries)
	if sizeMB > 0 {
		entrySize := uint64(unsafe.Sizeof(Entry{}))
		n = roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
		if n == 0 {
			n = 1
		}
	}
	if keys == nil {
		keys = board.NewKeys(board.DefaultSeed)
	}

	return &Cache{
		entries: make([]Entry, n),
		mask:    n - 1,
		keys:    keys,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Keys returns the hashing keys positions must use to share this cache.
func (c *Cache) Keys() *board.Keys {
	return c.keys
}

func (c *Cache) load(hash uint64) Entry {
	idx := hash & c.mask
	shard := idx & shardMask

	c.shards[shard].RLock()
	e := c.entries[idx]
	c.shards[shard].RUnlock()
	return e
}

// Get returns a score usable at a node searched to depth at distance ply from
// the root, within the window (alpha, beta). It never returns a score for an
// entry whose full key differs from hash.
func (c *Cache) Get(hash uint64, depth, ply, alpha, beta int) (int, bool) {
	c.probes.Add(1)

	e := c.load(hash)
	if e.Key != hash || e.Key == 0 || int(e.Depth) < depth {
		return 0, false
	}

	score := scoreFromCache(int(e.Score), ply)
	switch e.Bound {
	case Exact:
	case Lower:
		if score < beta {
			return 0, false
		}
	case Upper:
		if score > alpha {
			return 0, false
		}
	default:
		return 0, false
	}

	c.hits.Add(1)
	return score, true
}

// BestMove returns the move stored for hash regardless of depth.
func (c *Cache) BestMove(hash uint64) (board.Move, bool) {
	e := c.load(hash)
	if e.Key != hash || e.Move.IsNone() {
		return board.NoMove, false
	}
	return e.Move, true
}

// Insert stores a result, always replacing whatever occupied the slot.
func (c *Cache) Insert(hash uint64, m board.Move, depth, score, ply int, bound Bound) {
	idx := hash & c.mask
	shard := idx & shardMask

	c.shards[shard].Lock()
	c.entries[idx] = Entry{
		Key:   hash,
		Move:  m,
		Score: int32(scoreToCache(score, ply)),
		Depth: int8(depth),
		Bound: bound,
	}
	c.shards[shard].Unlock()
}

// historyLimit keeps history scores below the killers' CaptureOffset.
const historyLimit = CaptureOffset - 1

// History returns the history counter for piece moving to sq.
func (c *Cache) History(piece board.Piece, sq board.Square) int {
	return int(c.history[piece][sq].Load())
}

// BumpHistory credits a quiet move that caused a cutoff at depth. Counters
// saturate at historyLimit.
func (c *Cache) BumpHistory(piece board.Piece, sq board.Square, depth int) {
	h := &c.history[piece][sq]
	bonus := int32(depth * depth)
	for {
		old := h.Load()
		if old >= historyLimit {
			return
		}
		if h.CompareAndSwap(old, min(old+bonus, historyLimit)) {
			return
		}
	}
}

// ClearHistory zeroes the history counters. Every search starts with a clean
// table.
func (c *Cache) ClearHistory() {
	for p := range c.history {
		for sq := range c.history[p] {
			c.history[p][sq].Store(0)
		}
	}
}

// Clear empties the table, the history and the statistics.
func (c *Cache) Clear() {
	for i := range c.shards {
		c.shards[i].Lock()
	}
	clear(c.entries)
	for i := range c.shards {
		c.shards[i].Unlock()
	}
	c.ClearHistory()
	c.ResetStats()
}

// ResetStats zeroes the hit and probe counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.probes.Store(0)
}

// HashFull returns the permille of the table that is in use.
func (c *Cache) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > uint64(len(c.entries)) {
		sampleSize = len(c.entries)
	}

	used := 0
	for i := 0; i < sampleSize; i++ {
		if c.load(uint64(i)).Key != 0 {
			used++
		}
	}
	return used * 1000 / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	probes := c.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(probes) * 100
}

// Size returns the number of entries in the table.
func (c *Cache) Size() int {
	return len(c.entries)
}

// scoreToCache converts a mate score measured from the root into one
// measured from the node at ply, so it stays valid wherever the node recurs.
func scoreToCache(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

// scoreFromCache is the inverse of scoreToCache for a node at ply.
func scoreFromCache(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
