package board

// DefaultSeed is the seed used when no other key set is requested.
const DefaultSeed uint64 = 0x98F107A2BEEF1234

// Keys is a set of Zobrist constants. A position hash is the XOR of the keys
// for every piece on its square, the side key when black is to move, one key
// per castling right held and the file key of the en-passant square.
//
// Keys are not global: each cache creates its own set and every position
// searched with that cache must be built from it.
type Keys struct {
	Piece     [12][64]uint64
	Side      uint64
	Castling  [4]uint64
	EnPassant [8]uint64

	// castling[cr] caches the XOR of Castling for every bit set in cr
	castling [16]uint64
}

// xorshift64* generator
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewKeys fills a key set from seed. The same seed always yields the same keys.
func NewKeys(seed uint64) *Keys {
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := &prng{state: seed}
	k := &Keys{}

	for pc := WhitePawn; pc < NoPiece; pc++ {
		for sq := A1; sq <= H8; sq++ {
			k.Piece[pc][sq] = rng.next()
		}
	}
	k.Side = rng.next()
	for i := range k.Castling {
		k.Castling[i] = rng.next()
	}
	for i := range k.EnPassant {
		k.EnPassant[i] = rng.next()
	}

	for cr := 0; cr < 16; cr++ {
		for i := 0; i < 4; i++ {
			if cr&(1<<i) != 0 {
				k.castling[cr] ^= k.Castling[i]
			}
		}
	}
	return k
}

// CastlingKey returns the combined key for a castling-rights mask.
func (k *Keys) CastlingKey(cr CastlingRights) uint64 {
	return k.castling[cr&AllCastling]
}

// EnPassantKey returns the key for an en-passant square, 0 for NoSquare.
func (k *Keys) EnPassantKey(sq Square) uint64 {
	if sq >= NoSquare {
		return 0
	}
	return k.EnPassant[sq.File()]
}
