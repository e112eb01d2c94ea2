package board

import (
	"strings"
)

// ToSAN converts a move to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m.IsNone() {
		return "-"
	}
	if m.IsCastle() {
		if m.To > m.From {
			return "O-O" + checkSuffix(pos, m)
		}
		return "O-O-O" + checkSuffix(pos, m)
	}

	var sb strings.Builder
	pt := m.Piece.Type()

	if pt != Pawn {
		sb.WriteByte(pieceChars[pt])
		sb.WriteString(disambiguation(pos, m))
	}

	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte('a' + byte(m.From.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(pieceChars[m.Promotion.Type()])
	}

	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

func checkSuffix(pos *Position, m Move) string {
	pos.MakeNoHash(m)
	defer pos.UnmakeNoHash(m)

	if !pos.InCheck() {
		return ""
	}
	if legal := GenerateLegalMoves(pos); legal.Len() == 0 {
		return "#"
	}
	return "+"
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other pieces of the same type reaching the same square.
func disambiguation(pos *Position, m Move) string {
	var others []Square
	legal := GenerateLegalMoves(pos)
	for _, o := range legal.Slice() {
		if o.To == m.To && o.From != m.From && o.Piece == m.Piece {
			others = append(others, o.From)
		}
	}
	if len(others) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range others {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return string(rune('a' + m.From.File()))
	case !sameRank:
		return string(rune('1' + m.From.Rank()))
	default:
		return m.From.String()
	}
}

// MovesToSAN converts a line of moves played from pos to SAN. pos is left
// unchanged.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = m.ToSAN(pos)
		pos.MakeNoHash(m)
	}
	for i := len(moves) - 1; i >= 0; i-- {
		pos.UnmakeNoHash(moves[i])
	}
	return result
}
