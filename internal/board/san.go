package board

import (
	"fmt"
	"strings"
)

const sanLetters = "PNBRQK"

// SAN converts a legal move of this position to Standard Algebraic Notation.
// The position is left unchanged.
func (p *Position) SAN(m Move) string {
	if !m.From.OnBoard() {
		return "-"
	}
	if m.Castle {
		if m.To.Col > m.From.Col {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	pt := m.Moved.Type()
	if pt != Pawn {
		sb.WriteByte(sanLetters[pt])
		sb.WriteString(p.disambiguation(m))
	}
	if m.IsCapture() {
		if pt == Pawn {
			sb.WriteByte(m.From.File())
		}
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Promotion {
		sb.WriteString("=Q")
	}

	state := p.SaveTerminalState()
	p.MakeMove(m)
	if p.InCheck() {
		if p.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	p.UndoMove()
	p.RestoreTerminalState(state)

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart from
// other pieces of the same kind reaching the same square.
func (p *Position) disambiguation(m Move) string {
	state := p.SaveTerminalState()
	defer p.RestoreTerminalState(state)

	sameFile, sameRank, ambiguous := false, false, false
	for _, o := range p.LegalMoves() {
		if o.To != m.To || o.From == m.From || o.Moved != m.Moved {
			continue
		}
		ambiguous = true
		if o.From.Col == m.From.Col {
			sameFile = true
		}
		if o.From.Row == m.From.Row {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(m.From.File())
	case !sameRank:
		return string(m.From.Rank())
	default:
		return m.From.String()
	}
}

// ParseSAN resolves a SAN string against the legal moves of the position.
func (p *Position) ParseSAN(s string) (Move, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	legal := p.LegalMoves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.Castle && (m.To.Col > m.From.Col) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}

	orig := s
	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) || s[idx+1] != 'Q' {
			return NoMove, fmt.Errorf("%w: only queen promotion is supported: %s", ErrIllegalMove, orig)
		}
		s = s[:idx]
	}
	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 {
		if i := strings.IndexByte(sanLetters, s[0]); i > 0 {
			pt = PieceType(i)
			s = s[1:]
		}
	}
	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrBadNotation, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}

	fileHint, rankHint := byte(0), byte(0)
	for i := 0; i < len(s)-2; i++ {
		switch c := s[i]; {
		case c >= 'a' && c <= 'h':
			fileHint = c
		case c >= '1' && c <= '8':
			rankHint = c
		}
	}

	for _, m := range legal {
		if m.To != dest || m.Moved.Type() != pt {
			continue
		}
		if fileHint != 0 && m.From.File() != fileHint {
			continue
		}
		if rankHint != 0 && m.From.Rank() != rankHint {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
}

// MovesToSAN converts a sequence of moves played from pos into SAN.
// pos itself is not modified.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()
	for i, m := range moves {
		result[i] = p.SAN(m)
		p.MakeMove(m)
	}
	return result
}
