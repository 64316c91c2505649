package lattice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRule is returned by ParseRule for malformed B/S strings.
var ErrInvalidRule = errors.New("lattice: invalid rule")

// Rule is a Life-like totalistic rule over the 8-cell Moore neighborhood.
// Bit n of Birth (Survive) is set when a Dead (Alive) cell with n Alive
// neighbors is Alive in the next generation.
type Rule struct {
	Birth   uint16
	Survive uint16
}

// Conway is B3/S23.
var Conway = Rule{Birth: 1 << 3, Survive: 1<<2 | 1<<3}

// HighLife is B36/S23.
var HighLife = Rule{Birth: 1<<3 | 1<<6, Survive: 1<<2 | 1<<3}

// Next applies the rule to a cell in state cur with n Alive neighbors.
func (r Rule) Next(cur State, n int) State {
	mask := r.Birth
	if cur == Alive {
		mask = r.Survive
	}
	if mask&(1<<uint(n)) != 0 {
		return Alive
	}
	return Dead
}

func (r Rule) String() string {
	var b strings.Builder
	b.WriteByte('B')
	writeDigits(&b, r.Birth)
	b.WriteString("/S")
	writeDigits(&b, r.Survive)
	return b.String()
}

func writeDigits(b *strings.Builder, mask uint16) {
	for n := 0; n <= 8; n++ {
		if mask&(1<<uint(n)) != 0 {
			b.WriteByte(byte('0' + n))
		}
	}
}

// ParseRule reads "B3/S23" style notation, case-insensitive, in either order.
func ParseRule(s string) (Rule, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "/")
	if len(parts) != 2 {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}
	var r Rule
	var seenB, seenS bool
	for _, part := range parts {
		if part == "" {
			return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
		}
		var dst *uint16
		switch part[0] {
		case 'B':
			dst, seenB = &r.Birth, true
		case 'S':
			dst, seenS = &r.Survive, true
		default:
			return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
		}
		for _, ch := range part[1:] {
			if ch < '0' || ch > '8' {
				return Rule{}, fmt.Errorf("%w: digit %q in %q", ErrInvalidRule, ch, s)
			}
			*dst |= 1 << uint(ch-'0')
		}
	}
	if !seenB || !seenS {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}
	return r, nil
}
