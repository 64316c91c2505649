package lattice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// PolicyKind selects how never-seen cells are generated.
type PolicyKind uint8

const (
	// Checker is the zero value: Alive iff (i + j) is even.
	Checker PolicyKind = iota
	// Full makes every new cell Alive.
	Full
	// Empty makes every new cell Dead.
	Empty
	// Random makes a new cell Alive with probability P.
	Random
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognised names.
var ErrUnknownPolicy = errors.New("lattice: unknown fill policy")

// Policy is the fill rule applied to coordinates materialized for the first
// time. The zero value is the checkerboard fallback.
type Policy struct {
	Kind PolicyKind
	// P is only meaningful for Random. Values outside [0,1] are not clamped.
	P float64
}

// FullPolicy returns the all-Alive policy.
func FullPolicy() Policy { return Policy{Kind: Full} }

// EmptyPolicy returns the all-Dead policy.
func EmptyPolicy() Policy { return Policy{Kind: Empty} }

// RandomPolicy returns a policy producing Alive cells with probability p.
func RandomPolicy(p float64) Policy { return Policy{Kind: Random, P: p} }

// CheckerPolicy returns the checkerboard policy.
func CheckerPolicy() Policy { return Policy{Kind: Checker} }

// Generate returns the initial state for c. rng is only consulted by Random.
func (p Policy) Generate(c Coord, rng *rand.Rand) State {
	switch p.Kind {
	case Full:
		return Alive
	case Empty:
		return Dead
	case Random:
		if rng.Float64() < p.P {
			return Alive
		}
		return Dead
	default:
		if (c.I+c.J)&1 == 0 {
			return Alive
		}
		return Dead
	}
}

func (p Policy) String() string {
	switch p.Kind {
	case Full:
		return "full"
	case Empty:
		return "empty"
	case Random:
		return "random:" + strconv.FormatFloat(p.P, 'f', -1, 64)
	default:
		return "checker"
	}
}

// ParsePolicy reads the textual form produced by Policy.String. A bare
// "random" uses probability 0.5.
func ParsePolicy(s string) (Policy, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch name {
	case "full":
		return FullPolicy(), nil
	case "empty":
		return EmptyPolicy(), nil
	case "checker", "":
		return CheckerPolicy(), nil
	case "random":
		if !hasArg {
			return RandomPolicy(0.5), nil
		}
		p, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Policy{}, fmt.Errorf("random policy probability %q: %w", arg, err)
		}
		return RandomPolicy(p), nil
	}
	return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	parsed, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
