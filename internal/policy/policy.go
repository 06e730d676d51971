package policy

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLength bounds a single password so oversized requests fail before any
// allocation.
const MaxLength = 1 << 16

var (
	ErrInvalidLength = errors.New("password length must be greater than zero")
	ErrLengthTooLong = fmt.Errorf("%w and at most %d", ErrInvalidLength, MaxLength)
	ErrUnknownPolicy = errors.New("unknown password policy")
)

// NamedPolicy is a shorthand that fully determines the alphabet.
type NamedPolicy string

const (
	None      NamedPolicy = ""
	Random    NamedPolicy = "random"
	Pin       NamedPolicy = "pin"
	Memorable NamedPolicy = "memorable"
)

// Memorable is character-class identical to Random. It does not compose words.
var namedSpecs = map[NamedPolicy]AlphabetSpec{
	Random:    FullSpec,
	Pin:       NewAlphabetSpec(Digits),
	Memorable: FullSpec,
}

var policyOrder = []NamedPolicy{Random, Pin, Memorable}

// ParseNamedPolicy maps user input to a NamedPolicy. An empty string yields None.
func ParseNamedPolicy(s string) (NamedPolicy, error) {
	name := NamedPolicy(strings.ToLower(strings.TrimSpace(s)))
	if name == None {
		return None, nil
	}
	if _, ok := namedSpecs[name]; !ok {
		return None, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return name, nil
}

// Spec returns the alphabet spec for p.
func (p NamedPolicy) Spec() (AlphabetSpec, bool) {
	s, ok := namedSpecs[p]
	return s, ok
}

// Policies lists the named policies in a stable order.
func Policies() []NamedPolicy {
	out := make([]NamedPolicy, len(policyOrder))
	copy(out, policyOrder)
	return out
}

// Toggles are the individual class switches used when no named policy is set.
type Toggles struct {
	Numbers     bool
	Symbols     bool
	Capitalized bool
}

// Any reports whether at least one toggle is set.
func (t Toggles) Any() bool {
	return t.Numbers || t.Symbols || t.Capitalized
}

// Spec builds the toggle-based spec on top of DefaultSpec.
func (t Toggles) Spec() AlphabetSpec {
	s := DefaultSpec
	if t.Numbers {
		s = s.With(Digits)
	}
	if t.Symbols {
		s = s.With(Symbols)
	}
	if t.Capitalized {
		s = s.With(Uppercase)
	}
	return s
}

// Resolved is a validated generation request.
type Resolved struct {
	Spec   AlphabetSpec
	Length int
	Policy NamedPolicy
}

// Resolve validates length and picks the alphabet. A named policy takes
// precedence over toggles; the two are never merged.
func Resolve(length int, named NamedPolicy, toggles Toggles) (Resolved, error) {
	if length <= 0 {
		return Resolved{}, ErrInvalidLength
	}
	if length > MaxLength {
		return Resolved{}, ErrLengthTooLong
	}

	if named != None {
		spec, ok := named.Spec()
		if !ok {
			return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(named))
		}
		return Resolved{Spec: spec, Length: length, Policy: named}, nil
	}

	return Resolved{Spec: toggles.Spec(), Length: length}, nil
}
