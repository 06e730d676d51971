// Package policy turns user intent (length, named policy, class toggles) into a
// concrete alphabet specification.
package policy

import "strings"

// Class is a character class. The set of classes is closed; classChars must
// carry one entry per class.
type Class uint8

const (
	Lowercase Class = iota
	Uppercase
	Digits
	Symbols

	numClasses
)

var classChars = [numClasses]string{
	Lowercase: "abcdefghijklmnopqrstuvwxyz",
	Uppercase: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	Digits:    "0123456789",
	Symbols:   "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~",
}

var classNames = [numClasses]string{
	Lowercase: "lowercase",
	Uppercase: "uppercase",
	Digits:    "digits",
	Symbols:   "symbols",
}

// Chars returns the characters belonging to c.
func (c Class) Chars() string {
	if c >= numClasses {
		return ""
	}
	return classChars[c]
}

func (c Class) String() string {
	if c >= numClasses {
		return "unknown"
	}
	return classNames[c]
}

// AlphabetSpec is a set of character classes.
type AlphabetSpec uint8

// DefaultSpec is the spec every toggle-based resolution starts from.
const DefaultSpec = AlphabetSpec(1 << Lowercase)

// FullSpec enables every class.
const FullSpec = AlphabetSpec(1<<numClasses - 1)

// NewAlphabetSpec builds a spec containing the given classes.
func NewAlphabetSpec(classes ...Class) AlphabetSpec {
	var s AlphabetSpec
	for _, c := range classes {
		s = s.With(c)
	}
	return s
}

// With returns s with c added.
func (s AlphabetSpec) With(c Class) AlphabetSpec {
	if c >= numClasses {
		return s
	}
	return s | 1<<c
}

// Has reports whether c is enabled in s.
func (s AlphabetSpec) Has(c Class) bool {
	return c < numClasses && s&(1<<c) != 0
}

// Empty reports whether no class is enabled.
func (s AlphabetSpec) Empty() bool {
	return s&FullSpec == 0
}

// Classes returns the enabled classes in canonical order.
func (s AlphabetSpec) Classes() []Class {
	classes := make([]Class, 0, numClasses)
	for c := Class(0); c < numClasses; c++ {
		if s.Has(c) {
			classes = append(classes, c)
		}
	}
	return classes
}

// Alphabet concatenates the character sets of the enabled classes in canonical
// order. Class sets are disjoint, so the result has no duplicates.
func (s AlphabetSpec) Alphabet() string {
	var b strings.Builder
	b.Grow(s.Size())
	for _, c := range s.Classes() {
		b.WriteString(classChars[c])
	}
	return b.String()
}

// Size is the number of characters in the alphabet.
func (s AlphabetSpec) Size() int {
	n := 0
	for _, c := range s.Classes() {
		n += len(classChars[c])
	}
	return n
}

// Names returns the names of the enabled classes in canonical order.
func (s AlphabetSpec) Names() []string {
	classes := s.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.String()
	}
	return names
}

func (s AlphabetSpec) String() string {
	if s.Empty() {
		return "none"
	}
	return strings.Join(s.Names(), "+")
}
