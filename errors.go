package ens

import (
	"errors"
	"fmt"
)

// ErrMalformedEncoding is returned by Tokenize for input that is not
// well-formed UTF-8. It is the only way tokenization can fail; every
// other problem is deferred to validation.
var ErrMalformedEncoding = errors.New("ens: input is not well-formed UTF-8")

// ErrorKind enumerates the label validation failures.
type ErrorKind int8

const (
	ErrEmptyLabel        ErrorKind = iota // label contains no output code-points
	ErrDisallowedChar                     // a code-point no script group contains
	ErrInvisibleChar                      // a literal zero-width joiner or non-joiner
	ErrUnderscoreInside                   // underscore after the leading run
	ErrHyphenExtension                    // "--" in third and fourth position
	ErrFencedLeading                      // fenced code-point at label start
	ErrFencedTrailing                     // fenced code-point at label end
	ErrFencedAdjacent                     // two adjacent fenced code-points
	ErrCombiningMarkLead                  // combining mark at start of label
	ErrCombiningMarkEmoji                 // combining mark directly after an emoji
	ErrIllegalMixture                     // code-points from disjoint script groups
	ErrNSMRepeated                        // identical non-spacing mark repeated
	ErrNSMExcessive                       // non-spacing mark run too long
	ErrConfusable                         // label valid in two scripts at once
)

// Category partitions error kinds by what a caller can do about them.
type Category int8

const (
	// Curable failures carry a position and, where unambiguous, a
	// suggested replacement that callers may offer as an auto-fix.
	Curable Category = iota
	// Disallowed failures are unrecoverable for the input as typed.
	Disallowed
	// Confusable failures are security rejections naming the
	// conflicting script groups. They never carry a fix suggestion.
	Confusable
)

// Category returns the remediation class of an error kind.
func (k ErrorKind) Category() Category {
	switch k {
	case ErrUnderscoreInside, ErrHyphenExtension, ErrFencedLeading,
		ErrFencedTrailing, ErrFencedAdjacent, ErrCombiningMarkLead,
		ErrCombiningMarkEmoji:
		return Curable
	case ErrIllegalMixture, ErrConfusable:
		return Confusable
	}
	return Disallowed
}

func (k ErrorKind) String() string {
	switch k {
	case ErrEmptyLabel:
		return "empty label"
	case ErrDisallowedChar:
		return "disallowed character"
	case ErrInvisibleChar:
		return "invisible character"
	case ErrUnderscoreInside:
		return "underscore allowed only at start"
	case ErrHyphenExtension:
		return "invalid label extension"
	case ErrFencedLeading:
		return "leading fenced character"
	case ErrFencedTrailing:
		return "trailing fenced character"
	case ErrFencedAdjacent:
		return "adjacent fenced characters"
	case ErrCombiningMarkLead:
		return "leading combining mark"
	case ErrCombiningMarkEmoji:
		return "combining mark after emoji"
	case ErrIllegalMixture:
		return "illegal script mixture"
	case ErrNSMRepeated:
		return "duplicate non-spacing mark"
	case ErrNSMExcessive:
		return "excessive non-spacing marks"
	case ErrConfusable:
		return "whole-script confusable"
	}
	return "invalid label"
}

// LabelError is the one error type validation produces. Every field a
// caller needs to render a precise message is carried along; the input
// never has to be re-scanned.
type LabelError struct {
	Kind     ErrorKind
	Index    int      // code-point index within the label, -1 if not positional
	Sequence []rune   // the offending code-points, if any
	Suggest  []rune   // suggested replacement; empty means deletion
	Groups   []string // conflicting script group names, if any
}

func (e *LabelError) Error() string {
	msg := "ens: " + e.Kind.String()
	if len(e.Groups) == 2 {
		msg += fmt.Sprintf(" %s/%s", e.Groups[0], e.Groups[1])
	} else if len(e.Groups) == 1 {
		msg += fmt.Sprintf(" in %s", e.Groups[0])
	}
	if len(e.Sequence) > 0 {
		msg += fmt.Sprintf(" %q", string(e.Sequence))
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (index %d)", e.Index)
	}
	return msg
}

// Curable reports whether the error carries an unambiguous auto-fix.
func (e *LabelError) Curable() bool {
	return e.Kind.Category() == Curable
}

func labelErr(kind ErrorKind, index int, seq ...rune) *LabelError {
	return &LabelError{Kind: kind, Index: index, Sequence: seq}
}
