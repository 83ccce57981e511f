// Package lexer implements the hand-written token scanner of spec.md
// §4.4. TIL's grammar is custom (unlike, say, HCL's), so it is scanned
// directly rather than through a third-party parsing library; the project
// manifest format (pkg/project) is the part of this system that does lean
// on a library grammar (HCL).
package lexer

import "github.com/tydi-lang/tilc/pkg/ilerrors"

// Kind identifies a token's lexical category.
type Kind int

const (
	EOF Kind = iota
	Error

	Identifier
	PathFragment // a double-quoted string literal, no escapes
	IntegerLit
	FloatLit
	VersionLit // "3.1.4"-shaped, >= 3 dot-separated groups

	// Operators.
	Assign     // =
	Dot        // .
	DashDash   // --
	ColonColon // ::
	Star       // *
	Plus       // +
	Minus      // -
	Slash      // /
	Percent    // %
	Gt         // >
	Lt         // <
	Ge         // >=
	Le         // <=
	Eq         // ==

	// Punctuation. Angle brackets double as the Lt/Gt operator tokens
	// above; the parser distinguishes generic-parameter-list position
	// from comparison-expression position by grammatical context, the
	// same token serving both (spec.md §4.4 lists "< >" under both
	// operators and punctuation).
	LParen
	RParen
	LBrace
	RBrace
	Colon
	Comma
	Semicolon

	// Doc comment text, "# ... #".
	DocComment

	// Keywords.
	KwNamespace
	KwStreamlet
	KwImpl
	KwType
	KwImport
	KwAs
	KwPrefixed
	KwIn
	KwOut
	KwTrue
	KwFalse
	KwInterface

	// Synchronicity keywords.
	KwSync
	KwFlatten
	KwDesync
	KwFlatDesync

	// Direction keywords (Stream property values; distinct tokens from
	// KwIn/KwOut which are port directions).
	KwForward
	KwReverse

	// Type keywords.
	KwBits
	KwGroup
	KwUnion
	KwStream
	KwNull

	// Generic-kind / property / condition keywords.
	KwInteger
	KwNatural
	KwPositive
	KwDimensionality
	KwOneOf
	KwNot
	KwAnd
	KwOr
)

var keywords = map[string]Kind{
	"namespace":      KwNamespace,
	"streamlet":      KwStreamlet,
	"impl":           KwImpl,
	"type":           KwType,
	"import":         KwImport,
	"as":             KwAs,
	"prefixed":       KwPrefixed,
	"in":             KwIn,
	"out":            KwOut,
	"true":           KwTrue,
	"false":          KwFalse,
	"interface":      KwInterface,
	"Sync":           KwSync,
	"Flatten":        KwFlatten,
	"Desync":         KwDesync,
	"FlatDesync":     KwFlatDesync,
	"Forward":        KwForward,
	"Reverse":        KwReverse,
	"Bits":           KwBits,
	"Group":          KwGroup,
	"Union":          KwUnion,
	"Stream":         KwStream,
	"Null":           KwNull,
	"Integer":        KwInteger,
	"Natural":        KwNatural,
	"Positive":       KwPositive,
	"Dimensionality": KwDimensionality,
	"one_of":         KwOneOf,
	"not":            KwNot,
	"and":            KwAnd,
	"or":             KwOr,
}

// Token is a single lexical unit with its half-open source span (spec.md
// §4.4: "Tokens carry half-open source spans").
type Token struct {
	Kind Kind
	Text string
	Span ilerrors.Span
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Error:
		return "Error"
	case Identifier:
		return "Identifier"
	case PathFragment:
		return "PathFragment"
	case IntegerLit:
		return "IntegerLit"
	case FloatLit:
		return "FloatLit"
	case VersionLit:
		return "VersionLit"
	case DocComment:
		return "DocComment"
	default:
		return "Token"
	}
}
