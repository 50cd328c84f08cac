// Package ast defines the typed abstract syntax tree for MindLang: the
// value layer (Value, DExp, ValueBind), the statement layer (LogicLine and
// its variants), the boolean condition tree (CmpTree, JumpCmp), and the
// arithmetic/logical Op sum type. The package holds data only — resolving a
// Value to a handle and compiling a LogicLine both require a mutable
// compile context, so those operations live in lang/compiler and are
// implemented as functions over these types rather than as methods, to
// keep this package free of a dependency on the compiler.
package ast

import "strings"

// Var is the language's identifier/literal atom: a plain string, subject to
// const-substitution unless wrapped in ReprVar.
type Var string

// Fixed atoms referenced directly by the compiler and by desugaring.
const (
	UnusedVar Var = "0"
	ZeroVar   Var = "0"
	FalseVar  Var = "false"
	Counter   Var = "@counter"
)

// IsIdent reports whether s matches the bare-identifier grammar
// ([A-Za-z_@][A-Za-z_0-9@-]*) and so can be printed without quoting.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '@':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 && (r >= '0' && r <= '9') {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// IsString reports whether s is a double-quoted string literal.
func IsString(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}

// IsIdentKeyword reports whether s is a reserved word that, while matching
// the identifier grammar, must still be quoted when printed as a plain
// identifier to avoid colliding with the grammar.
func IsIdentKeyword(s string) bool {
	return reservedWords[s]
}

var reservedWords = map[string]bool{
	"goto": true, "const": true, "take": true, "setres": true, "op": true,
	"set": true, "print": true, "end": true, "noop": true, "jump": true,
	"select": true, "switch": true, "case": true, "skip": true, "if": true,
	"else": true, "elif": true, "while": true, "do": true, "gwhile": true,
	"do-while": true, "break": true, "continue": true, "inline": true,
	"match": true, "const-leak": true,
}

// NoReprQuoting reports whether s can be printed bare (a string literal, or
// a non-keyword identifier) rather than wrapped in single quotes.
func NoReprQuoting(s string) bool {
	return IsString(s) || (IsIdent(s) && !IsIdentKeyword(s))
}

// QuoteIdent returns s printed in the canonical pretty-printer form: bare
// when it needs no quoting, else single-quoted with embedded single quotes
// re-encoded as double quotes.
func QuoteIdent(s string) string {
	if NoReprQuoting(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "\"") + "'"
}
