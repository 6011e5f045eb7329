package gbasm

import (
	"strings"

	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// Lexical helpers (§4.1)

// These are total and panic-free on any input, including the empty string.

func trimBoth(s string) string { return strings.Trim(s, " \t") }

func trimLeading(s string) string { return strings.TrimLeft(s, " \t") }

func trimTrailing(s string) string { return strings.TrimRight(s, " \t") }

func stripTrailingColon(s string) string { return strings.TrimRight(s, ":") }

func stripTrailingTick(s string) string { return strings.TrimRight(s, "'") }

// splitTokens splits on any run of space or tab, the way the reference
// parser's `line.split(|c| c == ' ' || c == '\t')` does.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
}

// eatSpace trims both leading and trailing whitespace, mirroring the
// reference parser's `eat_space`.
func eatSpace(s string) string { return trimTrailing(trimLeading(s)) }

// ----------------------------------------------------------------------------
// goparsec-backed token recognizers

// This reuses the teacher's parser-combinator library for the genuinely
// regex-shaped sub-problem inside an already line-classified token: pulling
// the path out of the quotes of an include directive. The line classifier
// itself (classify.go) stays a plain ordered `switch`, for the reasons
// recorded in SPEC_FULL.md §4.

var (
	operandAST = pc.NewAST("operand", 0)

	// pQuoted recognizes a double-quoted path, used to pull the target out
	// of `INCLUDE "foo/bar.asm"` without hand-rolling quote stripping twice.
	pQuoted = pc.Token(`"[^"]*"`, "QUOTED")
)

// unquote strips a single pair of surrounding double quotes from a token
// recognized by pQuoted, e.g. `"lib.asm"` -> `lib.asm`.
func unquote(s string) string {
	root, _ := operandAST.Parsewith(pQuoted, pc.NewScanner([]byte(s)))
	if root == nil {
		return strings.Trim(s, `"`)
	}
	return strings.Trim(root.GetValue(), `"`)
}
