package gbasm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Parser parses a single assembly file into a Nodes map, recursing into
// INCLUDE/INCBIN targets as it goes (§4.6).
//
// A Parser is single-use: construct one per file with NewParser and drain
// it with Parse. The macro set it starts from is a clone of the caller's —
// mutations made while parsing this file (and its includes) are visible to
// the caller only through the HashSet-like union Parse returns, never by
// aliasing, matching the "no shared mutable state" rule of the concurrency
// model.
type Parser struct {
	lines   []string
	line    int
	nodes   Nodes
	scope   *Scope
	includes []string
	macros  map[string]bool
	curDir  string
	baseDir string
	visited map[string]bool // absolute include paths already entered, guards cycles
}

// NewParser reads filePath fully into a line buffer (so the file handle is
// released before parsing begins, §5) and returns a Parser seeded with a
// clone of macros. visited is shared by reference across an include chain so
// a cycle can be detected; pass a fresh empty map for a top-level file.
func NewParser(filePath, baseDir string, macros map[string]bool, visited map[string]bool) (*Parser, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading assembly file %q", filePath)
	}

	// A final newline ends the last line; it does not open an empty one.
	rawLines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return &Parser{
		lines:   lines,
		nodes:   NewNodes(),
		scope:   NewScope(),
		macros:  cloneMacroSet(macros),
		curDir:  filepath.Dir(filePath),
		baseDir: baseDir,
		visited: visited,
	}, nil
}

func cloneMacroSet(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k := range src {
		out[k] = true
	}
	return out
}

// Parse drains every line of the file, returning the per-file Nodes map for
// this file and every file transitively included from it (keyed by the
// relative name each was included under), plus the macro set grown along
// the way.
func (p *Parser) Parse(filename string) (map[string]Nodes, map[string]bool, error) {
	result := map[string]Nodes{}

	for {
		done, included, includedMacros, err := p.parseElement()
		if err != nil {
			return nil, nil, err
		}
		for name, nodes := range included {
			result[name] = nodes
		}
		for m := range includedMacros {
			p.macros[m] = true
		}
		if done {
			break
		}
	}

	result[filename] = p.nodes
	return result, p.macros, nil
}

// parseElement classifies the current line and dispatches to the matching
// parse rule (§4.2).
func (p *Parser) parseElement() (done bool, included map[string]Nodes, includedMacros map[string]bool, err error) {
	raw := p.lines[p.line]
	class, tokens := Classify(raw, p.macros)

	switch class {
	case ClassOpcode:
		done, err = p.parseOpcode(tokens)
	case ClassInclude:
		done, included, includedMacros, err = p.parseInclude(tokens)
	case ClassMacroDef:
		done = p.parseMacro()
	case ClassLabel:
		done = p.parseLabel(tokens)
	default: // ClassText
		done = p.parseText()
	}
	return
}

// ----------------------------------------------------------------------------
// Node builder — labels (§4.4)

func (p *Parser) parseLabel(tokens []string) bool {
	first := firstToken(tokens)

	currentLabel := p.scope.Current()
	currentNode := p.nodes[currentLabel]

	name, _ := p.scope.DefineLabel(first)
	if currentNode.Next == "" {
		currentNode.Next = name
	}
	p.nodes[name] = newLabelNode(name, p.scope.Global())

	return p.advance()
}

// ----------------------------------------------------------------------------
// Node builder — opcodes and branches (§4.5)

func (p *Parser) parseOpcode(tokens []string) (bool, error) {
	text := p.lines[p.line]
	op := parseOpcodeSyntax(text, tokens)
	p.handleOpcode(op)
	return p.advance(), nil
}

func (p *Parser) handleOpcode(op Opcode) {
	label := p.scope.Current()
	node := p.nodes[label]
	node.append(op)

	if op.Op == "" {
		return // comment-only line
	}

	if isJumpLike(op.Op) {
		p.handleJump(op, node)
	}
}

func (p *Parser) handleJump(op Opcode, node *Node) {
	conditional := isCond(op.Operand1)
	target := op.Operand1
	if conditional {
		target = op.Operand2
	}

	if strings.HasPrefix(target, "@+$") {
		return // PC-relative target, no CFG wiring
	}

	qualified := p.scope.Qualify(target)
	currentLabel := p.scope.Current()

	if conditional {
		node.Next = currentLabel + "'"
		node.NextCond = qualified
	} else {
		node.Next = qualified
	}
	// The bumped scope name (currentLabel + "'") becomes the active scope
	// below, and the parser keeps appending lines to it regardless of
	// whether the CFG can ever reach it — so the placeholder node has to
	// exist before the bump, on every branch, conditional or not, exactly
	// as the reference parser does.
	p.nodes[currentLabel+"'"] = newSyntheticNode(p.scope.Global(), qualified)

	p.scope.BumpBranch()
}

// ----------------------------------------------------------------------------
// Passthrough text

func (p *Parser) parseText() bool {
	p.appendToCurrent(Text{Text: p.lines[p.line]})
	return p.advance()
}

// ----------------------------------------------------------------------------
// Include driver (§4.6)

func (p *Parser) parseInclude(tokens []string) (bool, map[string]Nodes, map[string]bool, error) {
	if len(tokens) < 2 {
		return p.advance(), nil, nil, errors.Errorf("malformed include directive: %q", p.lines[p.line])
	}

	includePath := unquote(tokens[1])
	p.includes = append(p.includes, includePath)

	absInclude := filepath.Join(p.baseDir, includePath)
	rawLine := p.lines[p.line]

	var (
		included map[string]Nodes
		macros   map[string]bool
	)

	if p.visited[absInclude] {
		log.WithField("target", absInclude).Warn("include cycle detected, skipping re-entry")
	} else {
		p.visited[absInclude] = true

		child, err := NewParser(absInclude, p.baseDir, p.macros, p.visited)
		if err != nil {
			return false, nil, nil, errors.Wrapf(err, "parsing include %q", includePath)
		}

		result, childMacros, err := child.Parse(includePath)
		if err != nil {
			return false, nil, nil, errors.Wrapf(err, "parsing include %q", includePath)
		}
		included, macros = result, childMacros
	}

	p.appendToCurrent(Include{Text: rawLine, Target: absInclude})
	return p.advance(), included, macros, nil
}

// ----------------------------------------------------------------------------
// Macro definitions

func (p *Parser) parseMacro() bool {
	line := eatSpace(p.lines[p.line])
	tokens := splitTokens(line)
	label := firstToken(tokens)
	texts := []string{line}

	for {
		p.line++
		if p.line >= len(p.lines) {
			return true
		}

		line = eatSpace(p.lines[p.line])
		texts = append(texts, line)

		tokens = splitTokens(line)
		if firstToken(tokens) == tokenEndm {
			break
		}
	}

	text := strings.Join(texts, "\n")
	p.macros[stripTrailingColon(label)] = true
	p.appendToCurrent(Macro{Label: label, Texts: texts, Text: text})

	return p.advance()
}

// ----------------------------------------------------------------------------
// Shared helpers

func (p *Parser) appendToCurrent(el Element) {
	label := p.scope.Current()
	p.nodes[label].append(el)
}

func (p *Parser) advance() bool {
	p.line++
	return p.line >= len(p.lines)
}

func firstToken(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// parseOpcodeSyntax splits a raw opcode line's tokens into mnemonic,
// operand1, operand2 and trailing comment (§3's Opcode element).
func parseOpcodeSyntax(text string, tokens []string) Opcode {
	var op, operand1, comment string

	if strings.HasPrefix(firstToken(tokens), ";") {
		comment = strings.Join(tokens, " ")
	} else {
		op = firstToken(tokens)

		if len(tokens) >= 2 {
			commentFound := false
			for i, tok := range tokens {
				if strings.HasPrefix(tok, ";") {
					operand1 = eatSpace(strings.Join(tokens[1:i], " "))
					comment = strings.Join(tokens[i:], " ")
					commentFound = true
					break
				}
			}
			if !commentFound {
				operand1 = strings.Join(tokens[1:], " ")
			}
		}
	}

	operand2 := ""
	if operand1 != "" {
		if parts := strings.Split(operand1, ","); len(parts) == 2 {
			operand1 = eatSpace(parts[0])
			operand2 = eatSpace(parts[1])
		}
	}

	return Opcode{Text: text, Op: op, Operand1: operand1, Operand2: operand2, Comment: comment}
}

// GetNode resolves a label within nodes, trying the bare name first and then
// the same name with one and two trailing colons (§4.7) — some disassembler
// output stores labels with their declaration colon(s) intact.
func GetNode(nodes Nodes, label string) (*Node, bool) {
	for _, candidate := range []string{label, label + ":", label + "::"} {
		if node, ok := nodes[candidate]; ok {
			return node, true
		}
	}
	return nil, false
}

// Includes reports the raw (unqualified) include paths this parser's file
// referenced, in source order.
func (p *Parser) Includes() []string { return p.includes }
