package gbasm

import "strings"

// Node is one basic-block-ish unit of the control-flow graph (§3).
type Node struct {
	Global   string    `json:"global"`     // Enclosing global label, used as a scope key.
	Text     string    `json:"text"`       // Concatenated source of every element, label-prefixed.
	Elements []Element `json:"elements"`   // Ordered elements appended to this node.
	Next     string    `json:"next"`       // Unconditional successor label, empty if terminal.
	NextCond string    `json:"next_cond"`  // Conditional alternate successor, set only for conditional jumps.
	Calls    []string  `json:"calls"`      // Call-target labels collected from CALL/CALLBA opcodes, in order.

	// BanksCrossed is a supplemental annotation (not in the upstream
	// reference): set when a CALLBA/JPBA opcode is appended to this node,
	// since those mnemonics are the disassembler's tell that this routine
	// statically crosses a ROM bank boundary.
	BanksCrossed bool `json:"banks_crossed,omitempty"`
}

// Nodes maps a label name to its Node, unique within a single parsed file.
type Nodes map[string]*Node

// NewNodes seeds a fresh per-file node map with the "main" pseudo-node that
// accumulates pre-label content (§3's Lifecycles).
func NewNodes() Nodes {
	return Nodes{"main": {Global: "main"}}
}

// newLabelNode builds the Node installed when a label line is parsed: empty
// edges, text seeded with the label itself (the "text begins with the
// node's label" invariant, §8).
func newLabelNode(name, global string) *Node {
	return &Node{Global: global, Text: name + "\n"}
}

// newSyntheticNode builds the fall-through/placeholder node installed when a
// branch opcode opens a new scope suffix (§4.5). Its text is seeded with the
// jump target rather than its own name, matching the reference parser.
func newSyntheticNode(global, seedText string) *Node {
	return &Node{Global: global, Text: seedText + "\n"}
}

// append records one classified element on the node, extending Text with the
// element's raw source line followed by a newline, and growing the Calls
// list when the element is a call-style Opcode.
func (n *Node) append(el Element) {
	n.Elements = append(n.Elements, el)
	n.Text += el.elementText() + "\n"

	if op, ok := el.(Opcode); ok {
		if isCallLike(op.Op) {
			n.Calls = append(n.Calls, op.Operand1)
		}
		if strings.EqualFold(op.Op, "jpba") || strings.EqualFold(op.Op, "callba") {
			n.BanksCrossed = true
		}
	}
}
