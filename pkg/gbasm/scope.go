package gbasm

import "strings"

// Scope tracks the current global label and optional local sub-label while
// a single file is being parsed (§4.3).
//
// The trailing-tick suffix chain this type maintains is the mechanism by
// which a conditional branch's synthetic fall-through label
// (`current_label + "'"`) is produced: rather than a separate branch-depth
// stack, the depth is folded directly into the active scope name. Reimplement
// this exactly — downstream flowchart consumers index nodes by these names.
type Scope struct {
	global string
	local  string
}

// NewScope returns a Scope seeded at the file-level pseudo label "main".
func NewScope() *Scope { return &Scope{global: "main"} }

// Current resolves the fully-qualified name of whatever label is active
// right now.
func (s *Scope) Current() string {
	if s.local != "" {
		return stripTrailingTick(s.global) + "/" + s.local
	}
	return s.global
}

// Global reports the active global label, tick suffix included.
func (s *Scope) Global() string { return s.global }

// DefineLabel records a label line's first token and returns the
// fully-qualified name that should key its Node. A local label (leading
// ".") is scoped under the current global label; any other label opens a
// new global scope and clears the local one.
func (s *Scope) DefineLabel(firstToken string) (name string, isLocal bool) {
	if strings.HasPrefix(firstToken, ".") {
		label := stripTrailingColon(firstToken)
		name = stripTrailingTick(s.global) + "/" + label
		s.local = label
		return name, true
	}

	label := stripTrailingColon(firstToken)
	s.global = label
	s.local = ""
	return label, false
}

// Qualify turns a local-label reference (leading ".") seen as a jump target
// into its fully-qualified name under the current global scope. Non-local
// targets are returned unchanged.
func (s *Scope) Qualify(target string) string {
	if strings.HasPrefix(target, ".") {
		return stripTrailingTick(s.global) + "/" + target
	}
	return target
}

// BumpBranch appends a trailing tick to whichever scope component is active,
// encoding "one more jump, conditional or not, passed since the last label"
// (§4.5).
func (s *Scope) BumpBranch() {
	if s.local != "" {
		s.local += "'"
	} else {
		s.global += "'"
	}
}
