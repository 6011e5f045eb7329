package gbasm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gbdev-tools/flowchartgb/pkg/gbasm"
)

func TestClassify(t *testing.T) {
	noMacros := map[string]bool{}

	t.Run("directives classify as text", func(t *testing.T) {
		for _, line := range []string{"SECTION \"Home\", ROM0", "EQU $10", "REPT 3", "DB 1, 2, 3"} {
			class, _ := gbasm.Classify(line, noMacros)
			assert.Equal(t, gbasm.ClassText, class, line)
		}
	})

	t.Run("recognized opcodes classify as opcode", func(t *testing.T) {
		class, tokens := gbasm.Classify("  ld a, 1", noMacros)
		assert.Equal(t, gbasm.ClassOpcode, class)
		assert.Equal(t, []string{"ld", "a,", "1"}, tokens)
	})

	t.Run("comment-only lines classify as opcode with no mnemonic", func(t *testing.T) {
		class, _ := gbasm.Classify("  ; a loose comment", noMacros)
		assert.Equal(t, gbasm.ClassOpcode, class)
	})

	t.Run("include/incbin classify as include", func(t *testing.T) {
		class, tokens := gbasm.Classify(`INCLUDE "lib.asm"`, noMacros)
		assert.Equal(t, gbasm.ClassInclude, class)
		assert.Equal(t, "INCLUDE", tokens[0])
	})

	t.Run("blank line classifies as text", func(t *testing.T) {
		class, _ := gbasm.Classify("", noMacros)
		assert.Equal(t, gbasm.ClassText, class)
	})

	t.Run("known macro invocation classifies as text, not label", func(t *testing.T) {
		class, _ := gbasm.Classify("SomeMacro 1, 2", map[string]bool{"SomeMacro": true})
		assert.Equal(t, gbasm.ClassText, class)
	})

	t.Run("macro header classifies as macro def", func(t *testing.T) {
		class, _ := gbasm.Classify("MyMacro: MACRO", noMacros)
		assert.Equal(t, gbasm.ClassMacroDef, class)
	})

	t.Run("indented unknown token classifies as text", func(t *testing.T) {
		class, _ := gbasm.Classify("  SomeLooseWord", noMacros)
		assert.Equal(t, gbasm.ClassText, class)
	})

	t.Run("column-zero unknown token classifies as label", func(t *testing.T) {
		class, tokens := gbasm.Classify("Start:", noMacros)
		assert.Equal(t, gbasm.ClassLabel, class)
		assert.Equal(t, "Start:", tokens[0])
	})

	t.Run("local label classifies as label", func(t *testing.T) {
		class, _ := gbasm.Classify(".loop", noMacros)
		assert.Equal(t, gbasm.ClassLabel, class)
	})
}
