package gbasm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gbdev-tools/flowchartgb/pkg/gbasm"
)

func TestScope(t *testing.T) {
	t.Run("starts at main", func(t *testing.T) {
		s := gbasm.NewScope()
		assert.Equal(t, "main", s.Current())
		assert.Equal(t, "main", s.Global())
	})

	t.Run("global label replaces current scope", func(t *testing.T) {
		s := gbasm.NewScope()
		name, isLocal := s.DefineLabel("Start:")
		assert.Equal(t, "Start", name)
		assert.False(t, isLocal)
		assert.Equal(t, "Start", s.Current())
	})

	t.Run("local label nests under the active global, dot retained", func(t *testing.T) {
		s := gbasm.NewScope()
		s.DefineLabel("Start:")
		name, isLocal := s.DefineLabel(".loop")
		assert.Equal(t, "Start/.loop", name)
		assert.True(t, isLocal)
		assert.Equal(t, "Start/.loop", s.Current())
	})

	t.Run("branch bump appends a tick to whichever scope is active", func(t *testing.T) {
		s := gbasm.NewScope()
		s.DefineLabel("Start:")
		s.BumpBranch()
		assert.Equal(t, "Start'", s.Global())
		assert.Equal(t, "Start'", s.Current())

		s.DefineLabel(".loop")
		s.BumpBranch()
		assert.Equal(t, "Start/.loop'", s.Current())
	})

	t.Run("qualify resolves a local jump target under the current global, dot retained", func(t *testing.T) {
		s := gbasm.NewScope()
		s.DefineLabel("Start:")
		assert.Equal(t, "Start/.skip", s.Qualify(".skip"))
		assert.Equal(t, "OtherGlobal", s.Qualify("OtherGlobal"))
	})

	t.Run("qualify strips a trailing tick from the global before nesting", func(t *testing.T) {
		s := gbasm.NewScope()
		s.DefineLabel("Start:")
		s.BumpBranch()
		assert.Equal(t, "Start/.skip", s.Qualify(".skip"))
	})
}
