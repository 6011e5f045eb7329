package flow_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbdev-tools/flowchartgb/pkg/flow"
	"github.com/gbdev-tools/flowchartgb/pkg/project"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func analyzeAndWalk(t *testing.T, dir, entry, label string) string {
	t.Helper()

	r := project.NewRegistry()
	require.NoError(t, r.InitAnalyze(context.Background(), []string{entry}))

	require.NoError(t, flow.NewWalker(r).WriteChart(dir, label))

	payload, err := os.ReadFile(filepath.Join(dir, r.FileName()+".flowchart"))
	require.NoError(t, err)
	return string(payload)
}

func TestWalkSimpleRoutine(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "game.asm", "Start:\n  ld a, 1\n  ret\n")

	chart := analyzeAndWalk(t, dir, entry, "Start")

	assert.Contains(t, chart, "st->Start")
	assert.Contains(t, chart, "Start=>operation:")
	assert.Contains(t, chart, "Start->e")
}

func TestWalkBackEdgeStopsOnRevisit(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "game.asm", "A:\n  jr A\n")

	chart := analyzeAndWalk(t, dir, entry, "A")

	assert.Contains(t, chart, "A=>operation:")
	assert.Contains(t, chart, "A->A")
	assert.Contains(t, chart, "A->e")
}

func TestWalkCrossBankJumpEmitsMovedTerminal(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "game.asm", "Start:\n  jp Bank2Routine\n")

	chart := analyzeAndWalk(t, dir, entry, "Start")

	assert.Contains(t, chart, "Bank2Routine=>operation:  Bank2Routine\n;Moved to another bank.")
	assert.Contains(t, chart, "Bank2Routine->e")
}

func TestWalkIndirectJumpToHLEmitsFixedTerminal(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "game.asm", "Start:\n  jp hl\n")

	chart := analyzeAndWalk(t, dir, entry, "Start")

	assert.Contains(t, chart, "This flowchart ends here, because PC jumps to HL which dynamically changes.")
}

func TestWalkConditionalBranchEmitsParallelAndBothPaths(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "game.asm", "Foo:\n  jr z, .skip\n  ld a, 1\n.skip\n  ret\n")

	chart := analyzeAndWalk(t, dir, entry, "Foo")

	assert.Contains(t, chart, "Foo=>parallel:")
	assert.Contains(t, chart, "(path1, right)->")
	assert.Contains(t, chart, "(path2, bottom)->")
}

func TestWriteChartSkipsFilesMissingTheStartLabel(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "game.asm", "Start:\n  ret\n")

	r := project.NewRegistry()
	require.NoError(t, r.InitAnalyze(context.Background(), []string{entry}))
	require.NoError(t, flow.NewWalker(r).WriteChart(dir, "Nowhere"))

	payload, err := os.ReadFile(filepath.Join(dir, r.FileName()+".flowchart"))
	require.NoError(t, err)
	assert.Empty(t, payload)
}
