// Package project drives the assembly parser across an entire multi-file
// project: it owns the union of per-file node maps, the project-wide macro
// set, and label resolution across file boundaries (§4.7).
package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gbdev-tools/flowchartgb/pkg/gbasm"
)

// Registry is the process-wide analyzer state (§3's Analyzer state).
type Registry struct {
	asm       map[string]gbasm.Nodes // relative file path -> that file's Nodes
	text      map[string]bool        // relative paths of non-assembly includes
	remaining []string                // absolute paths still to process
	macros    map[string]bool         // project-wide macro names, grows monotonically
	baseDir   string                  // anchor for relative-path keys
	fileName  string                  // stem of the first input, used only for output naming
}

// NewRegistry returns an empty Registry ready for InitAnalyze.
func NewRegistry() *Registry {
	return &Registry{
		asm:    map[string]gbasm.Nodes{},
		text:   map[string]bool{},
		macros: map[string]bool{},
	}
}

// InitAnalyze processes each absolute input path in order, skipping any that
// were already analyzed under a relative path known to asm (§8's
// idempotence property: running this twice with the same inputs is a
// no-op the second time). ctx is only consulted between files — the core
// parse of a single file is synchronous and uninterruptible (§5).
func (r *Registry) InitAnalyze(ctx context.Context, absFilePaths []string) error {
	for _, absFilePath := range absFilePaths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if r.baseDir != "" {
			rel := r.toRelative(absFilePath)
			if _, seen := r.asm[rel]; seen {
				continue
			}
		}

		if err := r.analyze(absFilePath); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) analyze(absFilePath string) error {
	if !isAsm(absFilePath) {
		log.WithField("path", absFilePath).Warn("invalid format, expected a .asm file")
		return nil
	}

	r.baseDir = filepath.Dir(absFilePath)
	r.fileName = strings.TrimSuffix(filepath.Base(absFilePath), filepath.Ext(absFilePath))

	if err := r.analyzeFile(absFilePath); err != nil {
		return err
	}

	for len(r.remaining) > 0 {
		next := r.remaining[0]
		r.remaining = removeAll(r.remaining, next)
		if err := r.analyzeFile(next); err != nil {
			return err
		}
	}
	return nil
}

// analyzeFile dispatches by extension (§4.7): .asm gets a full parse merged
// into asm; anything else is just recorded as a text/binary include target.
func (r *Registry) analyzeFile(absFilePath string) error {
	log.WithField("path", r.toRelative(absFilePath)).Info("analyze")

	if isAsm(absFilePath) {
		return r.analyzeASMFile(absFilePath)
	}
	r.analyzeTextFile(absFilePath)
	return nil
}

func (r *Registry) analyzeASMFile(absFilePath string) error {
	filename := filepath.Base(absFilePath)

	parser, err := gbasm.NewParser(absFilePath, r.baseDir, r.macros, map[string]bool{})
	if err != nil {
		return errors.Wrapf(err, "analyzing %q", absFilePath)
	}

	result, macros, err := parser.Parse(filename)
	if err != nil {
		return errors.Wrapf(err, "analyzing %q", absFilePath)
	}

	for name, nodes := range result {
		r.asm[name] = nodes
	}
	r.macros = macros
	return nil
}

func (r *Registry) analyzeTextFile(absFilePath string) {
	rel := r.toRelative(absFilePath)
	r.text[rel] = true
	r.remaining = removeAll(r.remaining, absFilePath)
}

// GetNode resolves label first within initFile's map, then by scanning
// every other file's map in deterministic (sorted) key order — the
// reference implementation's hash-map iteration order is non-deterministic,
// which the design notes flag as a latent bug; sorting keys here is the
// resolution recorded in DESIGN.md.
func (r *Registry) GetNode(initFile, label string) (*gbasm.Node, bool) {
	if nodes, ok := r.asm[initFile]; ok {
		if node, ok := gbasm.GetNode(nodes, label); ok {
			return node, true
		}
	}

	names := make([]string, 0, len(r.asm))
	for name := range r.asm {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if node, ok := gbasm.GetNode(r.asm[name], label); ok {
			return node, true
		}
	}
	return nil, false
}

// Files returns the relative paths of every parsed assembly file, sorted.
func (r *Registry) Files() []string {
	names := make([]string, 0, len(r.asm))
	for name := range r.asm {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Nodes returns the node map parsed for the given relative file path.
func (r *Registry) Nodes(file string) (gbasm.Nodes, bool) {
	nodes, ok := r.asm[file]
	return nodes, ok
}

// FileName is the stem of the first input file, used only for naming output
// artifacts.
func (r *Registry) FileName() string { return r.fileName }

// DumpJSON writes the whole project's node maps to "<dirPath>/<fileName>.json"
// (§10, restored from the original's dump_json). Failure to write is fatal
// for the operation, per §7's error taxonomy.
func (r *Registry) DumpJSON(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return errors.Wrap(err, "target dir does not exist")
	}
	if !info.IsDir() {
		return errors.New("target path is not a directory")
	}

	payload, err := json.MarshalIndent(r.asm, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling analysis result")
	}
	payload = append(payload, '\n')

	dir := strings.TrimRight(dirPath, string(filepath.Separator))
	outPath := filepath.Join(dir, r.fileName+".json")
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return errors.Wrapf(err, "writing %q", outPath)
	}

	log.WithField("path", outPath).Info("dumped JSON analysis")
	return nil
}

func (r *Registry) toRelative(absFilePath string) string {
	rel, err := filepath.Rel(r.baseDir, absFilePath)
	if err != nil {
		return absFilePath
	}
	return rel
}

func isAsm(path string) bool { return filepath.Ext(path) == ".asm" }

func removeAll(paths []string, target string) []string {
	out := paths[:0]
	for _, p := range paths {
		if p != target {
			out = append(out, p)
		}
	}
	return out
}
