// Package flow walks a parsed project's node graph from a start label and
// renders the flat edge/operation sequence the downstream flowchart
// visualizer consumes (§4.8).
package flow

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/gbdev-tools/flowchartgb/pkg/gbasm"
	"github.com/gbdev-tools/flowchartgb/pkg/project"
	"github.com/gbdev-tools/flowchartgb/pkg/utils"
)

const hlTerminal = "hl"

// Walker renders flowcharts by replaying a Registry's node graph starting
// from one label, one file at a time.
type Walker struct {
	registry *project.Registry
}

// NewWalker wraps an already-analyzed Registry.
func NewWalker(r *project.Registry) *Walker {
	return &Walker{registry: r}
}

// WriteChart walks initLabel across every file the Registry analyzed and
// writes "<dirPath>/<FileName>.flowchart" (§6's flowchart output grammar,
// restored from the original's dump_flowchart banner/loop formatting, §10).
// A file in which initLabel cannot be resolved is skipped; it is not an
// error for the overall run (§7).
func (w *Walker) WriteChart(dirPath, initLabel string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return errors.Wrap(err, "target dir does not exist")
	}
	if !info.IsDir() {
		return errors.New("target path is not a directory")
	}

	var charts strings.Builder
	for _, file := range w.registry.Files() {
		nodes, ok := w.registry.Nodes(file)
		if !ok {
			continue
		}
		start, ok := gbasm.GetNode(nodes, initLabel)
		if !ok {
			continue
		}

		chart := w.walkFile(file, initLabel, start)
		if charts.Len() > 0 {
			charts.WriteString("\n")
		}
		charts.WriteString(chart)
	}

	dir := strings.TrimRight(dirPath, string(filepath.Separator))
	outPath := filepath.Join(dir, w.registry.FileName()+".flowchart")
	if err := os.WriteFile(outPath, []byte(charts.String()), 0o644); err != nil {
		return errors.Wrapf(err, "writing %q", outPath)
	}

	log.WithField("path", outPath).Info("dumped flowchart")
	return nil
}

// walkFile renders the chart for a single file, starting at currentNode.
func (w *Walker) walkFile(file, initLabel string, currentNode *gbasm.Node) string {
	done := utils.NewStack[string]()
	visited := func(label string) bool {
		return done.ContainsFunc(func(v string) bool { return v == label })
	}

	header := "--------------------------------------------------------------------\n[" + file + "]"
	ns := []string{header, "st=>start: Start"}
	flows := []string{"st->" + initLabel}
	currentLabel := initLabel

	for {
		done.Push(currentLabel)

		switch {
		case currentNode.NextCond != "":
			nextLabel := currentNode.Next
			ns = append(ns, currentLabel+"=>parallel:  "+currentNode.Text)

			if visited(currentNode.NextCond) {
				flows = append(flows, currentLabel+"(path1, right)->"+nextLabel)
				flows = append(flows, currentLabel+"(path2, bottom)->"+currentNode.NextCond)
			} else {
				flows = append(flows, currentLabel+"(path1, right)->"+currentNode.NextCond)
				flows = append(flows, currentLabel+"(path2, bottom)->"+nextLabel)
			}

			currentLabel = nextLabel
			node, ok := w.registry.GetNode(file, currentLabel)
			if !ok {
				ns = append(ns, terminalNote(currentLabel))
				goto done
			}
			currentNode = node

		case currentNode.Next != "":
			nextLabel := currentNode.Next
			ns = append(ns, currentLabel+"=>operation:  "+currentNode.Text)
			flows = append(flows, currentLabel+"->"+nextLabel)

			currentLabel = nextLabel
			node, ok := w.registry.GetNode(file, currentLabel)
			if !ok {
				ns = append(ns, terminalNote(currentLabel))
				goto done
			}
			currentNode = node

		default:
			ns = append(ns, currentLabel+"=>operation:  "+currentNode.Text)
			goto done
		}

		if visited(currentLabel) {
			break
		}
	}

done:
	flows = append(flows, currentLabel+"->e")

	var b strings.Builder
	b.WriteString(strings.Join(ns, "\n"))
	b.WriteString("\ne=>end\n\n")
	b.WriteString(strings.Join(flows, "\n"))
	b.WriteString("\n")
	return b.String()
}

// terminalNote renders the operation line for a label that doesn't resolve
// to any parsed node: the fixed HL message, or the generic cross-bank one.
func terminalNote(label string) string {
	if label == hlTerminal {
		return label + "=>operation:  This flowchart ends here, because PC jumps to HL which dynamically changes."
	}
	return label + "=>operation:  " + label + "\n;Moved to another bank."
}
