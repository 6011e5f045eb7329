package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/teris-io/cli"

	"github.com/gbdev-tools/flowchartgb/pkg/flow"
	"github.com/gbdev-tools/flowchartgb/pkg/gbrom"
	"github.com/gbdev-tools/flowchartgb/pkg/project"
)

var Description = strings.ReplaceAll(`
FlowchartGB parses Game Boy assembly source (rgbds-like syntax), builds the
cross-file control-flow graph of its routines, and renders a flowchart for
one routine at a time starting from a given label.
`, "\n", " ")

var FlowchartGB = cli.New(Description).
	WithArg(cli.NewArg("input", "The entry .asm file to analyze")).
	WithArg(cli.NewArg("label", "The label to start the flowchart walk from").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("outdir", "Directory to write the .json and .flowchart artifacts into").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("json", "Also dump the full analysis as JSON").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	inputPath, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Printf("ERROR: Unable to resolve input path: %s\n", err)
		return -1
	}

	label := gbrom.Jump_000_0150
	if len(args) >= 2 && args[1] != "" {
		label = args[1]
	}

	outDir, ok := options["outdir"]
	if !ok || outDir == "" {
		outDir = filepath.Dir(inputPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := project.NewRegistry()
	if err := registry.InitAnalyze(ctx, []string{inputPath}); err != nil {
		fmt.Printf("ERROR: Unable to complete 'analyze' pass: %s\n", err)
		return -1
	}

	if _, enabled := options["json"]; enabled {
		if err := registry.DumpJSON(outDir); err != nil {
			fmt.Printf("ERROR: Unable to complete 'dump json' pass: %s\n", err)
			return -1
		}
	}

	walker := flow.NewWalker(registry)
	if err := walker.WriteChart(outDir, label); err != nil {
		fmt.Printf("ERROR: Unable to complete 'walk flow' pass: %s\n", err)
		return -1
	}

	return 0
}

func main() { os.Exit(FlowchartGB.Run(os.Args, os.Stdout)) }
