// Package gbrom names the contracts of the collaborators the specification
// excludes from this module (§1's "deliberately excluded" list): the
// file-chooser dialog and the external ROM disassembler. Neither has an
// implementation here, and cmd/flowchartgb uses neither: it takes its input
// path from the command line and uses only Jump_000_0150 from this package.
package gbrom

// Jump_000_0150 is the reset-vector entry label an SM83 ROM's disassembly
// conventionally carries at address $0150, the byte immediately following
// the cartridge header. It is the default start label when analysis begins
// from a ROM image rather than a pre-disassembled .asm file.
const Jump_000_0150 = "Jump_000_0150"

// FileChooser selects the input file a run should analyze: either a
// pre-disassembled .asm file, or a .gb/.gbc ROM image. Its concrete
// implementation (a native file dialog, a flag, stdin) is outside this
// module's scope; the core never prompts.
type FileChooser interface {
	ChooseInputFile() (string, error)
}

// Disassembler turns a ROM image into a base directory of .asm files ready
// for project.Registry.InitAnalyze. Not implemented here — see Non-goals.
type Disassembler interface {
	Disassemble(romPath string) (baseDir string, err error)
}
