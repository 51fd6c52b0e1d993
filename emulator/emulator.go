// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
)

const (
	PROGRAM_ORIGIN = 0x000 // Default load address of the program image.
)

var _emulator_defines = map[string]string{
	"PROGRAM_ORIGIN": fmt.Sprintf("%#x", PROGRAM_ORIGIN),
}

// Emulator state. CPU + the program listing loaded into it.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	TickLimit int // If non-zero, Run fails once this many ticks have executed.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Assemble parses source into the emulator's program. The emulator's
// defines are available to the source as equates.
func (emu *Emulator) Assemble(source io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the CPU and load the program image at PROGRAM_ORIGIN.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(PROGRAM_ORIGIN, emu.Program.Binary())
	if err != nil {
		return
	}

	emu.Cpu.Ip = PROGRAM_ORIGIN

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes at 0x%03x", emu.Program.Size(), PROGRAM_ORIGIN)
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// Code returns the listing's code at the instruction pointer.
func (emu *Emulator) Code() cpu.Code {
	dbg := emu.debug()
	if dbg.Opcode == nil {
		return cpu.Code(0)
	}

	return dbg.Codes[dbg.Index]
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.debug()
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// debug locates the listing entry at the instruction pointer.
func (emu *Emulator) debug() cpu.Debug {
	return emu.Program.Debug(emu.Cpu.Ip - PROGRAM_ORIGIN)
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: emu.Cpu.Ip, Err: err}
		}
	}()

	done, err = emu.Cpu.Tick()

	return
}

// Run ticks the emulator until the program halts or fails.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		if emu.TickLimit > 0 && emu.Cpu.Ticks >= emu.TickLimit {
			err = &ErrRuntime{LineNo: emu.LineNo(), Ip: emu.Cpu.Ip, Err: ErrTickLimit}
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
