package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/chip8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(0, emu.TickLimit)
}

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)

	err = emu.Reset()
	require.NoError(t, err)
}

// doRunSingle ticks through a straight line program, checking the
// listing against the instruction pointer at each step.
func doRunSingle(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	doAssemble(emu, program, t)

	for _, op := range emu.Program.Opcodes {
		here := program[op.LineNo-1]
		for c := range len(op.Codes) {
			assert.Equal(op.LineNo, emu.LineNo(), here)
			assert.Equal(op.Addr+c*cpu.CODE_SIZE, emu.Ip(), here)
			assert.Equal(op.Codes[c], emu.Code(), here)
			done, err := emu.Tick()
			if err != nil {
				t.Log(emu.Cpu.String())
				t.Fatalf("%v", err)
			}
			assert.Equal(op.Codes[c] == cpu.MakeCodeHalt(), done, here)
		}
	}
}

func TestEmulatorAlu(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Cpu.Register[0] = 0b0110

	program := []string{
		"or v0 v1",
		"and v2 v3",
		"add v4 v5",
		"sub v6 v7",
		"halt",
	}

	doAssemble(emu, program, t)

	// Reset cleared the registers.
	assert.Equal(uint8(0), emu.Cpu.Register[0])

	copy(emu.Cpu.Register[:], []uint8{0b0110, 0b1010, 0b1101, 0b0011, 250, 10, 3, 4})
	for _, op := range emu.Program.Opcodes {
		here := program[op.LineNo-1]
		assert.Equal(op.LineNo, emu.LineNo(), here)
		_, err := emu.Tick()
		assert.NoError(err, here)
	}

	assert.Equal(uint8(0b1110), emu.Cpu.Register[0])
	assert.Equal(uint8(0b0001), emu.Cpu.Register[2])
	assert.Equal(uint8(4), emu.Cpu.Register[4])
	assert.Equal(uint8(255), emu.Cpu.Register[6])
	assert.Equal(uint8(1), emu.Cpu.Register[cpu.FLAG_REGISTER])
	assert.True(emu.Cpu.Halted)
	assert.Equal(4, emu.Ticks())
}

func TestEmulatorSingle(t *testing.T) {
	emu := NewEmulator()

	program := []string{
		"add v0 v0",
		".word 0x8014 0x8015",
		"halt",
	}

	doRunSingle(emu, program, t)
	assert.Equal(t, 3, emu.Ticks())
}

func TestEmulatorCall(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"; two calls of a two-add subroutine",
		"main:",
		"  call addtwice",
		"  call addtwice",
		"  halt",
		"addtwice:",
		"  add v0 v1",
		"  add v0 v1",
		"  return",
	}

	doAssemble(emu, program, t)
	emu.Cpu.Register[0] = 5
	emu.Cpu.Register[1] = 10

	assert.NoError(emu.Run())
	assert.Equal(uint8(45), emu.Cpu.Register[0])
	assert.Equal(5, emu.LineNo())
	assert.Equal(8, emu.Ticks())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x0", defines["PROGRAM_ORIGIN"])
	assert.Equal("4096", defines["MEMORY_SIZE"])

	program := []string{
		"call $(MEMORY_SIZE - 2)",
	}
	doAssemble(emu, program, t)
	assert.NoError(emu.Run())
	assert.Equal(cpu.MEMORY_SIZE-2, emu.Ip())
}

func TestEmulatorRuntimeError(t *testing.T) {
	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"unimplemented", []string{"add v0 v1", ".word 0x5120"}, 2, cpu.ErrUnimplemented},
		{"underflow", []string{"add v0 v1", "return"}, 2, cpu.ErrStackUnderflow},
		{"overflow", []string{"loop: call loop"}, 1, cpu.ErrStackOverflow},
		{"bounds", []string{"call 0xfff"}, 0, cpu.ErrMemoryBounds},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			emu := NewEmulator()
			doAssemble(emu, entry.program, t)

			err := emu.Run()
			assert.ErrorIs(err, entry.err)

			var rt *ErrRuntime
			if assert.True(errors.As(err, &rt)) {
				assert.Equal(entry.lineno, rt.LineNo)
				assert.Equal(emu.Cpu.Ip, rt.Ip)
			}
			assert.False(emu.Cpu.Halted)
		})
	}
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.TickLimit = 3

	program := []string{
		"add v0 v1",
		"add v0 v1",
		"add v0 v1",
		"add v0 v1",
		"halt",
	}
	doAssemble(emu, program, t)

	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(3, emu.Ticks())
	assert.Equal(4, emu.LineNo())

	// Resuming with a larger budget finishes the program.
	emu.TickLimit = 0
	assert.NoError(emu.Run())
	assert.True(emu.Cpu.Halted)
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	prog := emu.Program

	err := emu.Assemble(strings.NewReader("bogus"))
	assert.ErrorIs(err, cpu.ErrInstructionInvalid)
	assert.Same(prog, emu.Program)
}
