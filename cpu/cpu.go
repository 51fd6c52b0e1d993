package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	MEMORY_SIZE    = 4096 // Bytes of addressable memory.
	REGISTER_COUNT = 16   // Number of 8-bit registers.
	FLAG_REGISTER  = 0xf  // Carry/borrow flag register index.
	CODE_SIZE      = 2    // Bytes per instruction word.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%v", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"FLAG_REGISTER":  fmt.Sprintf("%#x", FLAG_REGISTER),
	"STACK_LIMIT":    fmt.Sprintf("%v", STACK_LIMIT),
}

// Cpu is the simulation context for the CHIP-8 instruction core.
type Cpu struct {
	Verbose           bool // Set to enable verbose logging.
	SkipUnimplemented bool // Set to step over unimplemented opcodes instead of failing.

	Memory   [MEMORY_SIZE]uint8    // Memory image.
	Register [REGISTER_COUNT]uint8 // Register bank, v0-vf.
	Ip       uint16                // Address of the next instruction.
	Stack    Stack                 // Call stack.
	Halted   bool                  // Set once the halt sentinel executes.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU with cleared state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 5s: %d\n", "sp", cpu.Stack.Depth())

	strval := "---"
	val, ok := cpu.Stack.Peek()
	if ok {
		strval = fmt.Sprintf("%03X", val)
	}
	text += fmt.Sprintf("% 5s: %v\n", "stack", strval)

	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%x", n), val)
	}

	return
}

// Reset the CPU state.
// - Clears memory, registers and the stack.
// - Zeros the instruction pointer and counters.
// - Leaves the halted state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Stack.Reset()
	cpu.Ip = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// checkBounds verifies that length bytes at addr are inside memory.
func (cpu *Cpu) checkBounds(addr uint16, length int) (err error) {
	if length < 0 || int(addr)+length > len(cpu.Memory) {
		err = ErrMemory{Address: int(addr), Length: length}
	}
	return
}

// Load copies a memory image to addr.
func (cpu *Cpu) Load(addr uint16, data []uint8) (err error) {
	err = cpu.checkBounds(addr, len(data))
	if err != nil {
		return
	}

	copy(cpu.Memory[addr:], data)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes at 0x%03x", len(data), addr)
	}

	return
}

// Read returns length bytes of memory at addr.
func (cpu *Cpu) Read(addr uint16, length int) (data []uint8, err error) {
	err = cpu.checkBounds(addr, length)
	if err != nil {
		return
	}

	data = cpu.Memory[addr : int(addr)+length]
	return
}

// FetchCode fetches the big-endian instruction word at the instruction pointer.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	data, err := cpu.Read(cpu.Ip, CODE_SIZE)
	if err != nil {
		return
	}

	code = Code(Compose(data[0], data[1]))
	return
}

// Tick executes a single fetch-decode-execute cycle.
// Once halted, Tick does nothing and reports halted until Reset.
func (cpu *Cpu) Tick() (halted bool, err error) {
	if cpu.Halted {
		halted = true
		return
	}

	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	halted, err = cpu.Execute(code)
	return
}

// Run ticks the CPU until it halts or fails.
func (cpu *Cpu) Run() (err error) {
	for halted := false; !halted; {
		halted, err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction located at the
// instruction pointer. On error the instruction pointer is left at the
// failed instruction.
func (cpu *Cpu) Execute(code Code) (halted bool, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Ip, code)
	}

	if code == MakeCodeHalt() {
		cpu.Halted = true
		halted = true
		if cpu.Verbose {
			log.Printf("cpu: halt at 0x%03x", cpu.Ip)
		}
		return
	}

	next_ip := cpu.Ip + CODE_SIZE

	handler := classTable[code.Class()]
	if handler == nil {
		err = ErrUnimplemented
	} else {
		next_ip, err = handler(cpu, code, next_ip)
	}

	if cpu.SkipUnimplemented && errors.Is(err, ErrUnimplemented) {
		if cpu.Verbose {
			log.Printf("cpu: skipped 0x%04x at 0x%03x", uint16(code), cpu.Ip)
		}
		next_ip = cpu.Ip + CODE_SIZE
		err = nil
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}
