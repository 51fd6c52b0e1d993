package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int      // Source line number.
	Addr      int      // Memory address of the first code.
	Words     []string // Source words.
	Codes     []Code   // Generated instruction words.
	LinkLabel string   // Call target resolved at link time.
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the source of a single code in a program.
type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode containing addr. The zero Debug is returned
// if no opcode contains it.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		start := op.Addr
		end := op.Addr + len(op.Codes)*CODE_SIZE
		if int(addr) >= start && int(addr) < end {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (int(addr) - start) / CODE_SIZE,
			}
			break
		}
	}

	return
}

// Size returns the number of bytes spanned by the program.
func (prog *Program) Size() (size int) {
	for addr := range prog.Codes() {
		size = max(size, int(addr)+CODE_SIZE)
	}

	return
}

// Binary returns the big-endian memory image of the program, starting at
// address zero.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Size())
	for addr, code := range prog.Codes() {
		bins[addr], bins[addr+1] = Decompose(uint16(code))
	}

	return
}

// Codes iterates over each instruction address and code.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			addr := uint16(op.Addr)
			for n, code := range op.Codes {
				if !yield(addr+uint16(n*CODE_SIZE), code) {
					return
				}
			}
		}
	}
}
