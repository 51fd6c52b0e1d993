package cpu

import (
	"fmt"
)

// CodeClass is the opcode class, selected by the high nibble of the word.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	OP_SYS  = CodeClass(0x0) // sys
	OP_JP   = CodeClass(0x1) // jp
	OP_CALL = CodeClass(0x2) // call
	OP_SE   = CodeClass(0x3) // se
	OP_SNE  = CodeClass(0x4) // sne
	OP_SEXY = CodeClass(0x5) // sexy
	OP_LD   = CodeClass(0x6) // ld
	OP_ADDI = CodeClass(0x7) // addi
	OP_ALU  = CodeClass(0x8) // alu
	OP_SNXY = CodeClass(0x9) // snexy
	OP_LDI  = CodeClass(0xa) // ldi
	OP_JPV  = CodeClass(0xb) // jpv
	OP_RND  = CodeClass(0xc) // rnd
	OP_DRW  = CodeClass(0xd) // drw
	OP_KEY  = CodeClass(0xe) // key
	OP_MISC = CodeClass(0xf) // misc
)

// CodeAluOp is the register-to-register operation of an OP_ALU opcode,
// selected by the low nibble of the word.
type CodeAluOp int

const (
	ALU_OP_LD   = CodeAluOp(0x0)
	ALU_OP_OR   = CodeAluOp(0x1)
	ALU_OP_AND  = CodeAluOp(0x2)
	ALU_OP_XOR  = CodeAluOp(0x3)
	ALU_OP_ADD  = CodeAluOp(0x4)
	ALU_OP_SUB  = CodeAluOp(0x5)
	ALU_OP_SHR  = CodeAluOp(0x6)
	ALU_OP_SUBN = CodeAluOp(0x7)
	ALU_OP_SHL  = CodeAluOp(0xe)
)

var aluOpName = map[CodeAluOp]string{
	ALU_OP_LD:   "ld",
	ALU_OP_OR:   "or",
	ALU_OP_AND:  "and",
	ALU_OP_XOR:  "xor",
	ALU_OP_ADD:  "add",
	ALU_OP_SUB:  "sub",
	ALU_OP_SHR:  "shr",
	ALU_OP_SUBN: "subn",
	ALU_OP_SHL:  "shl",
}

func (op CodeAluOp) String() string {
	name, ok := aluOpName[op]
	if !ok {
		return fmt.Sprintf("alu%x", int(op))
	}
	return name
}

// Code is a single 16-bit instruction word.
//
// The word is split into four nibbles, most significant first:
//
//	c x y d
//
// where c is the opcode class, x and y are register indexes, and d selects
// the operation within the class. Control flow opcodes instead treat the
// low twelve bits (x, y and d together) as an address.
type Code uint16

// Decompose splits a word into its high and low bytes.
func Decompose(word uint16) (hi, lo uint8) {
	hi = uint8(word >> 8)
	lo = uint8(word & 0xff)
	return
}

// Compose joins a high and low byte into a word.
func Compose(hi, lo uint8) uint16 {
	return (uint16(hi) << 8) | uint16(lo)
}

// MakeCodeHalt creates the all-zero halt sentinel.
func MakeCodeHalt() Code {
	return Code(0x0000)
}

// MakeCodeReturn creates a return-from-subroutine instruction.
func MakeCodeReturn() Code {
	return Code(0x00ee)
}

// MakeCodeCall creates a call to a 12-bit address.
func MakeCodeCall(addr uint16) Code {
	return Code((uint16(OP_CALL) << 12) | (addr & 0x0fff))
}

// MakeCodeAlu creates a register-to-register operation.
func MakeCodeAlu(op CodeAluOp, x, y int) Code {
	return Code((uint16(OP_ALU) << 12) | (uint16(x&0xf) << 8) | (uint16(y&0xf) << 4) | uint16(op&0xf))
}

// Class returns the opcode class (c nibble).
func (code Code) Class() CodeClass {
	return CodeClass((code >> 12) & 0xf)
}

// X returns the first register index (x nibble).
func (code Code) X() int {
	return int((code >> 8) & 0xf)
}

// Y returns the second register index (y nibble).
func (code Code) Y() int {
	return int((code >> 4) & 0xf)
}

// D returns the low nibble.
func (code Code) D() int {
	return int(code & 0xf)
}

// Addr returns the 12-bit address field (nnn).
func (code Code) Addr() uint16 {
	return uint16(code & 0x0fff)
}

// Byte returns the low byte (kk).
func (code Code) Byte() uint8 {
	_, lo := Decompose(uint16(code))
	return lo
}

// Nibbles returns the four decoded fields (c, x, y, d).
func (code Code) Nibbles() (c, x, y, d int) {
	return int(code.Class()), code.X(), code.Y(), code.D()
}

// String returns a mnemonic rendering of the instruction.
func (code Code) String() string {
	switch {
	case code == MakeCodeHalt():
		return "halt"
	case code == MakeCodeReturn():
		return "return"
	case code.Class() == OP_CALL:
		return fmt.Sprintf("call 0x%03x", code.Addr())
	case code.Class() == OP_ALU:
		return fmt.Sprintf("%v v%x v%x", CodeAluOp(code.D()), code.X(), code.Y())
	}

	return fmt.Sprintf("%v 0x%04x", code.Class(), uint16(code))
}
