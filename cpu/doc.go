// Package cpu implements the instruction core and assembler for a CHIP-8
// style virtual CPU.
//
// The CPU consists of 4096 bytes of memory, an instruction pointer (IP),
// sixteen 8-bit registers (v0-vf) with vf doubling as the carry/borrow flag,
// and a sixteen entry call stack. Instructions are 16-bit big-endian words,
// decoded into four nibbles and dispatched by table on the high nibble.
//
// The implemented subset is halt (0000), return (00ee), call (2nnn) and the
// register operations or (8xy1), and (8xy2), add (8xy4) and sub (8xy5).
// Any other word fails with ErrUnimplemented.
//
// The assembler provides a small assembly language for the same subset,
// supporting macros, labels, equates, and compile-time expression evaluation.
package cpu
