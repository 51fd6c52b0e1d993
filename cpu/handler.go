package cpu

// opHandler executes an instruction of one opcode class. It receives the
// address following the instruction and returns the address to continue at.
type opHandler func(cpu *Cpu, code Code, next_ip uint16) (ip uint16, err error)

// aluHandler executes an OP_ALU operation on registers x and y.
type aluHandler func(cpu *Cpu, x, y int)

// classTable dispatches on the c nibble. Classes without a handler are
// unimplemented.
var classTable = [16]opHandler{
	OP_SYS:  (*Cpu).opSys,
	OP_CALL: (*Cpu).opCall,
	OP_ALU:  (*Cpu).opAlu,
}

// aluTable dispatches OP_ALU on the d nibble.
var aluTable = [16]aluHandler{
	ALU_OP_OR:  (*Cpu).aluOr,
	ALU_OP_AND: (*Cpu).aluAnd,
	ALU_OP_ADD: (*Cpu).aluAdd,
	ALU_OP_SUB: (*Cpu).aluSub,
}

// opSys handles the 0nnn class. Only return is implemented; the halt
// sentinel never reaches the dispatch tables.
func (cpu *Cpu) opSys(code Code, next_ip uint16) (ip uint16, err error) {
	if code != MakeCodeReturn() {
		return next_ip, ErrUnimplemented
	}

	ip, ok := cpu.Stack.Pop()
	if !ok {
		return next_ip, ErrStackUnderflow
	}

	return
}

// opCall saves the return address and jumps to nnn.
func (cpu *Cpu) opCall(code Code, next_ip uint16) (ip uint16, err error) {
	if !cpu.Stack.Push(next_ip) {
		return next_ip, ErrStackOverflow
	}

	return code.Addr(), nil
}

func (cpu *Cpu) opAlu(code Code, next_ip uint16) (ip uint16, err error) {
	alu := aluTable[code.D()]
	if alu == nil {
		return next_ip, ErrUnimplemented
	}

	alu(cpu, code.X(), code.Y())

	return next_ip, nil
}

// setFlag writes 1 or 0 to the flag register.
func (cpu *Cpu) setFlag(set bool) {
	var flag uint8
	if set {
		flag = 1
	}
	cpu.Register[FLAG_REGISTER] = flag
}

func (cpu *Cpu) aluOr(x, y int) {
	cpu.Register[x] |= cpu.Register[y]
}

func (cpu *Cpu) aluAnd(x, y int) {
	cpu.Register[x] &= cpu.Register[y]
}

// aluAdd adds vy to vx modulo 256. The flag is written before the sum, so
// a sum targeting vf replaces the carry.
func (cpu *Cpu) aluAdd(x, y int) {
	a, b := cpu.Register[x], cpu.Register[y]
	sum := uint16(a) + uint16(b)

	cpu.setFlag(sum > 0xff)
	cpu.Register[x] = uint8(sum)
}

// aluSub subtracts vy from vx modulo 256, flagging a borrow.
func (cpu *Cpu) aluSub(x, y int) {
	a, b := cpu.Register[x], cpu.Register[y]

	cpu.setFlag(a < b)
	cpu.Register[x] = a - b
}
