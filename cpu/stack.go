package cpu

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is the fixed depth call stack of return addresses.
type Stack struct {
	Data    [STACK_LIMIT]uint16 // Saved return addresses.
	Pointer int                 // Next free slot.
}

// Push saves an address. Returns false if the stack is full.
func (s *Stack) Push(value uint16) (ok bool) {
	if s.Full() {
		return
	}

	s.Data[s.Pointer] = value
	s.Pointer++
	return true
}

// Pop removes the most recently saved address.
func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Pointer--
	}
	return
}

func (s *Stack) Empty() bool {
	return s.Pointer == 0
}

func (s *Stack) Full() bool {
	return s.Pointer == STACK_LIMIT
}

// Depth returns the number of saved addresses.
func (s *Stack) Depth() int {
	return s.Pointer
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Pointer-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Pointer = 0
}
