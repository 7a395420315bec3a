package runtime

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"delta/interpreter-go/pkg/symbols"
)

// Frame holds the locals of one active call. Instance is the receiver of a
// method or constructor call and nil for functions and static methods.
type Frame struct {
	Callee   symbols.Callable
	Locals   *Environment
	Instance *InstanceValue
}

func NewFrame(callee symbols.Callable, instance *InstanceValue) *Frame {
	return &Frame{Callee: callee, Locals: NewEnvironment(), Instance: instance}
}

// FrameStack is the call stack of local frames.
type FrameStack struct {
	stack *arraystack.Stack
}

func NewFrameStack() *FrameStack {
	return &FrameStack{stack: arraystack.New()}
}

func (s *FrameStack) Push(frame *Frame) {
	s.stack.Push(frame)
}

// Pop removes the innermost frame.
func (s *FrameStack) Pop() (*Frame, bool) {
	v, ok := s.stack.Pop()
	if !ok {
		return nil, false
	}
	return v.(*Frame), true
}

// Top returns the innermost frame without removing it.
func (s *FrameStack) Top() (*Frame, bool) {
	v, ok := s.stack.Peek()
	if !ok {
		return nil, false
	}
	return v.(*Frame), true
}

func (s *FrameStack) Depth() int {
	return s.stack.Size()
}
