package symbols

// frame is one lexical scope. Names keep their declaration order.
type frame[T any] struct {
	order  []string
	values map[string]T
}

func newFrame[T any]() *frame[T] {
	return &frame[T]{values: make(map[string]T)}
}

func (f *frame[T]) set(name string, v T) {
	if _, exists := f.values[name]; !exists {
		f.order = append(f.order, name)
	}
	f.values[name] = v
}

// Stack is a strict LIFO chain of scopes. The analyser keeps a Stack[Symbol],
// the evaluator a Stack of runtime values.
type Stack[T any] struct {
	frames []*frame[T]
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// BeginScope pushes an empty frame.
func (s *Stack[T]) BeginScope() {
	s.frames = append(s.frames, newFrame[T]())
}

// EndScope pops the top frame. Calling it without a matching BeginScope is a
// programming error and panics.
func (s *Stack[T]) EndScope() {
	if len(s.frames) == 0 {
		panic("symbols: EndScope on empty stack")
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Stack[T]) Depth() int {
	return len(s.frames)
}

// Declare binds name in the top frame, replacing any binding already there.
// It is a no-op when no scope is open.
func (s *Stack[T]) Declare(name string, v T) {
	if len(s.frames) == 0 {
		return
	}
	s.frames[len(s.frames)-1].set(name, v)
}

// IsDeclared reports whether name is bound in any frame on the stack.
func (s *Stack[T]) IsDeclared(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the innermost binding of name.
func (s *Stack[T]) Lookup(name string) (T, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].values[name]; ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Assign overwrites the innermost existing binding of name. It returns false,
// and changes nothing, when name is not bound anywhere.
func (s *Stack[T]) Assign(name string, v T) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].values[name]; ok {
			s.frames[i].values[name] = v
			return true
		}
	}
	return false
}

// Names lists the top frame's bindings in declaration order.
func (s *Stack[T]) Names() []string {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	out := make([]string, len(top.order))
	copy(out, top.order)
	return out
}
