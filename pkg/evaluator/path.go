package evaluator

// InputPath is an immutable singly linked list recording the sequence of
// keys and array indices walked from the root input to the current value.
// Appending shares the existing tail, so paths can be branched cheaply while
// mapping over arrays.
type InputPath struct {
	prev *InputPath
	step any
}

// EmptyPath is the path of the root input value.
func EmptyPath() *InputPath { return nil }

// Append returns a new path extended with one step. The receiver is not
// modified.
func (p *InputPath) Append(step any) *InputPath {
	return &InputPath{prev: p, step: step}
}

// Slice flattens the path into a root-first slice of steps.
func (p *InputPath) Slice() []any {
	var n int
	for c := p; c != nil; c = c.prev {
		n++
	}
	if n == 0 {
		return nil
	}
	out := make([]any, n)
	for c := p; c != nil; c = c.prev {
		n--
		out[n] = c.step
	}
	return out
}
