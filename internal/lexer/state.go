package lexer

// State is a scanner mode. Exactly one state is active: the top of the stack.
type State uint8

const (
	// StateRoot is the initial state and the bottom of the stack.
	StateRoot State = iota
	// StateCommentMulti is inside "(* ... *)".
	StateCommentMulti
	// StateString is inside a double-quoted literal.
	StateString
	// StateChar is inside a single-quoted literal.
	StateChar
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "root"
	case StateCommentMulti:
		return "comment_multi"
	case StateString:
		return "string"
	case StateChar:
		return "char"
	default:
		return "unknown"
	}
}

// stateStack never becomes empty; StateRoot stays at index 0.
type stateStack []State

func newStateStack() stateStack {
	s := make(stateStack, 1, 4)
	s[0] = StateRoot
	return s
}

func (s stateStack) top() State { return s[len(s)-1] }

func (s *stateStack) push(st State) { *s = append(*s, st) }

// pop is a no-op at the root.
func (s *stateStack) pop() {
	if len(*s) > 1 {
		*s = (*s)[:len(*s)-1]
	}
}
