package obligation

import "cattletrail/errs"

// Stack holds the obligation trees of the current turn. Only the head tree is
// active. Immediate trees, produced as a direct consequence of an action, take
// priority over everything else.
type Stack struct {
	Immediate []*Node `yaml:"immediate,omitempty" json:"immediate,omitempty"`
	Trees     []*Node `yaml:"trees,omitempty" json:"trees,omitempty"`
}

// NewStack creates a stack with trees in the given order, the first being the head.
func NewStack(trees ...*Node) *Stack {
	s := &Stack{}
	s.Push(trees...)
	return s
}

// Push puts trees on top of the stack, keeping their order.
func (s *Stack) Push(trees ...*Node) {
	s.Trees = prepend(s.Trees, trees)
}

// PushImmediate puts trees on top of the immediate queue, keeping their order.
func (s *Stack) PushImmediate(trees ...*Node) {
	s.Immediate = prepend(s.Immediate, trees)
}

func prepend(list, trees []*Node) []*Node {
	fresh := make([]*Node, 0, len(list)+len(trees))
	for _, t := range trees {
		if t != nil && !t.IsFinal() {
			fresh = append(fresh, t)
		}
	}
	return append(fresh, list...)
}

func (s *Stack) head() *Node {
	for _, t := range s.Immediate {
		if !t.IsFinal() {
			return t
		}
	}
	for _, t := range s.Trees {
		if !t.IsFinal() {
			return t
		}
	}
	return nil
}

// IsEmpty reports whether nothing remains to be performed.
func (s *Stack) IsEmpty() bool {
	return s.head() == nil
}

// CanPerform reports whether the head tree accepts kind.
func (s *Stack) CanPerform(kind Kind) bool {
	h := s.head()
	return h != nil && h.CanPerform(kind)
}

// PossibleActions returns the kinds performable on the head tree.
func (s *Stack) PossibleActions() []Kind {
	h := s.head()
	if h == nil {
		return nil
	}
	return h.PossibleActions()
}

// Perform performs kind on the head tree.
func (s *Stack) Perform(kind Kind) error {
	h := s.head()
	if h == nil {
		return errs.WithMetadata(errs.CodeIllegalAction, "illegal action: "+string(kind)+" (nothing to perform)",
			map[string]string{"kind": string(kind)})
	}
	if err := h.Perform(kind); err != nil {
		return err
	}
	s.prune()
	return nil
}

// Skip skips the head tree.
func (s *Stack) Skip() error {
	h := s.head()
	if h == nil {
		return errs.New(errs.CodeSkipNotAllowed, "skip not allowed: nothing to skip")
	}
	if err := h.Skip(); err != nil {
		return err
	}
	s.prune()
	return nil
}

// Skippable reports whether every remaining tree could be skipped.
func (s *Stack) Skippable() bool {
	for _, t := range s.Immediate {
		if !t.Skippable() {
			return false
		}
	}
	for _, t := range s.Trees {
		if !t.Skippable() {
			return false
		}
	}
	return true
}

// Clear discards all remaining trees.
func (s *Stack) Clear() {
	s.Immediate = nil
	s.Trees = nil
}

func (s *Stack) prune() {
	s.Immediate = dropFinal(s.Immediate)
	s.Trees = dropFinal(s.Trees)
}

func dropFinal(list []*Node) []*Node {
	out := list[:0]
	for _, t := range list {
		if !t.IsFinal() {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone returns a deep copy of the stack.
func (s *Stack) Clone() *Stack {
	c := &Stack{}
	for _, t := range s.Immediate {
		c.Immediate = append(c.Immediate, t.Clone())
	}
	for _, t := range s.Trees {
		c.Trees = append(c.Trees, t.Clone())
	}
	return c
}
