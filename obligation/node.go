// Package obligation implements the action-legality automaton that decides what
// may be performed during a turn phase.
package obligation

import (
	"encoding/binary"
	"io"
	"sort"
	"strings"

	"cattletrail/errs"
)

// Kind identifies a class of performable action, e.g. "move" or "buy-cattle".
type Kind string

// Op tags the variant of a Node.
type Op int

const (
	OpMandatory Op = iota
	OpOptional
	OpChoice
	OpAny
	OpThen
	OpRepeat
	OpWhenThen
)

func (o Op) String() string {
	switch o {
	case OpMandatory:
		return "mandatory"
	case OpOptional:
		return "optional"
	case OpChoice:
		return "choice"
	case OpAny:
		return "any"
	case OpThen:
		return "then"
	case OpRepeat:
		return "repeat"
	case OpWhenThen:
		return "when-then"
	}
	return "unknown"
}

// Node is one obligation in a tree. Which fields are meaningful depends on Op:
//   - Mandatory, Optional: Kind, Done
//   - Choice, Any: Children are the remaining branches, Committed marks Children[0] as engaged
//   - Then: Children[0] must be final before Children[1] becomes active
//   - Repeat: Children[0] is the template, Current the repetition in progress
//   - WhenThen: Kind is "when", Then is "then", Thens counts unlocked thens
//
// Nodes are mutated in place by Perform and Skip.
type Node struct {
	Op        Op      `yaml:"op" json:"op"`
	Kind      Kind    `yaml:"kind,omitempty" json:"kind,omitempty"`
	Then      Kind    `yaml:"then,omitempty" json:"then,omitempty"`
	Children  []*Node `yaml:"children,omitempty" json:"children,omitempty"`
	Current   *Node   `yaml:"current,omitempty" json:"current,omitempty"`
	Committed bool    `yaml:"committed,omitempty" json:"committed,omitempty"`
	AtLeast   int     `yaml:"atLeast,omitempty" json:"atLeast,omitempty"`
	AtMost    int     `yaml:"atMost,omitempty" json:"atMost,omitempty"`
	Thens     int     `yaml:"thens,omitempty" json:"thens,omitempty"`
	Done      bool    `yaml:"done,omitempty" json:"done,omitempty"`
}

// Mandatory must be performed exactly once and cannot be skipped.
func Mandatory(kind Kind) *Node {
	return &Node{Op: OpMandatory, Kind: kind}
}

// Optional may be performed once or skipped.
func Optional(kind Kind) *Node {
	return &Node{Op: OpOptional, Kind: kind}
}

// Choice commits to exactly one of its branches.
func Choice(branches ...*Node) *Node {
	return &Node{Op: OpChoice, Children: branches}
}

// Any requires every branch to be satisfied, in any order.
func Any(branches ...*Node) *Node {
	return &Node{Op: OpAny, Children: branches}
}

// Then activates then once first is final.
func Then(first, then *Node) *Node {
	return &Node{Op: OpThen, Children: []*Node{first, then}}
}

// Repeat allows node to be performed between atLeast and atMost times.
func Repeat(atLeast, atMost int, node *Node) *Node {
	return &Node{Op: OpRepeat, AtLeast: atLeast, AtMost: atMost, Children: []*Node{node}}
}

// WhenThen allows between atLeast and atMost performances of when, each of
// which unlocks one mandatory performance of then.
func WhenThen(atLeast, atMost int, when, then Kind) *Node {
	return &Node{Op: OpWhenThen, AtLeast: atLeast, AtMost: atMost, Kind: when, Then: then}
}

// AnyOf allows each of kinds at most once, in any order.
func AnyOf(kinds ...Kind) *Node {
	branches := make([]*Node, len(kinds))
	for i, k := range kinds {
		branches[i] = Optional(k)
	}
	return Any(branches...)
}

// ChoiceOf allows at most one of kinds.
func ChoiceOf(kinds ...Kind) *Node {
	branches := make([]*Node, len(kinds))
	for i, k := range kinds {
		branches[i] = Optional(k)
	}
	return Choice(branches...)
}

// CanPerform reports whether some currently active leaf accepts kind.
func (n *Node) CanPerform(kind Kind) bool {
	switch n.Op {
	case OpMandatory, OpOptional:
		return !n.Done && n.Kind == kind
	case OpChoice:
		for _, c := range n.Children {
			if c.CanPerform(kind) {
				return true
			}
		}
		return false
	case OpAny:
		if n.Committed {
			return n.Children[0].CanPerform(kind)
		}
		for _, c := range n.Children {
			if c.CanPerform(kind) {
				return true
			}
		}
		return false
	case OpThen:
		return n.active().CanPerform(kind)
	case OpRepeat:
		if n.Current != nil {
			return n.Current.CanPerform(kind)
		}
		return n.AtMost > 0 && n.Children[0].CanPerform(kind)
	case OpWhenThen:
		if kind == n.Then && n.Thens > 0 {
			return true
		}
		return kind == n.Kind && n.AtMost > 0
	}
	return false
}

// Perform consumes the leaf matching kind. It fails with IllegalAction, leaving
// the tree untouched, if kind is not currently performable.
func (n *Node) Perform(kind Kind) error {
	if !n.CanPerform(kind) {
		return errs.WithMetadata(errs.CodeIllegalAction, "illegal action: "+string(kind),
			map[string]string{"kind": string(kind)})
	}
	n.perform(kind)
	return nil
}

// perform assumes CanPerform(kind) holds.
func (n *Node) perform(kind Kind) {
	switch n.Op {
	case OpMandatory, OpOptional:
		n.Done = true
	case OpChoice:
		i := n.indexOf(kind)
		chosen := n.Children[i]
		chosen.perform(kind)
		if chosen.IsFinal() {
			n.Children = nil
			n.Committed = false
		} else {
			n.Children = []*Node{chosen}
			n.Committed = true
		}
	case OpAny:
		i := 0
		if !n.Committed {
			i = n.indexOf(kind)
		}
		element := n.Children[i]
		element.perform(kind)
		rest := make([]*Node, 0, len(n.Children))
		for j, c := range n.Children {
			if j != i {
				rest = append(rest, c)
			}
		}
		if element.IsFinal() {
			n.Children = rest
			n.Committed = false
		} else {
			n.Children = append([]*Node{element}, rest...)
			n.Committed = true
		}
	case OpThen:
		n.active().perform(kind)
	case OpRepeat:
		if n.Current == nil {
			n.AtLeast = max(0, n.AtLeast-1)
			n.AtMost--
			n.Current = n.Children[0].Clone()
		}
		n.Current.perform(kind)
		if n.Current.IsFinal() {
			n.Current = nil
		}
	case OpWhenThen:
		if kind == n.Kind && n.AtMost > 0 {
			n.AtLeast = max(0, n.AtLeast-1)
			n.AtMost--
			n.Thens++
			return
		}
		n.Thens--
	}
}

func (n *Node) indexOf(kind Kind) int {
	for i, c := range n.Children {
		if c.CanPerform(kind) {
			return i
		}
	}
	return -1
}

// Skip discards the unperformed remainder of the tree. It fails with
// SkipNotAllowed, leaving the tree untouched, if a non-skippable obligation remains.
func (n *Node) Skip() error {
	if !n.Skippable() {
		return errs.WithMetadata(errs.CodeSkipNotAllowed, "skip not allowed",
			map[string]string{"remaining": strings.Join(kindsToStrings(n.PossibleActions()), ",")})
	}
	n.skip()
	return nil
}

func (n *Node) skip() {
	switch n.Op {
	case OpMandatory, OpOptional:
		n.Done = true
	case OpChoice, OpAny:
		n.Children = nil
		n.Committed = false
	case OpThen:
		n.Children[0].skip()
		n.Children[1].skip()
	case OpRepeat:
		n.Current = nil
		n.AtMost = 0
	case OpWhenThen:
		n.AtMost = 0
	}
}

// Skippable reports whether Skip would succeed.
func (n *Node) Skippable() bool {
	switch n.Op {
	case OpMandatory:
		return n.Done
	case OpOptional:
		return true
	case OpChoice:
		if n.Committed {
			return n.Children[0].Skippable()
		}
		for _, c := range n.Children {
			if !c.Skippable() {
				return false
			}
		}
		return true
	case OpAny:
		for _, c := range n.Children {
			if !c.Skippable() {
				return false
			}
		}
		return true
	case OpThen:
		return n.Children[0].Skippable() && n.Children[1].Skippable()
	case OpRepeat:
		if n.AtLeast > 0 {
			return false
		}
		return n.Current == nil || n.Current.Skippable()
	case OpWhenThen:
		return n.Thens == 0 && n.AtLeast == 0
	}
	return false
}

// IsFinal reports whether no active leaves remain.
func (n *Node) IsFinal() bool {
	switch n.Op {
	case OpMandatory, OpOptional:
		return n.Done
	case OpChoice, OpAny:
		return len(n.Children) == 0
	case OpThen:
		return n.Children[0].IsFinal() && n.Children[1].IsFinal()
	case OpRepeat:
		return n.Current == nil && n.AtMost <= 0
	case OpWhenThen:
		return n.Thens == 0 && n.AtMost <= 0
	}
	return true
}

// PossibleActions returns the sorted set of kinds currently performable.
func (n *Node) PossibleActions() []Kind {
	set := make(map[Kind]struct{})
	n.collect(set)
	return sortedKinds(set)
}

func (n *Node) collect(set map[Kind]struct{}) {
	switch n.Op {
	case OpMandatory, OpOptional:
		if !n.Done {
			set[n.Kind] = struct{}{}
		}
	case OpChoice:
		for _, c := range n.Children {
			c.collect(set)
		}
	case OpAny:
		if n.Committed {
			n.Children[0].collect(set)
			return
		}
		for _, c := range n.Children {
			c.collect(set)
		}
	case OpThen:
		n.active().collect(set)
	case OpRepeat:
		if n.Current != nil {
			n.Current.collect(set)
		} else if n.AtMost > 0 {
			n.Children[0].collect(set)
		}
	case OpWhenThen:
		if n.AtMost > 0 {
			set[n.Kind] = struct{}{}
		}
		if n.Thens > 0 {
			set[n.Then] = struct{}{}
		}
	}
}

func (n *Node) active() *Node {
	if !n.Children[0].IsFinal() {
		return n.Children[0]
	}
	return n.Children[1]
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	c.Current = n.Current.Clone()
	return &c
}

// Walk calls fn for every kind mentioned anywhere in the tree, performed or not.
func (n *Node) Walk(fn func(Kind)) {
	switch n.Op {
	case OpMandatory, OpOptional:
		fn(n.Kind)
	case OpWhenThen:
		fn(n.Kind)
		fn(n.Then)
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
	if n.Current != nil {
		n.Current.Walk(fn)
	}
}

func (n *Node) String() string {
	var b strings.Builder
	n.format(&b)
	return b.String()
}

func (n *Node) format(b *strings.Builder) {
	b.WriteString(n.Op.String())
	b.WriteByte('(')
	switch n.Op {
	case OpMandatory, OpOptional:
		b.WriteString(string(n.Kind))
		if n.Done {
			b.WriteString(" done")
		}
	case OpWhenThen:
		b.WriteString(string(n.Kind))
		b.WriteString(" -> ")
		b.WriteString(string(n.Then))
	default:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.format(b)
		}
	}
	b.WriteByte(')')
}

// Fingerprint writes every field of the tree that affects what may be
// performed next, so trees with different legal futures write different bytes.
func (n *Node) Fingerprint(w io.Writer) {
	writeInt := func(v int) {
		binary.Write(w, binary.LittleEndian, int64(v))
	}
	writeKind := func(k Kind) {
		writeInt(len(k))
		io.WriteString(w, string(k))
	}
	writeBool := func(b bool) {
		if b {
			writeInt(1)
		} else {
			writeInt(0)
		}
	}

	writeInt(int(n.Op))
	writeKind(n.Kind)
	writeKind(n.Then)
	writeInt(n.AtLeast)
	writeInt(n.AtMost)
	writeInt(n.Thens)
	writeBool(n.Committed)
	writeBool(n.Done)
	writeInt(len(n.Children))
	for _, c := range n.Children {
		c.Fingerprint(w)
	}
	writeBool(n.Current != nil)
	if n.Current != nil {
		n.Current.Fingerprint(w)
	}
}

func sortedKinds(set map[Kind]struct{}) []Kind {
	kinds := make([]Kind, 0, len(set))
	for k := range set {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func kindsToStrings(kinds []Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
