package basic

import "github.com/Techno-coder/lexica-sub000/internal/errors"

// Component is a transient fragment of basic IR under construction: the
// entry and exit NodeTargets it currently exposes, plus every node target
// allocated for it so far — needed so invert() can flip exactly this
// fragment's nodes without touching siblings (spec.md §3 "Component").
type Component struct {
	Entry NodeTarget
	Exit  NodeTarget
	Nodes []NodeTarget
}

// singleton builds a one-node component.
func singleton(t NodeTarget) Component { return Component{Entry: t, Exit: t, Nodes: []NodeTarget{t}} }

// Builder accumulates BasicNodes for one function's lowering pass and
// applies the composition primitives of spec.md §4.3.2.
type Builder struct {
	reversibility Reversibility
	slots         []BasicNode
	tombstoned    []bool

	entryMapped NodeTarget
	exitMapped  NodeTarget
}

// NewBuilder creates an empty builder for the given reversibility mode.
func NewBuilder(reversibility Reversibility) *Builder {
	return &Builder{reversibility: reversibility}
}

func (b *Builder) node(t NodeTarget) *BasicNode { return &b.slots[t] }

// component allocates a fresh, empty node and returns it as a
// single-node component (spec.md §4.3.2 "component()").
func (b *Builder) component() Component {
	t := NodeTarget(len(b.slots))
	b.slots = append(b.slots, BasicNode{})
	b.tombstoned = append(b.tombstoned, false)
	return singleton(t)
}

// push appends a statement at the component's exit, opening a fresh exit
// node first if the current one is already terminated (spec.md §4.3.2
// "push(component, statement)").
func (b *Builder) push(c Component, stmt Statement) Component {
	exit := b.node(c.Exit)
	if exit.terminated() {
		next := b.component()
		b.link(Advance, c.Exit, next.Entry, stmt.Span())
		if b.reversibility == Reversible {
			b.link(Reverse, next.Entry, c.Exit, stmt.Span())
		}
		c = Component{Entry: c.Entry, Exit: next.Entry, Nodes: append(c.Nodes, next.Entry)}
		exit = b.node(c.Exit)
	}
	exit.Statements = append(exit.Statements, stmt)
	return c
}

// link writes a terminal jump from `from` to `to` on one direction
// (spec.md §4.3.2 "link(direction, base, other, span)"); `span` is
// currently unused by the branch itself but kept for signature symmetry
// with the teacher's diagnostic-carrying composition primitives.
func (b *Builder) link(direction Direction, from, to NodeTarget, _ errors.Span) {
	b.node(from).SetBranch(direction, JumpBranch{Target: to})
	b.node(to).AddInEdge(direction, from)
}

// divergence writes a conditional branch with enumerated discriminant
// targets and a default (spec.md §4.3.2 "divergence(...)").
func (b *Builder) divergence(direction Direction, base NodeTarget, discriminant Value, cases []DivergenceCase, fallback NodeTarget) {
	b.node(base).SetBranch(direction, DivergenceBranch{Discriminant: discriminant, Cases: cases, Default: fallback})
	for _, c := range cases {
		b.node(c.Target).AddInEdge(direction, base)
	}
	b.node(fallback).AddInEdge(direction, base)
}

// join coalesces the base's exit with the other's entry if the seam has
// no external predecessors; otherwise it inserts forward (and, in
// reversible mode, reverse) jump edges between them — both directions are
// always installed in reversible mode so the reverse graph exists without
// post-processing (spec.md §4.3.2 "join").
func (b *Builder) join(base, other Component, span errors.Span) Component {
	baseExit := b.node(base.Exit)
	otherEntry := b.node(other.Entry)
	unshared := len(otherEntry.InAdvance) == 0 && len(otherEntry.InReverse) == 0 &&
		!baseExit.terminated() && base.Exit != other.Entry

	if unshared {
		baseExit.Statements = append(baseExit.Statements, otherEntry.Statements...)
		baseExit.Advance = otherEntry.Advance
		baseExit.Reverse = otherEntry.Reverse
		b.tombstoned[other.Entry] = true

		exit := other.Exit
		if exit == other.Entry {
			exit = base.Exit
		}
		nodes := append(append([]NodeTarget{}, base.Nodes...), other.Nodes[1:]...)
		return Component{Entry: base.Entry, Exit: exit, Nodes: nodes}
	}

	b.link(Advance, base.Exit, other.Entry, span)
	if b.reversibility == Reversible {
		b.link(Reverse, other.Entry, base.Exit, span)
	}
	nodes := append(append([]NodeTarget{}, base.Nodes...), other.Nodes...)
	return Component{Entry: base.Entry, Exit: other.Exit, Nodes: nodes}
}

// invert swaps advance/reverse labels and in-edge lists on every node of
// the component, and reverses each node's statement order, to materialise
// the reverse half of an irreversible control structure (spec.md §4.3.2
// "invert", §9 "Inverting statement order on drop").
func (b *Builder) invert(c Component) Component {
	for _, t := range c.Nodes {
		if b.tombstoned[t] {
			continue
		}
		n := b.node(t)
		n.Advance, n.Reverse = n.Reverse, n.Advance
		n.InAdvance, n.InReverse = n.InReverse, n.InAdvance
		for i, j := 0, len(n.Statements)-1; i < j; i, j = i+1, j-1 {
			n.Statements[i], n.Statements[j] = n.Statements[j], n.Statements[i]
		}
	}
	return Component{Entry: c.Exit, Exit: c.Entry, Nodes: c.Nodes}
}

// Flatten walks every allocated node, drops tombstoned slots, assigns
// dense indices preserving allocation order, and rewrites every
// NodeTarget through the resulting mapping (spec.md §4.3.5 "Flattening").
func (b *Builder) Flatten(entry, exit NodeTarget) []BasicNode {
	nodes, mapping := b.flattenMapping()
	for i := range nodes {
		nodes[i].Advance = remapBranch(nodes[i].Advance, mapping)
		nodes[i].Reverse = remapBranch(nodes[i].Reverse, mapping)
		nodes[i].InAdvance = remapTargets(nodes[i].InAdvance, mapping)
		nodes[i].InReverse = remapTargets(nodes[i].InReverse, mapping)
	}
	b.entryMapped, b.exitMapped = mapping[entry], mapping[exit]
	return nodes
}

// entryMapped/exitMapped cache the remapped entry/exit after Flatten, so
// callers don't need to keep the mapping around themselves.
func (b *Builder) EntryExit() (NodeTarget, NodeTarget) { return b.entryMapped, b.exitMapped }

func (b *Builder) flattenMapping() ([]BasicNode, map[NodeTarget]NodeTarget) {
	mapping := make(map[NodeTarget]NodeTarget, len(b.slots))
	nodes := make([]BasicNode, 0, len(b.slots))
	for old := 0; old < len(b.slots); old++ {
		if b.tombstoned[old] {
			continue
		}
		mapping[NodeTarget(old)] = NodeTarget(len(nodes))
		nodes = append(nodes, b.slots[old])
	}
	return nodes, mapping
}

func remapBranch(branch Branch, mapping map[NodeTarget]NodeTarget) Branch {
	switch b := branch.(type) {
	case nil:
		return nil
	case JumpBranch:
		return JumpBranch{Target: mapping[b.Target]}
	case DivergenceBranch:
		cases := make([]DivergenceCase, len(b.Cases))
		for i, c := range b.Cases {
			cases[i] = DivergenceCase{Match: c.Match, Target: mapping[c.Target]}
		}
		return DivergenceBranch{Discriminant: b.Discriminant, Cases: cases, Default: mapping[b.Default]}
	default:
		return branch
	}
}

func remapTargets(targets []NodeTarget, mapping map[NodeTarget]NodeTarget) []NodeTarget {
	if targets == nil {
		return nil
	}
	out := make([]NodeTarget, len(targets))
	for i, t := range targets {
		out[i] = mapping[t]
	}
	return out
}
