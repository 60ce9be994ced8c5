package basic

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/item"
	"github.com/Techno-coder/lexica-sub000/internal/node"
)

func TestPushOpensNewNodeOnlyWhenTerminated(t *testing.T) {
	b := NewBuilder(Reversible)
	c := b.component()
	c = b.push(c, NewBinding(errors.Span{}, v("a"), ValueRhs{Value: ItemValue(item.NewUnit())}))
	if c.Entry != c.Exit {
		t.Fatalf("expected push into an open node to stay single-node, got entry=%d exit=%d", c.Entry, c.Exit)
	}

	b.node(c.Exit).SetBranch(Advance, ReturnBranch{})
	c2 := b.push(c, NewBinding(errors.Span{}, v("b"), ValueRhs{Value: ItemValue(item.NewUnit())}))
	if c2.Exit == c.Exit {
		t.Fatalf("expected push after termination to open a new node")
	}
	if len(b.node(c2.Exit).InAdvance) != 1 || len(b.node(c.Exit).InReverse) != 1 {
		t.Fatalf("expected a symmetric advance/reverse edge linking the opened node")
	}
}

func TestJoinCoalescesUnsharedSeam(t *testing.T) {
	b := NewBuilder(Reversible)
	base := b.component()
	base = b.push(base, NewBinding(errors.Span{}, v("a"), ValueRhs{Value: ItemValue(item.NewUnit())}))
	other := b.component()
	other = b.push(other, NewBinding(errors.Span{}, v("b"), ValueRhs{Value: ItemValue(item.NewUnit())}))

	beforeSlots := len(b.slots)
	joined := b.join(base, other, errors.Span{})
	if len(b.slots) != beforeSlots {
		t.Fatalf("coalescing join should not allocate new nodes")
	}
	if !b.tombstoned[other.Entry] {
		t.Fatalf("expected other's entry to be tombstoned after coalescing")
	}
	if len(b.node(joined.Exit).Statements) != 2 {
		t.Fatalf("expected both statements merged into one node, got %d", len(b.node(joined.Exit).Statements))
	}
}

func TestJoinInsertsEdgesWhenSeamIsShared(t *testing.T) {
	b := NewBuilder(Reversible)
	base := b.component()
	other := b.component()
	// Give other's entry an external predecessor so it is not "unshared".
	third := b.component()
	b.link(Advance, third.Entry, other.Entry, errors.Span{})

	joined := b.join(base, other, errors.Span{})
	if joined.Entry != base.Entry || joined.Exit != other.Exit {
		t.Fatalf("expected join to preserve base entry / other exit when linking")
	}
	branch, ok := b.node(base.Exit).Advance.(JumpBranch)
	if !ok || branch.Target != other.Entry {
		t.Fatalf("expected an explicit jump edge from base exit to other entry")
	}
}

func TestInvertSwapsDirectionsAndStatementOrder(t *testing.T) {
	b := NewBuilder(Reversible)
	c := b.component()
	c = b.push(c, NewBinding(errors.Span{}, v("a"), ValueRhs{Value: ItemValue(item.NewUnit())}))
	c = b.push(c, NewBinding(errors.Span{}, v("b"), ValueRhs{Value: ItemValue(item.NewUnit())}))

	firstVar := b.node(c.Exit).Statements[0].(Binding).Variable
	secondVar := b.node(c.Exit).Statements[1].(Binding).Variable

	inverted := b.invert(c)
	if inverted.Entry != c.Exit || inverted.Exit != c.Entry {
		t.Fatalf("expected invert to swap entry/exit")
	}
	stmts := b.node(c.Exit).Statements
	if stmts[0].(Binding).Variable != secondVar || stmts[1].(Binding).Variable != firstVar {
		t.Fatalf("expected statement order reversed in place")
	}
}

func TestFlattenRemapsEdgesAndDropsTombstones(t *testing.T) {
	b := NewBuilder(Reversible)
	base := b.component()
	base = b.push(base, NewBinding(errors.Span{}, v("a"), ValueRhs{Value: ItemValue(item.NewUnit())}))
	other := b.component()
	other = b.push(other, NewBinding(errors.Span{}, v("b"), ValueRhs{Value: ItemValue(item.NewUnit())}))
	joined := b.join(base, other, errors.Span{})
	b.node(joined.Exit).SetBranch(Advance, ReturnBranch{Value: ItemValue(item.NewUnit())})

	nodes := b.Flatten(joined.Entry, joined.Exit)
	entry, exit := b.EntryExit()
	if entry != 0 {
		t.Fatalf("expected flattened entry to be 0, got %d", entry)
	}
	if int(exit) >= len(nodes) {
		t.Fatalf("flattened exit %d out of range of %d nodes", exit, len(nodes))
	}
	for _, n := range nodes {
		for _, target := range n.InAdvance {
			if int(target) >= len(nodes) {
				t.Fatalf("in-edge target %d out of range after flatten", target)
			}
		}
	}
}

func v(name string) node.Variable { return node.NewVariable(name) }
