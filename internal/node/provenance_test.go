package node

import (
	"testing"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
	"github.com/Techno-coder/lexica-sub000/internal/path"
)

func TestStableIDIsDeterministicForIdenticalInput(t *testing.T) {
	fp := path.Function(path.New(path.RootCrate, nil, "f"))
	fc := NewFunctionContext(fp, nil, nil, nil)
	span := errors.Span{SourceID: "f.lxc", Start: 3, End: 9}
	key := fc.Alloc(IntegerLiteral{base: NewBase(span), Value: 7})

	other := NewFunctionContext(fp, nil, nil, nil)
	otherKey := other.Alloc(IntegerLiteral{base: NewBase(span), Value: 7})

	if fc.StableID(key) != other.StableID(otherKey) {
		t.Errorf("identical function/span/kind/position produced different stable IDs")
	}
}

func TestStableIDDiffersAcrossKind(t *testing.T) {
	fp := path.Function(path.New(path.RootCrate, nil, "f"))
	fc := NewFunctionContext(fp, nil, nil, nil)
	span := errors.Span{SourceID: "f.lxc", Start: 0, End: 1}

	intKey := fc.Alloc(IntegerLiteral{base: NewBase(span), Value: 0})
	truthKey := fc.Alloc(TruthLiteral{base: NewBase(span), Value: false})

	if fc.StableID(intKey) == fc.StableID(truthKey) {
		t.Errorf("distinct expression kinds at the same span collided")
	}
}

func TestStableIDSurvivesReplace(t *testing.T) {
	fp := path.Function(path.New(path.RootCrate, nil, "f"))
	fc := NewFunctionContext(fp, nil, nil, nil)
	span := errors.Span{SourceID: "f.lxc", Start: 0, End: 1}
	key := fc.Alloc(IntegerLiteral{base: NewBase(span), Value: 0})

	before := fc.StableID(key)
	fc.Replace(key, ItemLiteral{base: NewBase(span)})
	after := fc.StableID(key)

	if before != after {
		t.Errorf("StableID changed across Replace: %s -> %s, want unchanged", before, after)
	}
}
