package ast

import "testing"

// TestReverseDoubleNegationIsIdentity covers P3: for every CmpTree c,
// c.reverse().reverse() is structurally equal to c.
func TestReverseDoubleNegationIsIdentity(t *testing.T) {
	leaf := func(op CmpOp) CmpTree {
		return Atom(JumpCmp{Op: op, A: Var("a"), B: Var("b")})
	}

	trees := []CmpTree{
		leaf(CmpEqual),
		leaf(CmpLessThan),
		And(leaf(CmpEqual), leaf(CmpNotEqual)),
		Or(leaf(CmpLessThan), leaf(CmpGreaterThanEq)),
		And(Or(leaf(CmpEqual), leaf(CmpLessThan)), leaf(CmpStrictEqual)),
	}

	for _, tree := range trees {
		got := Reverse(Reverse(tree))
		if !cmpTreeEqual(tree, got) {
			t.Errorf("Reverse(Reverse(%#v)) = %#v, want original", tree, got)
		}
	}
}

func cmpTreeEqual(a, b CmpTree) bool {
	switch av := a.(type) {
	case CmpAtomNode:
		bv, ok := b.(CmpAtomNode)
		return ok && av.Cmp == bv.Cmp
	case CmpAndNode:
		bv, ok := b.(CmpAndNode)
		return ok && cmpTreeEqual(av.L, bv.L) && cmpTreeEqual(av.R, bv.R)
	case CmpOrNode:
		bv, ok := b.(CmpOrNode)
		return ok && cmpTreeEqual(av.L, bv.L) && cmpTreeEqual(av.R, bv.R)
	default:
		return false
	}
}

// TestCmpOpReverseInvolution checks every CmpOp's Reverse is its own
// inverse (the leaf step De Morgan builds on).
func TestCmpOpReverseInvolution(t *testing.T) {
	for op := CmpEqual; op <= CmpNotAlways; op++ {
		if got := op.Reverse().Reverse(); got != op {
			t.Errorf("%v.Reverse().Reverse() = %v, want %v", op, got, op)
		}
	}
}
