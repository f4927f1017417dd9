package ssa

// postorder returns the blocks reachable from f.Entry, each after all of its
// successors that were not visited before it.
func postorder(f *Func) []*Block {
	seen := make(map[*Block]bool, len(f.Blocks))
	order := make([]*Block, 0, len(f.Blocks))

	var visit func(b *Block)
	visit = func(b *Block) {
		seen[b] = true
		for _, s := range b.Succs {
			if !seen[s] {
				visit(s)
			}
		}
		order = append(order, b)
	}
	visit(f.Entry)
	return order
}

// ComputeDom sets Block.Idom for every block of f: the immediate dominator
// for reachable blocks, nil for the entry and for unreachable blocks.
//
// It is the iterative algorithm of Cooper, Harvey and Kennedy. The loops
// lowered from for statements have a single back edge, so it settles after
// at most two rounds.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
	}
	if f.Entry == nil {
		return
	}

	po := postorder(f)
	num := make(map[*Block]int, len(po))
	for i, b := range po {
		num[b] = i
	}

	// The entry is its own dominator while iterating, so every walk up the
	// tree stops there. It is last in post-order.
	f.Entry.Idom = f.Entry
	for changed := true; changed; {
		changed = false
		for i := len(po) - 2; i >= 0; i-- {
			b := po[i]
			var idom *Block
			for _, p := range b.Preds {
				switch {
				case p.Idom == nil:
					// not reached yet, or unreachable
				case idom == nil:
					idom = p
				default:
					idom = intersect(num, p, idom)
				}
			}
			if idom != b.Idom {
				b.Idom = idom
				changed = true
			}
		}
	}
	f.Entry.Idom = nil
}

// intersect returns the nearest common dominator of a and b. Dominators
// come later in post-order than the blocks they dominate.
func intersect(num map[*Block]int, a, b *Block) *Block {
	for a != b {
		for num[a] < num[b] {
			a = a.Idom
		}
		for num[b] < num[a] {
			b = b.Idom
		}
	}
	return a
}

// Dominates reports whether a dominates b. ComputeDom must have run.
func Dominates(a, b *Block) bool {
	for ; b != nil; b = b.Idom {
		if b == a {
			return true
		}
	}
	return false
}
