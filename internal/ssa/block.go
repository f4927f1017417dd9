package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota // not yet terminated
	BlockPlain                    // unconditional jump to Succs[0]
	BlockIf                       // conditional branch: if Controls[0] then Succs[0] else Succs[1]
	BlockReturn                   // function return; Controls[0] = return value (absent for void)
)

// blockKindNames maps BlockKind to its string representation.
var blockKindNames = [...]string{
	BlockInvalid: "open",
	BlockPlain:   "plain",
	BlockIf:      "if",
	BlockReturn:  "ret",
}

// String returns the string representation of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block represents a basic block in the control flow graph.
// A block contains a sequence of non-branching Values, followed by
// a terminator indicated by its Kind.
type Block struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Kind describes how this block terminates.
	Kind BlockKind

	// Hint names the block's role ("then", "else", "end", "loop").
	Hint string

	// Controls holds the terminator's operand values.
	// For BlockIf: Controls[0] = branch condition (bool).
	// For BlockReturn: Controls[0] = return value, or empty for void.
	Controls []*Value

	// Succs lists the successor blocks in the CFG.
	// For BlockPlain: Succs[0] = target.
	// For BlockIf: Succs[0] = then, Succs[1] = else.
	Succs []*Block

	// Preds lists the predecessor blocks in the CFG.
	Preds []*Block

	// Values is the ordered list of values computed in this block.
	Values []*Value

	// Func is the function containing this block.
	Func *Func

	// Idom is the immediate dominator, set by ComputeDom.
	Idom *Block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// Terminated reports whether the block has its control transfer.
func (b *Block) Terminated() bool {
	return b.Kind != BlockInvalid
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch/return control value.
func (b *Block) SetControl(v *Value) {
	b.Controls = []*Value{v}
	v.Uses++
}

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }

// NumValues returns the number of values in this block.
func (b *Block) NumValues() int { return len(b.Values) }
