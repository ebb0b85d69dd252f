package main

// JumpKind distinguishes the four control-flow forms the encoder
// produces: short and near variants of jmp and jnz.
type JumpKind int

const (
	JumpShortJmp JumpKind = iota
	JumpShortJnz
	JumpNearJmp
	JumpNearJnz
)

// BlockKind discriminates the two block variants explicitly, instead of
// the original source's opcode==0 convention.
type BlockKind int

const (
	BlockCode BlockKind = iota
	BlockJump
)

const initialBlockCapacity = 64

// Block is a node in the output's linear sequence: either a code block
// (an opaque, growable byte buffer) or a jump block (a single
// control-flow instruction whose size can still change during
// relaxation). Both variants share address/line; only the fields for
// their own kind are meaningful.
type Block struct {
	Kind    BlockKind
	Address uint64
	Line    int
	Next    *Block

	// Code block fields.
	Bytes []byte

	// Jump block fields.
	JumpOp     JumpKind
	TargetName string // unresolved target, before label binding
	Target     *Block // resolved target, a non-owning reference
	JumpSize   int    // 2 (short), 3/5 (near jmp, 32/64-bit), 4/6 (near jnz, 32/64-bit)
	Disp       int64
	LongMode   bool
}

// Size returns the block's current encoded length.
func (b *Block) Size() int {
	if b.Kind == BlockCode {
		return len(b.Bytes)
	}
	return b.JumpSize
}

// ensureCapacity grows Bytes, doubling from an initial 64, so that at
// least extra more bytes can be appended without further reallocation.
func (b *Block) ensureCapacity(extra int) {
	needed := len(b.Bytes) + extra
	if needed <= cap(b.Bytes) {
		return
	}
	newCap := cap(b.Bytes)
	if newCap == 0 {
		newCap = initialBlockCapacity
	}
	for newCap < needed {
		newCap *= 2
	}
	grown := make([]byte, len(b.Bytes), newCap)
	copy(grown, b.Bytes)
	b.Bytes = grown
}

// AppendBytes writes bs to a code block, growing capacity first so the
// append below never triggers its own reallocation.
func (b *Block) AppendBytes(bs ...byte) {
	b.ensureCapacity(len(bs))
	b.Bytes = append(b.Bytes, bs...)
}

// BlockGraph owns the singly-linked block list. Head is the implicit
// empty code block at address 0; Tail is the block currently being
// written to.
type BlockGraph struct {
	Head *Block
	Tail *Block
}

// NewBlockGraph creates the graph with its head block already in place.
func NewBlockGraph() *BlockGraph {
	head := &Block{Kind: BlockCode}
	return &BlockGraph{Head: head, Tail: head}
}

// MakeRoom implements the make_room(size) allocator protocol: if the
// current block is code with enough capacity, return it; if it's code
// without capacity, grow it; if it's a jump block (immutable in size
// during parse), start a fresh code block after it.
func (g *BlockGraph) MakeRoom(size int) *Block {
	cur := g.Tail
	if cur.Kind == BlockCode {
		cur.ensureCapacity(size)
		return cur
	}
	return g.finalize()
}

// finalize advances the graph into a new, empty code block positioned
// right after the current tail, and returns it.
func (g *BlockGraph) finalize() *Block {
	cur := g.Tail
	next := &Block{Kind: BlockCode, Address: cur.Address + uint64(cur.Size())}
	cur.Next = next
	g.Tail = next
	return next
}

// FinalizeCode finalizes the current block and returns the new empty
// code block that follows it. Used by label definitions.
func (g *BlockGraph) FinalizeCode() *Block {
	return g.finalize()
}

// AppendJump finalizes the current block, appends a new jump block in
// its initial short form, and finalizes again so the next byte starts a
// fresh code block. Returns the jump block so relaxation can find it.
func (g *BlockGraph) AppendJump(kind JumpKind, targetName string, line int, longMode bool) *Block {
	cur := g.Tail
	jb := &Block{
		Kind:       BlockJump,
		Address:    cur.Address + uint64(cur.Size()),
		Line:       line,
		JumpOp:     kind,
		TargetName: targetName,
		JumpSize:   2,
		LongMode:   longMode,
	}
	cur.Next = jb
	g.Tail = jb
	g.finalize()
	return jb
}
