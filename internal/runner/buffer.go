package runner

// blockSize is the fixed capacity of a single block in a blockChain, in
// bytes. Chosen to match a typical pipe read quantum so that a single
// Read rarely spans more than one block.
const blockSize = 16 * 1024

// block is a fixed-capacity byte buffer. Only data[:used] is valid.
// Blocks are never reallocated or resized; a full block is left in
// place and a new one is appended.
type block struct {
	data [blockSize]byte
	used int
	next *block
}

// free returns the unwritten suffix of the block.
func (b *block) free() []byte {
	return b.data[b.used:]
}

// blockChain is an append-only singly linked list of blocks that
// captures a writable pipe's output without ever reallocating or
// copying already-written bytes: a growable byte sink whose addresses,
// once handed out by allocate, stay valid until the whole chain is
// discarded.
type blockChain struct {
	head *block
	tail *block
}

// allocate returns a slice into the tail block's free space, appending
// a fresh block first if the tail is full or the chain is empty. The
// returned slice must be passed to commit with the number of bytes
// actually written before the next call to allocate.
func (c *blockChain) allocate() []byte {
	if c.tail == nil || len(c.tail.free()) == 0 {
		b := &block{}
		if c.tail == nil {
			c.head = b
		} else {
			c.tail.next = b
		}
		c.tail = b
	}
	return c.tail.free()
}

// commit advances the tail block's used count by n, which must be the
// number of bytes written into the slice most recently returned by
// allocate.
func (c *blockChain) commit(n int) {
	c.tail.used += n
}

// length returns the total number of bytes committed across the
// chain.
func (c *blockChain) length() int64 {
	var total int64
	for b := c.head; b != nil; b = b.next {
		total += int64(b.used)
	}
	return total
}

// bytes concatenates every block's committed content, in chain order,
// into a single contiguous slice.
func (c *blockChain) bytes() []byte {
	out := make([]byte, 0, c.length())
	for b := c.head; b != nil; b = b.next {
		out = append(out, b.data[:b.used]...)
	}
	return out
}
