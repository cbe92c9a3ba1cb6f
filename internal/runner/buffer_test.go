package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockChain_AllocateGrowsOnlyWhenFull(t *testing.T) {
	var c blockChain

	buf := c.allocate()
	require.Len(t, buf, blockSize)
	c.commit(10)

	buf2 := c.allocate()
	assert.Same(t, c.head, c.tail, "a partially-filled block should be reused")
	assert.Len(t, buf2, blockSize-10)
}

func TestBlockChain_AllocateAppendsNewBlockWhenFull(t *testing.T) {
	var c blockChain

	c.allocate()
	c.commit(blockSize)

	first := c.tail
	c.allocate()
	c.commit(1)

	assert.NotSame(t, first, c.tail)
	assert.Same(t, first, c.head)
	assert.Same(t, first.next, c.tail)
}

func TestBlockChain_BytesConcatenatesInOrder(t *testing.T) {
	var c blockChain

	buf := c.allocate()
	copy(buf, []byte("hello "))
	c.commit(6)

	buf2 := c.allocate()
	copy(buf2, []byte("world"))
	c.commit(5)

	assert.Equal(t, "hello world", string(c.bytes()))
	assert.Equal(t, int64(11), c.length())
}

func TestBlockChain_EmptyChainYieldsEmptyBytes(t *testing.T) {
	var c blockChain
	assert.Empty(t, c.bytes())
	assert.Zero(t, c.length())
}
