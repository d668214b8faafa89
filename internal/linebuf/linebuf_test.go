package linebuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUntilFull(t *testing.T) {
	b := New(make([]byte, 4))

	for i := 0; i < 3; i++ {
		require.True(t, b.Append('a'+byte(i)))
	}
	assert.False(t, b.Append('x'))
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []byte("abc"), b.Bytes())
}

func TestDeleteLast(t *testing.T) {
	data := make([]byte, 8)
	b := New(data)

	b.DeleteLast()
	assert.Equal(t, 0, b.Len())

	b.Append('a')
	b.Append('b')
	b.DeleteLast()
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, byte(0), data[1], "vacated slot is cleared")
	assert.Equal(t, []byte("a"), b.Bytes())
}

func TestTerminateUsesReservedSlot(t *testing.T) {
	b := New(make([]byte, 3))
	b.Append('o')
	b.Append('k')
	require.False(t, b.Append('!'))

	line := b.Terminate()
	assert.Equal(t, []byte{'o', 'k', 0}, line)
	assert.Equal(t, 3, b.Len())
}

func TestClearKeepsMemory(t *testing.T) {
	data := make([]byte, 4)
	b := New(data)
	b.Append('z')
	b.Clear()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Cap())
	assert.Equal(t, byte('z'), data[0])
	assert.True(t, b.Append('y'))
	assert.Equal(t, []byte("y"), b.Bytes())
}
