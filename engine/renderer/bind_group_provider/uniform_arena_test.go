package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformArenaAlignsOffsets(t *testing.T) {
	a := NewUniformArena(4096, 256)

	first, err := a.Push(make([]byte, 100))
	require.NoError(t, err)
	second, err := a.Push([]byte{1, 2, 3})
	require.NoError(t, err)
	third, err := a.Push(make([]byte, 300))
	require.NoError(t, err)

	assert.Equal(t, uint32(0), first)
	assert.Equal(t, uint32(256), second)
	assert.Equal(t, uint32(512), third)
	assert.Equal(t, uint64(812), a.Used())
}

func TestUniformArenaKeepsEachCopy(t *testing.T) {
	a := NewUniformArena(1024, 256)
	block := []byte{7, 7, 7, 7}

	off0, err := a.Push(block)
	require.NoError(t, err)
	block[0] = 9
	off1, err := a.Push(block)
	require.NoError(t, err)

	data := a.Staged()
	require.Len(t, data, int(a.Used()))
	assert.Equal(t, byte(7), data[off0])
	assert.Equal(t, byte(9), data[off1])
}

func TestUniformArenaFull(t *testing.T) {
	a := NewUniformArena(512, 256)

	_, err := a.Push(make([]byte, 200))
	require.NoError(t, err)
	_, err = a.Push(make([]byte, 300))
	assert.ErrorIs(t, err, ErrArenaFull)

	off, err := a.Push(make([]byte, 256))
	require.NoError(t, err, "an exact fit is accepted")
	assert.Equal(t, uint32(256), off)
}

func TestUniformArenaReset(t *testing.T) {
	a := NewUniformArena(1024, 0)
	_, err := a.Push(make([]byte, 10))
	require.NoError(t, err)

	a.Reset()
	assert.Zero(t, a.Used())
	assert.Nil(t, a.Staged())
	assert.Equal(t, uint64(1024), a.Capacity())

	off, err := a.Push(make([]byte, 10))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), off)
}

func TestBindGroupProviderMeshFields(t *testing.T) {
	p := NewBindGroupProvider("cube", WithIndexCount(36))
	assert.Equal(t, "cube", p.Label())
	assert.Equal(t, 36, p.IndexCount())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))

	p.Release()
	assert.Zero(t, p.IndexCount())
}
