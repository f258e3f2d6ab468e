package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/stretchr/testify/assert"
)

func TestBlinnToggleIsEdgeTriggered(t *testing.T) {
	k := NewKeyboard()
	assert.False(t, k.BlinnEnabled())

	k.Press(common.KeyB)
	k.Press(common.KeyB) // auto-repeat
	assert.True(t, k.BlinnEnabled())

	k.Release(common.KeyB)
	k.Press(common.KeyB)
	assert.False(t, k.BlinnEnabled())
}

func TestHeldKeys(t *testing.T) {
	k := NewKeyboard(WithBlinn(true), WithBlinnKey(common.KeyP))
	k.Press(common.KeyUp)
	k.Press(common.KeyLeft)
	k.Release(common.KeyUp)

	assert.True(t, k.KeyPressed(common.KeyLeft))
	assert.False(t, k.KeyPressed(common.KeyUp))
	assert.Equal(t, []uint32{common.KeyLeft}, k.Held())
	assert.True(t, k.BlinnEnabled())

	k.Reset()
	assert.Empty(t, k.Held())
}

func TestConcurrentAccess(t *testing.T) {
	k := NewKeyboard()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(key uint32) {
			defer wg.Done()
			for range 100 {
				k.Press(key)
				_ = k.KeyPressed(key)
				k.Release(key)
			}
		}(uint32(common.KeyW + i))
	}
	wg.Wait()
	assert.Empty(t, k.Held())
}
