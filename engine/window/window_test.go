package window

import (
	"testing"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow()

	assert.Equal(t, "tellurion", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, DefaultMinWidth, w.minWidth)
	assert.Equal(t, DefaultMinHeight, w.minHeight)
	assert.NotNil(t, w.keys)
	assert.False(t, w.IsRunning(), "no platform window is open")
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestMinSizeOption(t *testing.T) {
	t.Run("overrides the floor", func(t *testing.T) {
		w := newEngineWindow(WithMinSize(640, 480))
		assert.Equal(t, 640, w.minWidth)
		assert.Equal(t, 480, w.minHeight)
	})

	t.Run("zero keeps the default", func(t *testing.T) {
		w := newEngineWindow(WithMinSize(0, 0))
		assert.Equal(t, DefaultMinWidth, w.minWidth)
		assert.Equal(t, DefaultMinHeight, w.minHeight)
	})

	t.Run("initial size is raised to the floor", func(t *testing.T) {
		w := newEngineWindow(WithSize(100, 900), WithMinSize(640, 480))
		assert.Equal(t, 640, w.Width())
		assert.Equal(t, 900, w.Height())
	})
}

func TestDispatchKey(t *testing.T) {
	w := newEngineWindow()
	var downs []uint32
	w.SetKeyDownCallback(func(key uint32) { downs = append(downs, key) })

	w.dispatchKey(common.KeyW, true)
	assert.True(t, w.KeyPressed(common.KeyW))

	w.dispatchKey(common.KeyB, true)
	assert.True(t, w.BlinnEnabled())

	w.dispatchKey(common.KeyW, false)
	assert.False(t, w.KeyPressed(common.KeyW))
	assert.Equal(t, []uint32{common.KeyW, common.KeyB}, downs, "releases are not forwarded")
}

func TestFramebufferResizedIgnoresMinimize(t *testing.T) {
	w := newEngineWindow()
	var calls [][2]int
	w.SetResizeCallback(func(width, height int) { calls = append(calls, [2]int{width, height}) })

	w.framebufferResized(1024, 768)
	w.framebufferResized(0, 0)

	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
	assert.Equal(t, [][2]int{{1024, 768}}, calls)
}
