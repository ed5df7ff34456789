package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestWindowFlags(t *testing.T) {
	flags := windowFlags(Config{})
	assert.NotZero(t, flags&sdl.WINDOW_OPENGL)
	assert.NotZero(t, flags&sdl.WINDOW_RESIZABLE)
	assert.NotZero(t, flags&sdl.WINDOW_ALLOW_HIGHDPI)
	assert.Zero(t, flags&sdl.WINDOW_FULLSCREEN_DESKTOP)

	full := windowFlags(Config{Fullscreen: true})
	assert.Equal(t, uint32(sdl.WINDOW_FULLSCREEN_DESKTOP), full&sdl.WINDOW_FULLSCREEN_DESKTOP)
}
