package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lightmap-viewer/internal/engine/camera"
)

// Bindings maps camera movement to keys.
type Bindings struct {
	Forward  []sdl.Scancode
	Backward []sdl.Scancode
	Left     []sdl.Scancode
	Right    []sdl.Scancode
}

// ParseBindings resolves SDL key names ("Up", "W", ...) for each direction.
func ParseBindings(forward, backward, left, right []string) (Bindings, error) {
	var b Bindings
	var err error
	if b.Forward, err = scancodes(forward); err != nil {
		return b, err
	}
	if b.Backward, err = scancodes(backward); err != nil {
		return b, err
	}
	if b.Left, err = scancodes(left); err != nil {
		return b, err
	}
	if b.Right, err = scancodes(right); err != nil {
		return b, err
	}
	return b, nil
}

func scancodes(names []string) ([]sdl.Scancode, error) {
	out := make([]sdl.Scancode, 0, len(names))
	for _, n := range names {
		sc := sdl.GetScancodeFromName(n)
		if sc == sdl.SCANCODE_UNKNOWN {
			return nil, fmt.Errorf("unknown key name %q", n)
		}
		out = append(out, sc)
	}
	return out, nil
}

// Controls builds this frame's camera input. Mouse look is only reported
// while look is true, so an uncaptured cursor does not turn the camera.
func (i *Input) Controls(b Bindings, look bool) camera.Controls {
	ctl := camera.Controls{
		Forward:  i.anyHeld(b.Forward),
		Backward: i.anyHeld(b.Backward),
		Left:     i.anyHeld(b.Left),
		Right:    i.anyHeld(b.Right),
	}
	if look {
		ctl.LookX = float32(i.mouseDX)
		ctl.LookY = float32(i.mouseDY)
	}
	return ctl
}

func (i *Input) anyHeld(keys []sdl.Scancode) bool {
	for _, k := range keys {
		if i.held[k] {
			return true
		}
	}
	return false
}
