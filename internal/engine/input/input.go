// Package input turns SDL events into viewer events plus per-frame key and
// mouse state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventFocusLost
)

// Event is one SDL event reduced to the fields the viewer reads.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Button uint8
}

// Input collects the events of one frame and tracks which keys are down.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	mouseDX int
	mouseDY int
}

// New creates an input handler with no keys down.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update drains the SDL event queue. It returns true when the window asked to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.mouseDX, i.mouseDY = 0, 0

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if i.handle(ev) {
			return true
		}
	}
	return false
}

// handle folds one SDL event into the frame state and reports a quit request.
func (i *Input) handle(ev sdl.Event) bool {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true
	case *sdl.WindowEvent:
		i.handleWindow(e)
	case *sdl.KeyboardEvent:
		i.handleKey(e)
	case *sdl.MouseMotionEvent:
		i.mouseDX += int(e.XRel)
		i.mouseDY += int(e.YRel)
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			RelX:   int(e.XRel),
			RelY:   int(e.YRel),
		})
	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		i.events = append(i.events, Event{
			Type:   t,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		})
	}
	return false
}

func (i *Input) handleWindow(e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
		i.events = append(i.events, Event{
			Type:   EventWindowResize,
			Width:  int(e.Data1),
			Height: int(e.Data2),
		})
	case sdl.WINDOWEVENT_FOCUS_LOST:
		// Keys released while unfocused never send KEYUP.
		clear(i.held)
		i.events = append(i.events, Event{Type: EventFocusLost})
	}
}

func (i *Input) handleKey(e *sdl.KeyboardEvent) {
	sc := e.Keysym.Scancode
	switch e.Type {
	case sdl.KEYDOWN:
		i.held[sc] = true
		i.events = append(i.events, Event{Type: EventKeyDown, Key: sc, Repeat: e.Repeat != 0})
	case sdl.KEYUP:
		delete(i.held, sc)
		i.events = append(i.events, Event{Type: EventKeyUp, Key: sc})
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports a fresh (non-repeat) press of scancode this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && !e.Repeat && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// MouseDelta returns the relative mouse motion accumulated during the last Update.
func (i *Input) MouseDelta() (int, int) {
	return i.mouseDX, i.mouseDY
}
