package engine

import (
	"github.com/roach88/tabfling/internal/host"
	"github.com/roach88/tabfling/internal/hotkey"
)

// Button identifies a pointer button.
type Button int

const (
	// ButtonNone means no button is associated with the event.
	ButtonNone Button = iota
	// ButtonLeft is the primary button.
	ButtonLeft
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonMiddle is the wheel button.
	ButtonMiddle
)

// PointerKind classifies a pointer event.
type PointerKind int

const (
	// PointerMove is a cursor move, with or without buttons held.
	PointerMove PointerKind = iota + 1
	// PointerDown is a button press.
	PointerDown
	// PointerUp is a button release.
	PointerUp
	// PointerDoubleClick is the platform's double-click notification.
	PointerDoubleClick
	// PointerWheel is a wheel rotation.
	PointerWheel
)

// ButtonMask records which buttons are held at event time.
type ButtonMask uint8

const (
	// HeldLeft means the primary button is down.
	HeldLeft ButtonMask = 1 << iota
	// HeldRight means the secondary button is down.
	HeldRight
	// HeldMiddle means the wheel button is down.
	HeldMiddle
)

// Has reports whether every bit of want is set.
func (m ButtonMask) Has(want ButtonMask) bool { return m&want == want }

// PointerEvent is one classified pointer event from the platform hook.
//
// Events tagged Synthetic were generated by tabfling's own Issuer.SendKeys
// and must pass through untouched, or the hook would loop on itself.
type PointerEvent struct {
	Kind       PointerKind
	Button     Button
	Point      host.Point
	WheelDelta int // positive rotates away from the user
	Held       ButtonMask
	Mods       hotkey.ModMask
	Synthetic  bool
}

// KeyEvent is one key press from the platform hook. Only presses are
// delivered; releases never reach the engine.
type KeyEvent struct {
	// Key is the platform key name, normalized to upper case ("W", "F4",
	// "ENTER").
	Key string
	// Mods is the modifier state at press time.
	Mods hotkey.ModMask
	// Synthetic marks key events tabfling injected itself.
	Synthetic bool
}
