// Package hotkey parses and matches keyboard chords like "Ctrl+Shift+Q".
//
// Chord strings come from the user's settings file, so parsing is
// deliberately forgiving about case and whitespace but strict about
// unknown tokens. Matching is subset-based: every modifier named in
// the chord must be held, extra held modifiers are ignored, and the
// non-modifier key must match exactly.
package hotkey

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ModMask is a bitmask of held modifier keys.
type ModMask uint8

const (
	// ModCtrl is the control key.
	ModCtrl ModMask = 1 << iota
	// ModShift is the shift key.
	ModShift
	// ModAlt is the alt/menu key.
	ModAlt
	// ModWin is the OS/super key.
	ModWin
)

// Has reports whether every bit of want is set in m.
func (m ModMask) Has(want ModMask) bool { return m&want == want }

// Chord is one parsed hotkey: a set of required modifiers plus a single
// non-modifier key token ("Q", "F4", "SPACE", ...).
type Chord struct {
	Mods ModMask
	Key  string
}

// Zero reports whether the chord is empty (feature disabled).
func (c Chord) Zero() bool { return c.Mods == 0 && c.Key == "" }

// Match reports whether a key press satisfies the chord.
// An empty chord never matches.
func (c Chord) Match(key string, held ModMask) bool {
	if c.Zero() || c.Key == "" {
		return false
	}
	if !held.Has(c.Mods) {
		return false
	}
	return strings.EqualFold(key, c.Key)
}

func (c Chord) String() string {
	var parts []string
	if c.Mods.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if c.Mods.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if c.Mods.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if c.Mods.Has(ModWin) {
		parts = append(parts, "Win")
	}
	if c.Key != "" {
		parts = append(parts, c.Key)
	}
	return strings.Join(parts, "+")
}

// Parse decodes a chord string. The empty string parses to the zero chord.
//
// Input is NFC-normalized first: settings files are hand-edited and a
// composed vs decomposed "Ü" must not silently produce a chord that can
// never match the platform's key name.
func Parse(s string) (Chord, error) {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return Chord{}, nil
	}

	var c Chord
	for _, tok := range strings.Split(s, "+") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return Chord{}, fmt.Errorf("empty token in hotkey %q", s)
		}
		switch strings.ToLower(tok) {
		case "ctrl", "control":
			c.Mods |= ModCtrl
		case "shift":
			c.Mods |= ModShift
		case "alt":
			c.Mods |= ModAlt
		case "win", "super", "meta":
			c.Mods |= ModWin
		default:
			if c.Key != "" {
				return Chord{}, fmt.Errorf("hotkey %q names two keys (%s and %s)", s, c.Key, tok)
			}
			c.Key = strings.ToUpper(tok)
		}
	}
	if c.Key == "" {
		return Chord{}, fmt.Errorf("hotkey %q has modifiers but no key", s)
	}
	return c, nil
}
