package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Chord
	}{
		{"empty is zero chord", "", Chord{}},
		{"whitespace only is zero chord", "   ", Chord{}},
		{"bare key", "F4", Chord{Key: "F4"}},
		{"single modifier", "Ctrl+Q", Chord{Mods: ModCtrl, Key: "Q"}},
		{"two modifiers", "Ctrl+Shift+Q", Chord{Mods: ModCtrl | ModShift, Key: "Q"}},
		{"all modifiers", "Ctrl+Shift+Alt+Win+Z", Chord{Mods: ModCtrl | ModShift | ModAlt | ModWin, Key: "Z"}},
		{"case insensitive tokens", "ctrl+SHIFT+q", Chord{Mods: ModCtrl | ModShift, Key: "Q"}},
		{"control alias", "Control+W", Chord{Mods: ModCtrl, Key: "W"}},
		{"super alias", "Super+L", Chord{Mods: ModWin, Key: "L"}},
		{"meta alias", "Meta+L", Chord{Mods: ModWin, Key: "L"}},
		{"surrounding whitespace", " Ctrl + T ", Chord{Mods: ModCtrl, Key: "T"}},
		{"key uppercased", "Ctrl+left", Chord{Mods: ModCtrl, Key: "LEFT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"modifiers without key", "Ctrl+Shift"},
		{"two keys", "Ctrl+A+B"},
		{"empty token", "Ctrl++Q"},
		{"trailing plus", "Ctrl+Q+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseNormalizesNFC(t *testing.T) {
	// "U" followed by a combining diaeresis must parse to the same chord
	// as the precomposed form.
	composed, err := Parse("Ctrl+Ü")
	require.NoError(t, err)
	decomposed, err := Parse("Ctrl+Ü")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
}

func TestMatch(t *testing.T) {
	chord := Chord{Mods: ModCtrl | ModShift, Key: "Q"}

	tests := []struct {
		name string
		key  string
		held ModMask
		want bool
	}{
		{"exact", "Q", ModCtrl | ModShift, true},
		{"key case folded", "q", ModCtrl | ModShift, true},
		{"extra modifier tolerated", "Q", ModCtrl | ModShift | ModAlt, true},
		{"missing modifier", "Q", ModCtrl, false},
		{"no modifiers", "Q", 0, false},
		{"wrong key", "W", ModCtrl | ModShift, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chord.Match(tt.key, tt.held))
		})
	}
}

func TestZeroChordNeverMatches(t *testing.T) {
	var c Chord
	assert.True(t, c.Zero())
	assert.False(t, c.Match("Q", ModCtrl))
	assert.False(t, c.Match("", 0))
}

func TestChordString(t *testing.T) {
	c := Chord{Mods: ModCtrl | ModShift, Key: "Q"}
	assert.Equal(t, "Ctrl+Shift+Q", c.String())
	assert.Equal(t, "", Chord{}.String())
}
