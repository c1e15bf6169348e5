package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefValidity(t *testing.T) {
	assert.False(t, WindowRef{}.Valid())
	assert.True(t, WindowRef{ID: 1}.Valid())
	assert.False(t, ContainerRef{}.Valid())
	assert.True(t, ContainerRef{ID: 1}.Valid())
	assert.False(t, TabRef{}.Valid())
	assert.True(t, TabRef{ID: 1}.Valid())
}

func TestPointValidity(t *testing.T) {
	assert.False(t, NoPoint.Valid())
	assert.True(t, Point{}.Valid())
	assert.True(t, Point{X: 10, Y: 20}.Valid())
}

func TestCommandStrings(t *testing.T) {
	assert.Equal(t, "move-tab-next", CmdMoveTabNext.String())
	assert.Equal(t, "close-find-bar", CmdCloseFindBar.String())
	assert.Equal(t, "unknown", Command(0).String())
}

func TestKeyStrings(t *testing.T) {
	assert.Equal(t, "mbutton", KeyMiddleButton.String())
	assert.Equal(t, "unknown", Key(0).String())
}
