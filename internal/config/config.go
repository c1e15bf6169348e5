// Package config loads and validates tabfling settings.
//
// Settings come from a single YAML file. The raw document is validated
// against an embedded CUE schema before decoding, so a typo'd mode string
// or a misspelled key fails loudly at startup instead of silently leaving
// a feature disabled.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DragNewTabMode selects what happens to a tab the host creates after a
// drag-out of the tab strip.
type DragNewTabMode int

const (
	// DragNewTabOff leaves drag-created tabs wherever the host puts them.
	DragNewTabOff DragNewTabMode = iota
	// DragNewTabMoveToEnd relocates the new tab to the end of the strip.
	DragNewTabMoveToEnd
	// DragNewTabMoveAndRestore relocates the new tab to the end and then
	// re-selects the tab that was selected before the drag.
	DragNewTabMoveAndRestore
)

// Enabled reports whether the drag-to-new-tab engine should run at all.
func (m DragNewTabMode) Enabled() bool {
	return m == DragNewTabMoveToEnd || m == DragNewTabMoveAndRestore
}

func (m DragNewTabMode) String() string {
	switch m {
	case DragNewTabMoveToEnd:
		return "move-to-end"
	case DragNewTabMoveAndRestore:
		return "move-and-restore"
	default:
		return "off"
	}
}

// UnmarshalYAML decodes the mode from its string form.
func (m *DragNewTabMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "off", "":
		*m = DragNewTabOff
	case "move-to-end":
		*m = DragNewTabMoveToEnd
	case "move-and-restore":
		*m = DragNewTabMoveAndRestore
	default:
		return fmt.Errorf("invalid drag_new_tab mode %q", s)
	}
	return nil
}

// NewTabDisposition selects whether an intercepted open lands in a
// foreground or background tab. Used by both the bookmark-click and
// open-URL interceptors.
type NewTabDisposition int

const (
	// NewTabOff disables the interception.
	NewTabOff NewTabDisposition = iota
	// NewTabForeground opens in a new tab and switches to it.
	NewTabForeground
	// NewTabBackground opens in a new tab without switching.
	NewTabBackground
)

func (d NewTabDisposition) String() string {
	switch d {
	case NewTabForeground:
		return "foreground"
	case NewTabBackground:
		return "background"
	default:
		return "off"
	}
}

// UnmarshalYAML decodes the disposition from its string form.
func (d *NewTabDisposition) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "off", "":
		*d = NewTabOff
	case "foreground":
		*d = NewTabForeground
	case "background":
		*d = NewTabBackground
	default:
		return fmt.Errorf("invalid new-tab disposition %q", s)
	}
	return nil
}

// Settings is the full tabfling configuration.
//
// The engine reads settings once per decision point (not once per
// session), so a reload between a drop and its poll cycle lands
// mid-session and can stop the cycle.
type Settings struct {
	// DoubleClickClose closes a tab on double-click.
	DoubleClickClose bool `yaml:"double_click_close"`

	// RightClickClose closes a tab on right-click (Shift shows the menu).
	RightClickClose bool `yaml:"right_click_close"`

	// KeepLastTab preserves the window when its last tab would close.
	KeepLastTab bool `yaml:"keep_last_tab"`

	// WheelTab switches tabs with the wheel over the tab strip.
	WheelTab bool `yaml:"wheel_tab"`

	// WheelTabWhenPressRightButton switches tabs with the wheel anywhere
	// while the right button is held.
	WheelTabWhenPressRightButton bool `yaml:"wheel_tab_when_press_right_button"`

	// DragNewTab is the drag-to-new-tab reordering mode.
	DragNewTab DragNewTabMode `yaml:"drag_new_tab"`

	// BookmarkNewTab intercepts bookmark clicks.
	BookmarkNewTab NewTabDisposition `yaml:"bookmark_new_tab"`

	// OpenURLNewTab intercepts Enter in the omnibox.
	OpenURLNewTab NewTabDisposition `yaml:"open_url_new_tab"`

	// BossKey hides/shows all host windows and mutes/unmutes audio.
	// Empty disables the feature. Format: "Ctrl+Shift+Q".
	BossKey string `yaml:"boss_key"`

	// TranslateKey opens the translate pane. Empty disables.
	TranslateKey string `yaml:"translate_key"`

	// SwitchToPrevTabKey / SwitchToNextTabKey are global tab-switch chords.
	SwitchToPrevTabKey string `yaml:"switch_to_prev_tab_key"`
	SwitchToNextTabKey string `yaml:"switch_to_next_tab_key"`

	// JournalPath is the SQLite journal location. Empty disables journaling.
	JournalPath string `yaml:"journal_path"`
}

// Source yields the current settings. The engine holds a Source rather
// than a Settings value so configuration can change under a live session.
type Source interface {
	Current() Settings
}

// Static is a Source that always returns the same settings.
type Static Settings

// Current implements Source.
func (s Static) Current() Settings { return Settings(s) }

// Load reads, validates, and decodes a settings file.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes a raw YAML settings document.
func Parse(raw []byte) (Settings, error) {
	if err := Validate(raw); err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}
