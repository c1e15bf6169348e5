package host

// Command identifies one host command the Issuer can execute.
//
// Commands are fire-and-forget: the host offers no acknowledgment channel,
// so callers that care about the outcome must re-query the Probe afterwards.
type Command int

const (
	// CmdSelectPreviousTab selects the tab left of the current selection.
	CmdSelectPreviousTab Command = iota + 1
	// CmdSelectNextTab selects the tab right of the current selection.
	CmdSelectNextTab
	// CmdMoveTabNext moves the selected tab exactly one position toward
	// the end of the strip. The host has no batched move primitive.
	CmdMoveTabNext
	// CmdNewTab opens a new tab.
	CmdNewTab
	// CmdCloseTab closes the selected tab.
	CmdCloseTab
	// CmdCloseOtherTabs closes every tab except the selected one.
	CmdCloseOtherTabs
	// CmdCloseFindBar dismisses the find-in-page bar (or stops loading).
	CmdCloseFindBar
	// CmdToggleFullscreen enters or leaves fullscreen.
	CmdToggleFullscreen
	// CmdShowTranslate opens the host's translate pane.
	CmdShowTranslate
)

var commandNames = map[Command]string{
	CmdSelectPreviousTab: "select-previous-tab",
	CmdSelectNextTab:     "select-next-tab",
	CmdMoveTabNext:       "move-tab-next",
	CmdNewTab:            "new-tab",
	CmdCloseTab:          "close-tab",
	CmdCloseOtherTabs:    "close-other-tabs",
	CmdCloseFindBar:      "close-find-bar",
	CmdToggleFullscreen:  "toggle-fullscreen",
	CmdShowTranslate:     "show-translate",
}

// String returns the stable wire name of the command.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Key is a synthetic input key code for Issuer.SendKeys.
// Only the keys tabfling actually synthesizes are named.
type Key int

const (
	// KeyMiddleButton synthesizes a middle mouse click at the pointer.
	KeyMiddleButton Key = iota + 1
	// KeyShift is the shift modifier, held across the rest of the sequence.
	KeyShift
	// KeyAlt is the alt modifier, held across the rest of the sequence.
	KeyAlt
	// KeyEnter is the return key.
	KeyEnter
	// KeyRight is the right-arrow key.
	KeyRight
)

var keyNames = map[Key]string{
	KeyMiddleButton: "mbutton",
	KeyShift:        "shift",
	KeyAlt:          "alt",
	KeyEnter:        "enter",
	KeyRight:        "right",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Issuer executes host commands and synthesizes input.
//
// Execute and SendKeys are best-effort. SelectTab returns the host's
// immediate accept/reject, but even an accepted select may be overridden
// by the host's own focus handling - success is verified by re-querying
// the Probe, never trusted from the return value alone.
//
// All methods are called from the single dispatch goroutine.
type Issuer interface {
	// Execute runs one command against a window.
	Execute(cmd Command, win WindowRef)

	// SelectTab asks the host to select a specific tab.
	SelectTab(tab TabRef) bool

	// SendKeys injects a synthetic key sequence, tagged so the input hook
	// does not loop on events tabfling generated itself.
	SendKeys(keys ...Key)
}
