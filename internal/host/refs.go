package host

// WindowRef identifies a top-level host window.
// The zero value means "no window".
type WindowRef struct {
	ID uint64
}

// Valid reports whether the ref points at a window.
func (w WindowRef) Valid() bool { return w.ID != 0 }

// ContainerRef identifies the tab-strip container of one host window.
// The zero value means "no container".
type ContainerRef struct {
	ID uint64
}

// Valid reports whether the ref points at a container.
func (c ContainerRef) Valid() bool { return c.ID != 0 }

// TabRef identifies one tab owned by the host.
//
// TabRef is a stable identity token: it follows the tab as the host moves
// it around the strip. The zero value means "no tab".
type TabRef struct {
	ID uint64
}

// Valid reports whether the ref points at a tab.
func (t TabRef) Valid() bool { return t.ID != 0 }

// Point is a screen coordinate in pixels.
type Point struct {
	X int
	Y int
}

// NoPoint is the sentinel for "no recorded position".
var NoPoint = Point{X: -1, Y: -1}

// Valid reports whether the point carries a real position.
func (p Point) Valid() bool { return p.X >= 0 && p.Y >= 0 }
