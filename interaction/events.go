// Package interaction publishes user-interaction events (clicks, drags,
// hovers) over the event bus with compile-time-checked payload types.
package interaction

import "github.com/KirkDiggler/gameobject-toolkit/events"

// Package-level keys: every publisher and subscriber for a category must
// share the same key instance, so the categories are minted exactly once
// here.
var (
	KeyClick = events.NewKey("interaction.click")
	KeyDrag  = events.NewKey("interaction.drag")
	KeyHover = events.NewKey("interaction.hover")
)

// ClickEvent is raised when the player clicks or taps an object.
type ClickEvent struct {
	// TargetID identifies the game object hit by the click
	TargetID string

	// X, Y are screen coordinates
	X, Y float64

	// Frame is the frame number the input was sampled on
	Frame uint64
}

// DragEvent is raised while the player drags an object.
type DragEvent struct {
	TargetID string

	// FromX, FromY is where the drag started; X, Y is the current position
	FromX, FromY float64
	X, Y         float64

	// Done marks the final event of the drag gesture
	Done bool

	Frame uint64
}

// HoverEvent is raised when the pointer enters or leaves an object.
type HoverEvent struct {
	TargetID string

	// Entered is true on pointer enter, false on pointer exit
	Entered bool

	Frame uint64
}
