package events

// Key is an identity token naming an event category.
//
// Routing is by allocation identity, not by label: two keys created with the
// same label are independent channels, and publishers and subscribers for a
// logical category must share the exact same *Key instance. The label exists
// only for logs and diagnostics. This is a deliberate sharp edge — a
// structurally-equal-but-distinct key silently creates a disjoint channel.
type Key struct {
	label string
}

// NewKey allocates a new event key with the given label.
func NewKey(label string) *Key {
	return &Key{label: label}
}

// String returns the key's label for logging.
func (k *Key) String() string {
	if k == nil {
		return "<nil key>"
	}
	return k.label
}
