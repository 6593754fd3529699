package interaction

import "github.com/KirkDiggler/gameobject-toolkit/events"

// Publisher is the typed facade for interaction events. It owns one typed
// adapter per category over a shared bus, and Release is the single
// teardown hook for everything an owner subscribed through it: it
// mass-unsubscribes the owner on the bus and prunes the adapters' handle
// bookkeeping, so no stale entries survive owner teardown.
type Publisher struct {
	bus    *events.Bus
	clicks *events.Typed[ClickEvent]
	drags  *events.Typed[DragEvent]
	hovers *events.Typed[HoverEvent]
}

// NewPublisher creates a publisher over the given bus.
func NewPublisher(bus *events.Bus) *Publisher {
	return &Publisher{
		bus:    bus,
		clicks: events.NewTyped[ClickEvent](bus, KeyClick),
		drags:  events.NewTyped[DragEvent](bus, KeyDrag),
		hovers: events.NewTyped[HoverEvent](bus, KeyHover),
	}
}

// PublishClick delivers evt to all click subscribers.
func (p *Publisher) PublishClick(evt ClickEvent) error {
	return p.clicks.Publish(evt)
}

// PublishDrag delivers evt to all drag subscribers.
func (p *Publisher) PublishDrag(evt DragEvent) error {
	return p.drags.Publish(evt)
}

// PublishHover delivers evt to all hover subscribers.
func (p *Publisher) PublishHover(evt HoverEvent) error {
	return p.hovers.Publish(evt)
}

// SubscribeClick registers fn for click events on behalf of owner and
// returns the handle that removes the registration.
func (p *Publisher) SubscribeClick(owner string, fn func(ClickEvent) error) (*events.Subscription[ClickEvent], error) {
	return p.clicks.Subscribe(owner, fn)
}

// SubscribeDrag registers fn for drag events on behalf of owner.
func (p *Publisher) SubscribeDrag(owner string, fn func(DragEvent) error) (*events.Subscription[DragEvent], error) {
	return p.drags.Subscribe(owner, fn)
}

// SubscribeHover registers fn for hover events on behalf of owner.
func (p *Publisher) SubscribeHover(owner string, fn func(HoverEvent) error) (*events.Subscription[HoverEvent], error) {
	return p.hovers.Subscribe(owner, fn)
}

// UnsubscribeClick removes the click registration behind sub.
func (p *Publisher) UnsubscribeClick(sub *events.Subscription[ClickEvent]) error {
	return p.clicks.Unsubscribe(sub)
}

// UnsubscribeDrag removes the drag registration behind sub.
func (p *Publisher) UnsubscribeDrag(sub *events.Subscription[DragEvent]) error {
	return p.drags.Unsubscribe(sub)
}

// UnsubscribeHover removes the hover registration behind sub.
func (p *Publisher) UnsubscribeHover(sub *events.Subscription[HoverEvent]) error {
	return p.hovers.Unsubscribe(sub)
}

// Release tears down every registration owner made anywhere on the bus
// (not just through this publisher) and drops the owner's handle entries
// from each adapter. Call exactly once at the owner's end-of-life.
func (p *Publisher) Release(owner string) {
	p.bus.UnsubscribeAllForOwner(owner)
	p.clicks.PruneOwner(owner)
	p.drags.PruneOwner(owner)
	p.hovers.PruneOwner(owner)
}
