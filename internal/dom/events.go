package dom

import "golang.org/x/net/html"

// Event is dispatched to listeners on the target and its ancestors.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	stopped bool
}

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Listener handles a dispatched event.
type Listener func(ev *Event)

// AddEventListener registers fn for events of type typ on n.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) {
	if n == nil || fn == nil {
		return
	}
	byType := d.listeners[n]
	if byType == nil {
		byType = map[string][]Listener{}
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], fn)
}

// ListenerCount returns how many listeners of type typ are registered on n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// TotalListeners returns the number of registered listeners of type typ
// across the document.
func (d *Document) TotalListeners(typ string) int {
	total := 0
	for _, byType := range d.listeners {
		total += len(byType[typ])
	}
	return total
}

// Dispatch fires an event of type typ at target and bubbles it to the
// document root. It returns the number of listeners invoked.
func (d *Document) Dispatch(target *html.Node, typ string) int {
	if target == nil {
		return 0
	}
	ev := &Event{Type: typ, Target: target}
	invoked := 0
	for n := target; n != nil && !ev.stopped; n = n.Parent {
		fns := d.listeners[n][typ]
		if len(fns) == 0 {
			continue
		}
		ev.CurrentTarget = n
		// listeners may re-register while running
		for _, fn := range append([]Listener(nil), fns...) {
			fn(ev)
			invoked++
		}
	}
	return invoked
}

func (d *Document) dropListeners(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.listeners, c)
		return true
	})
}
