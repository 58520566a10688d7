// Package scroll performs the scroll action fired by the gesture pipeline.
//
// The trigger core never touches the OS; it only emits a fire decision. The
// pipeline forwards that decision here through the Scroller interface, so
// tests and headless deployments can swap in their own action.
package scroll

// Scroller executes one scroll gesture. amount is the configured scroll
// payload; positive scrolls up.
type Scroller interface {
	Scroll(amount int) error
}

// Func adapts a plain function to the Scroller interface.
type Func func(amount int) error

// Scroll calls f.
func (f Func) Scroll(amount int) error {
	return f(amount)
}

// Nop discards scroll actions. Used for --dry-run.
type Nop struct{}

// Scroll does nothing.
func (Nop) Scroll(int) error {
	return nil
}
