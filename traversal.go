package seekpager

import "fmt"

// Traversal defines the direction in which the dataset is walked relative to
// the canonical ordering. Backward traversal executes with every comparison
// operator and every ordering direction inverted, then re-reverses the fetched
// rows in memory so the returned page is in canonical forward order.
type Traversal string

const (
	TraversalForward  Traversal = "forward"
	TraversalBackward Traversal = "backward"
)

func (t Traversal) Valid() bool {
	return t == TraversalForward || t == TraversalBackward
}

// orDefault normalizes the zero value to forward traversal.
func (t Traversal) orDefault() Traversal {
	if t == "" {
		return TraversalForward
	}

	return t
}

func (t Traversal) validate() error {
	if !t.orDefault().Valid() {
		return fmt.Errorf("invalid traversal direction '%s'", t)
	}

	return nil
}
