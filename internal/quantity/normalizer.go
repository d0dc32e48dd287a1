package quantity

import (
	"math"

	"github.com/TemirB/wb-cart-quantity/internal/domain"
)

// Step is the granularity every applied quantity is a multiple of.
const Step = 10

// Largest and smallest multiples of Step that fit in an int.
const (
	maxStepped = math.MaxInt - math.MaxInt%Step
	minStepped = math.MinInt - math.MinInt%Step
)

// Normalizer snaps requested quantities to multiples of Step before handing
// them to the wrapped Modifier. Growing requests round up, everything else
// rounds down, and the result is never below Step.
//
// A Normalizer remembers the last quantity it applied and is not safe for
// concurrent use. Keep one per session.
type Normalizer struct {
	next     Modifier
	previous int
	tracking bool
}

// NewNormalizer wraps next. The returned Normalizer starts without a previous quantity.
func NewNormalizer(next Modifier) *Normalizer {
	return &Normalizer{next: next}
}

// Modify rounds targetQuantity up when there is no previous quantity or the
// target exceeds it, and down when it is equal or lower. The rounded value
// becomes the previous quantity before next runs; errors from next are
// returned unchanged.
func (n *Normalizer) Modify(item *domain.OrderItem, targetQuantity int) error {
	var adjusted int
	switch {
	case targetQuantity <= Step:
		adjusted = Step
	case n.tracking && targetQuantity <= n.previous:
		adjusted = max(Step, floorToStep(targetQuantity))
	default:
		adjusted = max(Step, ceilToStep(targetQuantity))
	}

	n.previous = adjusted
	n.tracking = true

	return n.next.Modify(item, adjusted)
}

// Previous reports the last applied quantity; ok is false until the first Modify.
func (n *Normalizer) Previous() (quantity int, ok bool) {
	return n.previous, n.tracking
}

// Restore puts back a state taken from Previous, undoing calls made since.
func (n *Normalizer) Restore(quantity int, ok bool) {
	n.previous, n.tracking = quantity, ok
}

func ceilToStep(q int) int {
	if q > maxStepped {
		return maxStepped
	}
	d := q / Step
	if q%Step != 0 && q > 0 {
		d++
	}
	return d * Step
}

func floorToStep(q int) int {
	if q < minStepped {
		return minStepped
	}
	d := q / Step
	if q%Step != 0 && q < 0 {
		d--
	}
	return d * Step
}
