package pizza

import (
	"fmt"

	httperrors "github.com/gokatarajesh/slicetomeetyou/pkg/http/errors"
)

const (
	SlicesPerPizza = 8
	slicesPerHalf  = SlicesPerPizza / 2
)

// SliceCount breaks a slice total into whole and half pizzas. Leftover slices
// are rounded up to a half pizza; Excess is how many slices that rounding adds.
type SliceCount struct {
	Slices int
	Whole  int
	Half   bool
	Excess int
}

// CountSlices splits n slices into pizza units.
func CountSlices(n int) SliceCount {
	if n < 0 {
		n = 0
	}
	rest := n % SlicesPerPizza
	return SliceCount{
		Slices: n,
		Whole:  n / SlicesPerPizza,
		Half:   rest >= slicesPerHalf,
		Excess: (slicesPerHalf - rest%slicesPerHalf) % slicesPerHalf,
	}
}

// Ordered is the slice total rounded up to the next half pizza.
func (c SliceCount) Ordered() int {
	units := (c.Slices + slicesPerHalf - 1) / slicesPerHalf
	return units * slicesPerHalf
}

// Pizzas is the label without the excess, e.g. "1 1/2 pizzas".
func (c SliceCount) Pizzas() string {
	switch {
	case c.Whole == 0 && c.Half:
		return "1/2 pizza"
	case c.Half:
		return fmt.Sprintf("%d 1/2 pizzas", c.Whole)
	case c.Whole == 1:
		return "1 pizza"
	default:
		return fmt.Sprintf("%d pizzas", c.Whole)
	}
}

func (c SliceCount) String() string {
	label := c.Pizzas()
	switch c.Excess {
	case 0:
		return label
	case 1:
		return label + " (1 slice excess)"
	default:
		return fmt.Sprintf("%s (%d slices excess)", label, c.Excess)
	}
}

// FormatSlices renders a slice total in pizza units:
// 8 → "1 pizza", 12 → "1 1/2 pizzas", 10 → "1 pizza (2 slices excess)",
// 9 → "1 pizza (3 slices excess)".
func FormatSlices(n int) string {
	return CountSlices(n).String()
}

// ValidateSliceCount checks how many slices one attendee asks for.
func ValidateSliceCount(n int) error {
	if n < 1 {
		return httperrors.Validation(httperrors.ErrCodeInvalidSliceCount, "sliceCount",
			"Slice count must be at least 1")
	}
	return nil
}
