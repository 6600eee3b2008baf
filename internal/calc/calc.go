// Package calc implements the arithmetic-over-HTTP demo operations.
package calc

import (
	"errors"
	"fmt"
)

var ErrUnknownOp = errors.New("unknown operation")

// Apply evaluates x <op> y for op in add, min (subtract), mul and div.
// Division by zero follows IEEE 754.
func Apply(op string, x, y float64) (float64, error) {
	switch op {
	case "add":
		return x + y, nil
	case "min":
		return x - y, nil
	case "mul":
		return x * y, nil
	case "div":
		return x / y, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
}
