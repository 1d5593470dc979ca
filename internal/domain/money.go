package domain

import "fmt"

// Cents is a currency amount in integer minor units (USD cents).
// All price arithmetic happens in cents; formatting to major units is a
// display-boundary concern only, so repeated override composition never
// accumulates floating-point drift.
type Cents int64

// String formats the amount in major units, e.g. 50000 -> "500.00".
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
