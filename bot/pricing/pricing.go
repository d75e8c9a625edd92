// Package pricing implements the Tradeinn price conversion rule.
package pricing

import "math"

// markup covers shipping risk and packaging on top of the shop price.
const markup = 1.1

// Convert turns a shop price and delivery cost (euros) into the final price in
// rubles, rounded up to the nearest hundred.
//
//	result = ceil((price + delivery/2) * 1.1 * rate * (1 + commission/100) / 100) * 100
//
// Rounding up happens on a cent-scaled integer so that an intermediate value of
// exactly N*100 stays at N*100 while anything above it moves to the next
// hundred regardless of float noise.
func Convert(price, delivery, rate, commission float64) int64 {
	raw := (price + delivery/2) * markup * rate * (1 + commission/100)
	cents := int64(math.Round(raw * 100))
	if cents <= 0 {
		return 0
	}
	hundreds := (cents + 100*100 - 1) / (100 * 100)
	return hundreds * 100
}
