package parse

import (
	"math"
	"strconv"
	"strings"
)

// NonNegativeInt coerces a query parameter to an int >= 0. Empty, malformed
// or negative input yields def.
func NonNegativeInt(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Accept "25.0" style input the way a lenient client would send it.
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || f > math.MaxInt32 {
			return def
		}
		n = int(f)
	}
	if n < 0 {
		return def
	}
	return n
}
