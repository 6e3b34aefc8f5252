// internal/scoring/healthscore/format.go
package healthscore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const lakh = 100000

func percent1(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

func percent0(fraction float64) string {
	return fmt.Sprintf("%.0f%%", fraction*100)
}

func lakhs1(amount float64) string {
	return fmt.Sprintf("₹%.1fL", amount/lakh)
}

func lakhs0(amount float64) string {
	return fmt.Sprintf("₹%.0fL", amount/lakh)
}

func months1(months float64) string {
	return fmt.Sprintf("%.1f months", months)
}

// multiple renders a benchmark multiple, keeping one decimal on whole numbers
// ("1.0X income", "0.3X income").
func multiple(m float64) string {
	s := strconv.FormatFloat(m, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s + "X income"
}

// rupees rounds half to even and renders a whole rupee amount.
func rupees(amount float64) string {
	return fmt.Sprintf("₹%d", int64(math.RoundToEven(amount)))
}

// round rounds the exact binary value to the given number of decimals with
// ties to even, so 0.125 rounds to 0.12.
func round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
