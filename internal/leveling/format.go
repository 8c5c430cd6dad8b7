package leveling

import "fmt"

// FormatPrice renders a number in compact chat form: 1.3b / 2.5m / 12.0k,
// or the plain integer below a thousand.
func FormatPrice(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fb", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fm", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
