package reconcile

import (
	"fmt"
	"strconv"
)

// FormatMarketCap renders a raw market-cap figure as a display string.
// 한국 종목은 조원/억원, 미국 종목은 $T/$B/$M. 0이면 "N/A".
func FormatMarketCap(value float64, country string) string {
	if value == 0 {
		return "N/A"
	}

	if country == "KR" {
		switch {
		case value >= 1_000_000_000_000:
			return fmt.Sprintf("%.1f조원", value/1_000_000_000_000)
		case value >= 100_000_000:
			return fmt.Sprintf("%.0f억원", value/100_000_000)
		default:
			return groupDigits(int64(value)) + "원"
		}
	}

	switch {
	case value >= 1_000_000_000_000:
		return fmt.Sprintf("$%.2fT", value/1_000_000_000_000)
	case value >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	default:
		return "$" + groupDigits(int64(value))
	}
}

// groupDigits inserts thousands separators into an integer
func groupDigits(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		for i, c := range []byte(s) {
			if i > 0 && (len(s)-i)%3 == 0 {
				out = append(out, ',')
			}
			out = append(out, c)
		}
		s = string(out)
	}

	if neg {
		return "-" + s
	}
	return s
}
