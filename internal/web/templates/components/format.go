package components

import "strconv"

// FormatAmount renders a whole-unit balance with thousands separators,
// e.g. 3000 -> "3,000" and -150 -> "-150".
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}

// SignedAmount prefixes credits with "+" so history rows read as deltas.
func SignedAmount(amount int64, deduction bool) string {
	if deduction {
		return "-" + FormatAmount(amount)
	}
	return "+" + FormatAmount(amount)
}
