package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var currencySymbols = []string{"$", "€", "£", "¥"}

// normalizeColumn rewrites a column of locale-formatted numbers into plain
// decimal strings. It reports ok=false, leaving the column alone, when any
// present value is not a number or when every value is already plain.
func normalizeColumn(vals []string, opt Options) (out []string, unit string, ok bool) {
	out = make([]string, len(vals))
	changed := false
	present := 0
	for i, v := range vals {
		if v == nanToken {
			out[i] = v
			continue
		}
		present++
		if opt.DecimalSeparator == 0 {
			if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
				out[i] = v
				continue
			}
		}
		x, u, parsed := parseNumeric(v, opt)
		if !parsed {
			return vals, "", false
		}
		if u != "" && unit == "" {
			unit = u
		}
		out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		if out[i] != v {
			changed = true
		}
	}
	if present == 0 || !changed {
		return vals, "", false
	}
	return out, unit, true
}

// parseNumeric parses a number written with locale separators, a percent sign,
// or a currency symbol. The returned unit is "%" or the currency symbol, if any.
func parseNumeric(s string, opt Options) (float64, string, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	unit := ""
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
		unit = "%"
	}
	for _, sym := range currencySymbols {
		if strings.Contains(raw, sym) {
			raw = strings.ReplaceAll(raw, sym, "")
			if unit == "" {
				unit = sym
			}
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			if strings.Count(raw, ",") > 1 || looksGrouped(raw, ',') {
				dec, thou = '.', ','
			} else {
				dec = ','
			}
		case dpos >= 0 && strings.Count(raw, ".") > 1:
			dec, thou = ',', '.'
		default:
			dec = '.'
		}
	}
	// Remove thousands separators (common: ',', '.', space) if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
		raw = strings.ReplaceAll(raw, " ", "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, "", false
	}
	return f, unit, true
}

// looksGrouped reports whether raw holds a single separator followed by exactly
// three digits with a short, non-zero-led integer part, as in "12,500".
func looksGrouped(raw string, sep rune) bool {
	s := strings.TrimLeft(raw, "+-")
	i := strings.IndexRune(s, sep)
	if i <= 0 || i > 3 || s[0] == '0' {
		return false
	}
	frac := s[i+1:]
	if len(frac) != 3 {
		return false
	}
	for _, r := range s[:i] + frac {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Budget (USD)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Runtime [min]
}

func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}
