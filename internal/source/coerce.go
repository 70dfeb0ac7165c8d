package source

import (
	"fmt"
	"strconv"
)

// coerceFloat converts the loosely typed values JSON decoding produces into
// a float64. Strings are parsed so upstreams that serialize numbers as text
// still normalize.
func coerceFloat(column string, v any) (float64, bool, error) {
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case float32:
		return float64(n), true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case string:
		if n == "" || n == Placeholder {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false, fmt.Errorf("column %s: cannot coerce %q to number", column, n)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("column %s: cannot coerce %T to number", column, v)
	}
}
