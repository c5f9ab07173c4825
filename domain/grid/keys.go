package grid

import (
	"fmt"
	"strconv"
)

// KeyString renders a cell value the way value lookup compares it: nil as
// the empty string, integral floats without a trailing fraction, everything
// else in its natural literal form.
func KeyString(v Value) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(s)
	}
}

// StringKeyEquals reports whether two cell values match under stringified
// comparison, so numeric 50000 matches the string "50000". Value lookup
// relies on this; any change here changes lookup semantics.
func StringKeyEquals(a, b Value) bool {
	return KeyString(a) == KeyString(b)
}
