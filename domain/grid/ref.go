package grid

import (
	"math"
	"strconv"
	"strings"
)

// NextAvailableRow is the sentinel row reference meaning "one past the
// current last row", resolved at call time.
const NextAvailableRow = "next_available"

// maxColumnLabelLen caps labels at ZZZ, matching the widest sheets the
// backing formats address.
const maxColumnLabelLen = 3

// RefKind tags a Ref.
type RefKind int

const (
	// RefNumeric is a 1-based numeric index.
	RefNumeric RefKind = iota
	// RefLabel is an alphabetic column label (A, B, ..., Z, AA, ...).
	RefLabel
	// RefNextAvailable is the next_available row sentinel.
	RefNextAvailable
)

// Ref is a row or column reference: a numeric index, an alphabetic column
// label, or the next_available row sentinel. Construct one with Num, Label,
// NextAvailable, or the per-axis parse functions; convert it to a concrete
// index with ResolveColumn or ResolveRow.
type Ref struct {
	Kind  RefKind
	Num   int
	Label string
}

// Num returns a numeric reference.
func Num(n int) Ref {
	return Ref{Kind: RefNumeric, Num: n}
}

// NewLabel returns an alphabetic column label reference.
func NewLabel(label string) Ref {
	return Ref{Kind: RefLabel, Label: label}
}

// NextAvailable returns the next_available row sentinel reference.
func NextAvailable() Ref {
	return Ref{Kind: RefNextAvailable}
}

// ParseColumnRef builds a column reference from a raw envelope value. It
// accepts positive integers, digit strings, and alphabetic labels; the one
// type switch over dynamic parameter values lives here and in ParseRowRef.
func ParseColumnRef(v Value) (Ref, error) {
	switch c := v.(type) {
	case int:
		return Num(c), nil
	case int64:
		return Num(int(c)), nil
	case float64:
		if c != math.Trunc(c) {
			return Ref{}, NewInvalidColumnError(v)
		}
		return Num(int(c)), nil
	case string:
		if isDigits(c) {
			n, err := strconv.Atoi(c)
			if err != nil {
				return Ref{}, NewInvalidColumnError(v)
			}
			return Num(n), nil
		}
		if isAlpha(c) {
			return NewLabel(strings.ToUpper(c)), nil
		}
		return Ref{}, NewInvalidColumnError(v)
	default:
		return Ref{}, NewInvalidColumnError(v)
	}
}

// ParseRowRef builds a row reference from a raw envelope value. It accepts
// positive integers, digit strings, and the next_available sentinel.
func ParseRowRef(v Value) (Ref, error) {
	switch r := v.(type) {
	case int:
		return Num(r), nil
	case int64:
		return Num(int(r)), nil
	case float64:
		if r != math.Trunc(r) {
			return Ref{}, NewInvalidRowError(v)
		}
		return Num(int(r)), nil
	case string:
		if r == NextAvailableRow {
			return NextAvailable(), nil
		}
		if isDigits(r) {
			n, err := strconv.Atoi(r)
			if err != nil {
				return Ref{}, NewInvalidRowError(v)
			}
			return Num(n), nil
		}
		return Ref{}, NewInvalidRowError(v)
	default:
		return Ref{}, NewInvalidRowError(v)
	}
}

// ResolveColumn converts a column reference to its 1-based index.
func ResolveColumn(ref Ref) (int, error) {
	switch ref.Kind {
	case RefNumeric:
		if ref.Num < 1 {
			return 0, NewInvalidColumnError(ref.Num)
		}
		return ref.Num, nil
	case RefLabel:
		return ColumnNumber(ref.Label)
	default:
		return 0, NewInvalidColumnError(NextAvailableRow)
	}
}

// ResolveRow converts a row reference to its 1-based index against the
// current extent; next_available resolves to maxRow+1 at call time.
func ResolveRow(ref Ref, maxRow int) (int, error) {
	switch ref.Kind {
	case RefNumeric:
		if ref.Num < 1 {
			return 0, NewInvalidRowError(ref.Num)
		}
		return ref.Num, nil
	case RefNextAvailable:
		return maxRow + 1, nil
	default:
		return 0, NewInvalidRowError(ref.Label)
	}
}

// ColumnNumber converts an alphabetic label to its 1-based index using the
// bijective base-26 mapping (A=1 ... Z=26, AA=27).
func ColumnNumber(label string) (int, error) {
	if label == "" || len(label) > maxColumnLabelLen {
		return 0, NewInvalidColumnError(label)
	}
	n := 0
	for _, c := range label {
		if c < 'A' || c > 'Z' {
			return 0, NewInvalidColumnError(label)
		}
		n = n*26 + int(c-'A'+1)
	}
	return n, nil
}

// ColumnLabel converts a 1-based index to its alphabetic label. Indices
// below 1 yield the empty string.
func ColumnLabel(n int) string {
	result := ""
	for n > 0 {
		n--
		result = string(rune('A'+n%26)) + result
		n /= 26
	}
	return result
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
