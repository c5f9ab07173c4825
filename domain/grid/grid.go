package grid

// Value is the untyped scalar a cell holds: string, number, bool, or nil
// for an empty cell.
type Value = any

// Grid is a 1-based, self-expanding table of cells. Row 1 carries the
// header labels by convention only; nothing structural distinguishes it.
//
// DeleteRow and DeleteColumn shift every subsequent index by one. Any index
// held from before a deletion is invalidated and must be re-resolved.
type Grid struct {
	rows [][]Value
}

// New returns an empty grid with no rows and no columns.
func New() *Grid {
	return &Grid{}
}

// FromRows builds a grid from raw row data. The input is copied.
func FromRows(rows [][]Value) *Grid {
	g := &Grid{rows: make([][]Value, len(rows))}
	for i, row := range rows {
		g.rows[i] = make([]Value, len(row))
		copy(g.rows[i], row)
	}
	return g
}

// MaxRow returns the index of the last row, 0 for an empty grid.
func (g *Grid) MaxRow() int {
	return len(g.rows)
}

// MaxCol returns the width of the widest row, 0 for an empty grid.
func (g *Grid) MaxCol() int {
	max := 0
	for _, row := range g.rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// InExtent reports whether (row, col) lies inside the current bounds.
func (g *Grid) InExtent(row, col int) bool {
	return row >= 1 && col >= 1 && row <= g.MaxRow() && col <= g.MaxCol()
}

// At returns the value at (row, col); nil for empty and out-of-extent cells.
func (g *Grid) At(row, col int) Value {
	if row < 1 || col < 1 || row > len(g.rows) {
		return nil
	}
	r := g.rows[row-1]
	if col > len(r) {
		return nil
	}
	return r[col-1]
}

// Set writes v at (row, col), padding intermediate rows and columns with
// empty cells. No other cell is touched.
func (g *Grid) Set(row, col int, v Value) {
	if row < 1 || col < 1 {
		return
	}
	for len(g.rows) < row {
		g.rows = append(g.rows, nil)
	}
	r := g.rows[row-1]
	for len(r) < col {
		r = append(r, nil)
	}
	r[col-1] = v
	g.rows[row-1] = r
}

// Row returns a copy of the row padded to the grid width. The second result
// is false when the row lies beyond the last row.
func (g *Grid) Row(row int) ([]Value, bool) {
	if row < 1 || row > len(g.rows) {
		return nil, false
	}
	out := make([]Value, g.MaxCol())
	copy(out, g.rows[row-1])
	return out, true
}

// Column returns a copy of the column, one entry per existing row, nil
// where a row does not reach the column.
func (g *Grid) Column(col int) []Value {
	if col < 1 {
		return nil
	}
	out := make([]Value, len(g.rows))
	for i, row := range g.rows {
		if col <= len(row) {
			out[i] = row[col-1]
		}
	}
	return out
}

// InsertRow makes room at row, shifting it and everything below down by
// one. Inserting past the last row leaves the structure unchanged; a
// following Set pads as needed.
func (g *Grid) InsertRow(row int) {
	if row < 1 || row > len(g.rows) {
		return
	}
	g.rows = append(g.rows, nil)
	copy(g.rows[row:], g.rows[row-1:])
	g.rows[row-1] = nil
}

// DeleteRow removes the row and shifts subsequent rows up by one. Rows
// beyond the extent are a no-op.
func (g *Grid) DeleteRow(row int) {
	if row < 1 || row > len(g.rows) {
		return
	}
	g.rows = append(g.rows[:row-1], g.rows[row:]...)
}

// DeleteColumn removes the column from every row, shifting subsequent
// columns left by one. Rows narrower than the column are untouched.
func (g *Grid) DeleteColumn(col int) {
	if col < 1 {
		return
	}
	for i, row := range g.rows {
		if col <= len(row) {
			g.rows[i] = append(row[:col-1], row[col:]...)
		}
	}
}

// Clear discards every row and column.
func (g *Grid) Clear() {
	g.rows = nil
}

// Rows returns a deep copy of the raw row data, ragged as stored.
func (g *Grid) Rows() [][]Value {
	out := make([][]Value, len(g.rows))
	for i, row := range g.rows {
		out[i] = make([]Value, len(row))
		copy(out[i], row)
	}
	return out
}
