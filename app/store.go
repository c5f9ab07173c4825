package app

import (
	"context"
	"errors"
	"time"

	"sheetops/domain/grid"
	"sheetops/ports"
)

// ErrRowDataIsString reports row data supplied as a bare string. Strings are
// sequences of characters but never valid row data.
var ErrRowDataIsString = errors.New("row data must be an iterable collection, not a string")

// TableStore is the single source of truth for one table's contents. Every
// mutating primitive persists the whole table through the codec before
// returning, so a successful call is durable. Reads never touch disk and
// never mutate the grid.
//
// ClearRow and ClearColumn delete and reindex: every row/column index a
// caller obtained before the call may point at different data afterwards.
type TableStore struct {
	name     string
	grid     *grid.Grid
	codec    ports.TableCodec
	observer ports.Observer
}

// NewTableStore loads the table from the codec's backing file, creating an
// empty table when the file is missing or unreadable, then persists once so
// the file exists in canonical form.
func NewTableStore(ctx context.Context, codec ports.TableCodec, name string, observer ports.Observer) (*TableStore, error) {
	if observer == nil {
		observer = ports.NoOpObserver{}
	}

	g, err := codec.Load(ctx)
	if err != nil {
		// Missing and unreadable files both fall back to a fresh table.
		g = grid.New()
	}

	store := &TableStore{
		name:     name,
		grid:     g,
		codec:    codec,
		observer: observer,
	}

	if err := store.persist(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Name returns the table's handle name.
func (s *TableStore) Name() string {
	return s.name
}

// Path returns the backing file path.
func (s *TableStore) Path() string {
	return s.codec.Path()
}

// MaxRow returns the index of the last populated row, 0 when empty.
func (s *TableStore) MaxRow() int {
	return s.grid.MaxRow()
}

// MaxCol returns the width of the widest row, 0 when empty.
func (s *TableStore) MaxCol() int {
	return s.grid.MaxCol()
}

// Rows returns a deep copy of the table contents.
func (s *TableStore) Rows() [][]grid.Value {
	return s.grid.Rows()
}

// ResolveColumn converts a raw column reference (positive integer, digit
// string, or letter label) to a 1-based column index.
func (s *TableStore) ResolveColumn(ref grid.Value) (int, error) {
	r, err := grid.ParseColumnRef(ref)
	if err != nil {
		return 0, err
	}
	return grid.ResolveColumn(r)
}

// ResolveRow converts a raw row reference (positive integer, digit string,
// or the next_available sentinel) to a 1-based row index. The sentinel
// resolves against the current extent at call time.
func (s *TableStore) ResolveRow(ref grid.Value) (int, error) {
	r, err := grid.ParseRowRef(ref)
	if err != nil {
		return 0, err
	}
	return grid.ResolveRow(r, s.grid.MaxRow())
}

// ClearSheet discards every row and column and persists the empty table.
// It reports the dimensions that were removed.
func (s *TableStore) ClearSheet(ctx context.Context) (rows, cols int, err error) {
	rows = s.grid.MaxRow()
	cols = s.grid.MaxCol()
	s.grid.Clear()
	if err := s.persist(ctx); err != nil {
		return 0, 0, err
	}
	return rows, cols, nil
}

// AddRow inserts a blank row at the given index, shifting later rows down,
// and writes text to column 1 of the new row.
func (s *TableStore) AddRow(ctx context.Context, row int, text grid.Value) error {
	if row < 1 {
		return grid.NewInvalidRowError(row)
	}
	s.grid.InsertRow(row)
	s.grid.Set(row, 1, text)
	return s.persist(ctx)
}

// WriteCell writes exactly the addressed cell, expanding the grid as needed.
// No other cell is touched.
func (s *TableStore) WriteCell(ctx context.Context, row, col int, value grid.Value) error {
	if row < 1 {
		return grid.NewInvalidRowError(row)
	}
	if col < 1 {
		return grid.NewInvalidColumnError(col)
	}
	s.grid.Set(row, col, value)
	return s.persist(ctx)
}

// WriteRow writes values[i] to column i+1 of the row. Columns beyond the
// sequence length keep their previous contents. The data must be an ordered
// sequence; a bare string is rejected even though it is a sequence of runes.
func (s *TableStore) WriteRow(ctx context.Context, row int, data any) ([]grid.Value, error) {
	if row < 1 {
		return nil, grid.NewInvalidRowError(row)
	}
	values, err := rowDataValues(data)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		s.grid.Set(row, i+1, v)
	}
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return values, nil
}

// ClearCell blanks a single cell without removing it from the grid.
func (s *TableStore) ClearCell(ctx context.Context, row, col int) error {
	if row < 1 {
		return grid.NewInvalidRowError(row)
	}
	if col < 1 {
		return grid.NewInvalidColumnError(col)
	}
	s.grid.Set(row, col, nil)
	return s.persist(ctx)
}

// ClearRow deletes the row, shifting all later rows up by one, and returns
// the removed values. Deleting past the extent is a no-op that returns an
// empty slice.
func (s *TableStore) ClearRow(ctx context.Context, row int) ([]grid.Value, error) {
	if row < 1 {
		return nil, grid.NewInvalidRowError(row)
	}
	removed, _ := s.grid.Row(row)
	s.grid.DeleteRow(row)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return removed, nil
}

// ClearColumn deletes the column, shifting all later columns left by one,
// and returns the removed values.
func (s *TableStore) ClearColumn(ctx context.Context, col int) ([]grid.Value, error) {
	if col < 1 {
		return nil, grid.NewInvalidColumnError(col)
	}
	removed := s.grid.Column(col)
	s.grid.DeleteColumn(col)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return removed, nil
}

// HeaderRow returns row 1. The second return is false when the table has no
// rows yet, which callers can use to distinguish a brand-new table from a
// table with an empty first row.
func (s *TableStore) HeaderRow() ([]grid.Value, bool) {
	return s.grid.Row(1)
}

// ReadColumn returns every cell of the column up to the table's row extent.
// A never-populated table yields an empty slice, not an error.
func (s *TableStore) ReadColumn(col int) []grid.Value {
	return s.grid.Column(col)
}

// ReadCell returns the addressed cell's value. The second return is false
// when the row lies beyond the current extent; an in-range unset cell
// returns (nil, true).
func (s *TableStore) ReadCell(row, col int) (grid.Value, bool) {
	if row < 1 || row > s.grid.MaxRow() {
		return nil, false
	}
	return s.grid.At(row, col), true
}

// ReadRow returns the row's values padded to the table width. The second
// return is false when the row does not exist.
func (s *TableStore) ReadRow(row int) ([]grid.Value, bool) {
	return s.grid.Row(row)
}

// ColumnIndexForHeader scans row 1 for an exact, case-sensitive string match
// and returns the 1-based column index of the first hit.
func (s *TableStore) ColumnIndexForHeader(label string) (int, error) {
	header, _ := s.HeaderRow()
	if len(header) == 0 {
		return 0, grid.ErrNoHeaderRow
	}
	for i, cell := range header {
		if v, ok := cell.(string); ok && v == label {
			return i + 1, nil
		}
	}
	return 0, grid.NewHeaderNotFoundError(label)
}

// RowIndexForValue scans the column top to bottom comparing each cell's
// string form against the search value's string form and returns the first
// matching 1-based row index. Empty cells never match.
func (s *TableStore) RowIndexForValue(col int, search grid.Value) (int, error) {
	if col < 1 {
		return 0, grid.NewInvalidColumnError(col)
	}
	column := s.ReadColumn(col)
	if len(column) == 0 {
		return 0, grid.NewColumnEmptyError(col)
	}
	for i, cell := range column {
		if cell == nil {
			continue
		}
		if grid.StringKeyEquals(cell, search) {
			return i + 1, nil
		}
	}
	return 0, grid.NewValueNotFoundError(search, col)
}

func (s *TableStore) persist(ctx context.Context) error {
	start := time.Now()
	err := s.codec.Save(ctx, s.grid)
	s.observer.OnPersist(ctx, s.codec.Path(), time.Since(start), err)
	return err
}

// rowDataValues coerces raw row data into a value slice. Strings are
// rejected explicitly so a caller cannot accidentally spread one character
// per column.
func rowDataValues(data any) ([]grid.Value, error) {
	switch v := data.(type) {
	case []grid.Value:
		return v, nil
	case []string:
		values := make([]grid.Value, len(v))
		for i, s := range v {
			values[i] = s
		}
		return values, nil
	case string:
		return nil, ErrRowDataIsString
	default:
		return nil, grid.ErrInvalidRowData
	}
}
