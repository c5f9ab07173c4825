package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetops/domain/grid"
	"sheetops/internal/testkit"
)

func newTestStore(t *testing.T, rows [][]grid.Value) (*TableStore, *testkit.MemoryCodec) {
	t.Helper()
	var codec *testkit.MemoryCodec
	if rows == nil {
		codec = testkit.NewMemoryCodec()
	} else {
		codec = testkit.NewSeededCodec(rows)
	}
	store, err := NewTableStore(context.Background(), codec, "Sheet1", nil)
	assert.NoError(t, err)
	return store, codec
}

func TestNewTableStoreMissingFile(t *testing.T) {
	store, codec := newTestStore(t, nil)

	assert.Equal(t, 0, store.MaxRow())
	assert.Equal(t, 0, store.MaxCol())
	assert.Equal(t, 1, codec.SaveCount, "construction persists the fresh table")
}

func TestNewTableStoreLoadsExisting(t *testing.T) {
	store, _ := newTestStore(t, testkit.SampleRows())

	assert.Equal(t, 3, store.MaxRow())
	assert.Equal(t, 3, store.MaxCol())
	v, ok := store.ReadCell(2, 1)
	assert.True(t, ok)
	assert.Equal(t, "Alpha", v)
}

func TestNewTableStoreCorruptFileFallsBack(t *testing.T) {
	codec := testkit.NewSeededCodec(testkit.SampleRows())
	codec.LoadErr = errors.New("zip: not a valid zip file")

	store, err := NewTableStore(context.Background(), codec, "Sheet1", nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, store.MaxRow())
}

func TestNewTableStoreConstructionSaveFailure(t *testing.T) {
	codec := testkit.NewMemoryCodec()
	codec.SaveErr = errors.New("read-only filesystem")

	_, err := NewTableStore(context.Background(), codec, "Sheet1", nil)
	assert.Error(t, err)
}

func TestWriteCellPersistsAndReadsBack(t *testing.T) {
	ctx := context.Background()
	store, codec := newTestStore(t, nil)
	saves := codec.SaveCount

	assert.NoError(t, store.WriteCell(ctx, 2, 3, "hello"))

	v, ok := store.ReadCell(2, 3)
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.Equal(t, saves+1, codec.SaveCount)
	assert.Equal(t, "hello", codec.Saved.At(2, 3))
}

func TestWriteCellDoesNotTouchAnchor(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, nil)

	assert.NoError(t, store.WriteCell(ctx, 1, 1, "anchor"))
	assert.NoError(t, store.WriteCell(ctx, 7, 4, "far"))
	assert.NoError(t, store.WriteCell(ctx, 3, 9, "wide"))

	v, _ := store.ReadCell(1, 1)
	assert.Equal(t, "anchor", v)
}

func TestWriteRowRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, nil)

	written, err := store.WriteRow(ctx, 1, []grid.Value{"a", "b", "c"})
	assert.NoError(t, err)
	assert.Equal(t, []grid.Value{"a", "b", "c"}, written)

	row, ok := store.ReadRow(1)
	assert.True(t, ok)
	assert.Equal(t, []grid.Value{"a", "b", "c"}, row[:3])
}

func TestWriteRowLeavesTrailingColumns(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, [][]grid.Value{{"a", "b", "c", "d"}})

	_, err := store.WriteRow(ctx, 1, []grid.Value{"x", "y"})
	assert.NoError(t, err)

	row, _ := store.ReadRow(1)
	assert.Equal(t, []grid.Value{"x", "y", "c", "d"}, row)
}

func TestWriteRowRejectsString(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, nil)

	_, err := store.WriteRow(ctx, 1, "abc")
	assert.ErrorIs(t, err, ErrRowDataIsString)
	assert.Equal(t, 0, store.MaxRow(), "rejected write must not touch the table")
}

func TestAddRowShiftsExistingRows(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, testkit.SampleRows())

	assert.NoError(t, store.AddRow(ctx, 2, "Gamma"))

	v, _ := store.ReadCell(2, 1)
	assert.Equal(t, "Gamma", v)
	v, _ = store.ReadCell(3, 1)
	assert.Equal(t, "Alpha", v, "prior row 2 moved down")
	assert.Equal(t, 4, store.MaxRow())
}

func TestResolveRowNextAvailable(t *testing.T) {
	store, _ := newTestStore(t, testkit.SampleRows())

	row, err := store.ResolveRow("next_available")
	assert.NoError(t, err)
	assert.Equal(t, 4, row)

	empty, _ := newTestStore(t, nil)
	row, err = empty.ResolveRow("next_available")
	assert.NoError(t, err)
	assert.Equal(t, 1, row)
}

func TestResolveColumnLabels(t *testing.T) {
	store, _ := newTestStore(t, nil)

	for ref, want := range map[string]int{"A": 1, "Z": 26, "AA": 27} {
		got, err := store.ResolveColumn(ref)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := store.ResolveColumn("A1")
	assert.ErrorIs(t, err, grid.ErrInvalidColumnReference)
}

func TestClearRowReindexes(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, testkit.SampleRows())

	removed, err := store.ClearRow(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, []grid.Value{"Alpha", "Pending", "dana"}, removed)

	row, ok := store.ReadRow(2)
	assert.True(t, ok)
	assert.Equal(t, []grid.Value{"Beta", "Active", "lee"}, row, "row 3 shifted up into row 2")
	assert.Equal(t, 2, store.MaxRow())
}

func TestClearRowBeyondExtent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, testkit.SampleRows())

	removed, err := store.ClearRow(ctx, 10)
	assert.NoError(t, err)
	assert.Empty(t, removed)
	assert.Equal(t, 3, store.MaxRow())
}

func TestClearColumnReindexes(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, testkit.SampleRows())

	removed, err := store.ClearColumn(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, []grid.Value{"Name", "Alpha", "Beta"}, removed)

	v, _ := store.ReadCell(1, 1)
	assert.Equal(t, "Status", v, "column 2 shifted left into column 1")
}

func TestClearCellKeepsExtent(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, testkit.SampleRows())

	assert.NoError(t, store.ClearCell(ctx, 2, 2))

	v, ok := store.ReadCell(2, 2)
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, 3, store.MaxRow())
}

func TestClearSheetReportsDimensions(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, testkit.SampleRows())

	rows, cols, err := store.ClearSheet(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 0, store.MaxRow())

	header, ok := store.HeaderRow()
	assert.False(t, ok)
	assert.Empty(t, header)
}

func TestHeaderRow(t *testing.T) {
	store, _ := newTestStore(t, testkit.SampleRows())

	header, ok := store.HeaderRow()
	assert.True(t, ok)
	assert.Equal(t, []grid.Value{"Name", "Status", "Owner"}, header)
}

func TestColumnIndexForHeader(t *testing.T) {
	store, _ := newTestStore(t, testkit.SampleRows())

	idx, err := store.ColumnIndexForHeader("Status")
	assert.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = store.ColumnIndexForHeader("status")
	assert.ErrorIs(t, err, grid.ErrHeaderNotFound, "match is case-sensitive")

	_, err = store.ColumnIndexForHeader("Missing")
	assert.ErrorIs(t, err, grid.ErrHeaderNotFound)
}

func TestColumnIndexForHeaderFirstDuplicateWins(t *testing.T) {
	store, _ := newTestStore(t, [][]grid.Value{{"ID", "Value", "Value"}})

	idx, err := store.ColumnIndexForHeader("Value")
	assert.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestColumnIndexForHeaderEmptyTable(t *testing.T) {
	store, _ := newTestStore(t, nil)

	_, err := store.ColumnIndexForHeader("Name")
	assert.ErrorIs(t, err, grid.ErrNoHeaderRow)
}

func TestRowIndexForValueStringifiedMatch(t *testing.T) {
	store, _ := newTestStore(t, [][]grid.Value{
		{"Project", "Budget"},
		{"Alpha", 50000},
		{"Beta", 75000},
	})

	idx, err := store.RowIndexForValue(2, "50000")
	assert.NoError(t, err)
	assert.Equal(t, 2, idx, "numeric cell matches its string form")

	idx, err = store.RowIndexForValue(1, "Beta")
	assert.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestRowIndexForValueFirstMatchWins(t *testing.T) {
	store, _ := newTestStore(t, [][]grid.Value{
		{"Status"},
		{"Pending"},
		{"Pending"},
	})

	idx, err := store.RowIndexForValue(1, "Pending")
	assert.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestRowIndexForValueSkipsEmptyCells(t *testing.T) {
	store, _ := newTestStore(t, [][]grid.Value{
		{"Name"},
		{nil},
		{"Alpha"},
	})

	idx, err := store.RowIndexForValue(1, "Alpha")
	assert.NoError(t, err)
	assert.Equal(t, 3, idx)

	_, err = store.RowIndexForValue(1, "")
	assert.ErrorIs(t, err, grid.ErrValueNotFound, "empty cells never match")
}

func TestRowIndexForValueEmptyColumn(t *testing.T) {
	store, _ := newTestStore(t, nil)

	_, err := store.RowIndexForValue(1, "anything")
	assert.ErrorIs(t, err, grid.ErrColumnEmpty)
}

func TestReadCellOutOfExtent(t *testing.T) {
	store, _ := newTestStore(t, testkit.SampleRows())

	_, ok := store.ReadCell(10, 1)
	assert.False(t, ok)

	v, ok := store.ReadCell(2, 9)
	assert.True(t, ok, "in-extent row with unset column is readable")
	assert.Nil(t, v)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store, codec := newTestStore(t, nil)
	codec.SaveErr = errors.New("disk full")

	err := store.WriteCell(ctx, 1, 1, "kept")
	assert.Error(t, err)

	v, _ := store.ReadCell(1, 1)
	assert.Equal(t, "kept", v, "memory keeps the write even when persistence fails")
}
