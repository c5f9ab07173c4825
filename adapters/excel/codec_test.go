package excel

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetops/domain/grid"
)

func TestWorkbookRoundTrip(t *testing.T) {
	codec := NewCodec(filepath.Join(t.TempDir(), "table.xlsx"))
	ctx := context.Background()

	original := grid.FromRows([][]grid.Value{
		{"Name", "Age", "Score"},
		{"John Smith", 35, 91.5},
		{"Mary Johnson", 42, 88},
	})
	require.NoError(t, codec.Save(ctx, original))

	loaded, err := codec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original.Rows(), loaded.Rows())
	assert.Equal(t, 35, loaded.At(2, 2))
	assert.Equal(t, 91.5, loaded.At(2, 3))
}

func TestNamedSheetRoundTrip(t *testing.T) {
	codec := NewCodecForSheet(filepath.Join(t.TempDir(), "table.xlsx"), "Projects")
	ctx := context.Background()

	g := grid.New()
	g.Set(1, 1, "only")
	require.NoError(t, codec.Save(ctx, g))

	loaded, err := codec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "only", loaded.At(1, 1))
}

func TestSheetNameDefault(t *testing.T) {
	assert.Equal(t, DefaultSheet, NewCodec("table.xlsx").Sheet())
	assert.Equal(t, DefaultSheet, NewCodecForSheet("table.xlsx", "").Sheet())
	assert.Equal(t, "Projects", NewCodecForSheet("table.xlsx", "Projects").Sheet())
}

func TestLoadMissingWorkbook(t *testing.T) {
	codec := NewCodec(filepath.Join(t.TempDir(), "missing.xlsx"))

	_, err := codec.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadCorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := NewCodec(path).Load(context.Background())
	require.Error(t, err)
	// A corrupt file must not look like a missing one; the store recreates
	// only on corruption, and creates fresh only on absence.
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}

func TestSaveReplacesPriorContents(t *testing.T) {
	codec := NewCodec(filepath.Join(t.TempDir(), "table.xlsx"))
	ctx := context.Background()

	require.NoError(t, codec.Save(ctx, grid.FromRows([][]grid.Value{
		{"a", "b", "c"},
		{"d", "e", "f"},
	})))
	require.NoError(t, codec.Save(ctx, grid.FromRows([][]grid.Value{
		{"solo"},
	})))

	loaded, err := codec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.MaxRow())
	assert.Equal(t, 1, loaded.MaxCol())
	assert.Equal(t, "solo", loaded.At(1, 1))
}

func TestEmptyCellsLoadAsNil(t *testing.T) {
	codec := NewCodec(filepath.Join(t.TempDir(), "table.xlsx"))
	ctx := context.Background()

	g := grid.New()
	g.Set(1, 1, "a")
	g.Set(1, 3, "c")
	require.NoError(t, codec.Save(ctx, g))

	loaded, err := codec.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.At(1, 1))
	assert.Nil(t, loaded.At(1, 2))
	assert.Equal(t, "c", loaded.At(1, 3))
}
