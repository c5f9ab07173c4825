package ports

import (
	"context"

	"sheetops/domain/grid"
)

// TableCodec persists one table to one backing file. Implementations exist
// for xlsx and csv; the store treats them interchangeably.
type TableCodec interface {
	// Load reads the backing file into a grid. A missing file surfaces as an
	// error wrapping fs.ErrNotExist so the store can create a fresh table.
	Load(ctx context.Context) (*grid.Grid, error)

	// Save writes the grid to the backing file, replacing prior contents.
	Save(ctx context.Context, g *grid.Grid) error

	// Path returns the backing file path, used for diagnostics.
	Path() string
}
