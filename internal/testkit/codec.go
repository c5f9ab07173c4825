package testkit

import (
	"context"
	"fmt"
	"io/fs"

	"sheetops/domain/grid"
)

// MemoryCodec implements ports.TableCodec entirely in memory so store and
// dispatcher tests never touch disk. Saved holds a copy of the most recent
// grid passed to Save.
type MemoryCodec struct {
	path      string
	initial   *grid.Grid
	missing   bool
	LoadErr   error
	SaveErr   error
	Saved     *grid.Grid
	SaveCount int
}

// NewMemoryCodec returns a codec whose Load reports a missing file, so the
// store starts from an empty table.
func NewMemoryCodec() *MemoryCodec {
	return &MemoryCodec{path: "memory://table", missing: true}
}

// NewSeededCodec returns a codec whose Load yields a copy of the given rows.
func NewSeededCodec(rows [][]grid.Value) *MemoryCodec {
	return &MemoryCodec{path: "memory://table", initial: grid.FromRows(rows)}
}

func (c *MemoryCodec) Path() string {
	return c.path
}

func (c *MemoryCodec) Load(ctx context.Context) (*grid.Grid, error) {
	if c.LoadErr != nil {
		return nil, c.LoadErr
	}
	if c.missing {
		return nil, fmt.Errorf("open %s: %w", c.path, fs.ErrNotExist)
	}
	return grid.FromRows(c.initial.Rows()), nil
}

func (c *MemoryCodec) Save(ctx context.Context, g *grid.Grid) error {
	if c.SaveErr != nil {
		return c.SaveErr
	}
	c.SaveCount++
	c.Saved = grid.FromRows(g.Rows())
	return nil
}

// SampleRows returns a small project table shared across tests: a header
// row plus two data rows.
func SampleRows() [][]grid.Value {
	return [][]grid.Value{
		{"Name", "Status", "Owner"},
		{"Alpha", "Pending", "dana"},
		{"Beta", "Active", "lee"},
	}
}
