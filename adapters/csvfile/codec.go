package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"sheetops/domain/grid"
)

// Codec persists a grid to a csv file. Scalar types survive a round trip
// through the same inference the xlsx codec applies.
type Codec struct {
	path string
}

// NewCodec creates a csv codec for the given path.
func NewCodec(path string) *Codec {
	return &Codec{path: path}
}

// Path returns the backing file path.
func (c *Codec) Path() string {
	return c.path
}

// Load reads the csv file into a grid. A missing file surfaces the
// underlying fs.ErrNotExist.
func (c *Codec) Load(ctx context.Context) (*grid.Grid, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}

	g := grid.New()
	for r, row := range rows {
		for col, cell := range row {
			if v := parseScalar(cell); v != nil {
				g.Set(r+1, col+1, v)
			}
		}
	}
	return g, nil
}

// Save writes the grid to the csv file as a rectangular table padded to the
// grid width, replacing prior contents.
func (c *Codec) Save(ctx context.Context, g *grid.Grid) error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	width := g.MaxCol()
	for _, row := range g.Rows() {
		record := make([]string, width)
		for i, v := range row {
			record[i] = grid.KeyString(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// parseScalar infers a scalar type from a raw cell string: int first, then
// float, otherwise the string itself. Empty cells load as nil.
func parseScalar(s string) grid.Value {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
