package excel

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"sheetops/domain/grid"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used when none is configured.
const DefaultSheet = "Sheet1"

// Codec persists a grid to a single-sheet xlsx workbook.
type Codec struct {
	path  string
	sheet string
}

// NewCodec creates an xlsx codec for the given path, addressing DefaultSheet.
func NewCodec(path string) *Codec {
	return &Codec{path: path, sheet: DefaultSheet}
}

// NewCodecForSheet creates an xlsx codec addressing a specific sheet.
func NewCodecForSheet(path, sheet string) *Codec {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &Codec{path: path, sheet: sheet}
}

// Path returns the backing file path.
func (c *Codec) Path() string {
	return c.path
}

// Sheet returns the sheet name the codec addresses.
func (c *Codec) Sheet() string {
	return c.sheet
}

// Load reads the sheet into a grid, inferring a scalar type per cell.
// A missing file surfaces the underlying fs.ErrNotExist.
func (c *Codec) Load(ctx context.Context) (*grid.Grid, error) {
	if _, err := os.Stat(c.path); err != nil {
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(c.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.sheet, err)
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

// Save writes the grid to the workbook, replacing prior contents.
func (c *Codec) Save(ctx context.Context, g *grid.Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	// Ensure the target sheet exists and is active.
	if idx, err := f.GetSheetIndex(c.sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(c.sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", c.sheet, err)
		}
		f.SetActiveSheet(idx)
	}

	for r, row := range g.Rows() {
		for col, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to name cell (%d,%d): %w", r+1, col+1, err)
			}
			if err := f.SetCellValue(c.sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(c.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
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
