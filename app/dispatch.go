package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"sheetops/domain/grid"
	apperrors "sheetops/internal/errors"
	"sheetops/ports"
)

// Reward values returned for every processed envelope. The reward is a
// binary signal consumed externally as a training/evaluation score.
const (
	RewardSuccess = 1
	RewardFailure = -1
)

// opSpec describes one dispatchable operation: the exact parameter keys it
// requires and the handler that runs it.
type opSpec struct {
	required []string
	run      func(context.Context, map[string]any) (string, error)
}

// CommandDispatcher validates operation envelopes, resolves indirect
// addressing against the table, invokes the matching TableStore primitive,
// and normalizes every outcome into the (reward, feedback) contract. It
// holds no table state of its own and never lets an internal fault escape
// to the caller.
type CommandDispatcher struct {
	store    *TableStore
	observer ports.Observer
	ops      map[string]opSpec
}

// NewCommandDispatcher creates a dispatcher bound to one table store.
func NewCommandDispatcher(store *TableStore, observer ports.Observer) *CommandDispatcher {
	if observer == nil {
		observer = ports.NoOpObserver{}
	}
	d := &CommandDispatcher{store: store, observer: observer}
	d.ops = map[string]opSpec{
		"clear_sheet":                {nil, d.runClearSheet},
		"add_row":                    {[]string{"row_index", "text"}, d.runAddRow},
		"write_cell":                 {[]string{"row_index", "col_index", "text"}, d.runWriteCell},
		"write_row":                  {[]string{"row_index", "row_data"}, d.runWriteRow},
		"clear_cell":                 {[]string{"row_index", "col_index"}, d.runClearCell},
		"clear_row":                  {[]string{"row_index"}, d.runClearRow},
		"clear_column":               {[]string{"col_index"}, d.runClearColumn},
		"read_header_row":            {nil, d.runReadHeaderRow},
		"read_column":                {[]string{"col_index"}, d.runReadColumn},
		"read_cell":                  {[]string{"row_index", "col_index"}, d.runReadCell},
		"read_row":                   {[]string{"row_index"}, d.runReadRow},
		"get_column_index_by_header": {[]string{"header_name"}, d.runGetColumnIndexByHeader},
		"get_row_index_by_value":     {[]string{"col_index", "search_value"}, d.runGetRowIndexByValue},
		"update_cell_by_lookup":      {[]string{"row_header", "row_value", "col_header", "new_value"}, d.runUpdateCellByLookup},
	}
	return d
}

// Store returns the table store this dispatcher operates on.
func (d *CommandDispatcher) Store() *TableStore {
	return d.store
}

// Process parses and executes one raw JSON envelope. It always returns a
// reward of 1 or -1 with a feedback string prefixed "Success:" or "Error:";
// panics and all failure modes are converted into that contract.
func (d *CommandDispatcher) Process(ctx context.Context, raw []byte) (reward int, feedback string) {
	defer func() {
		if r := recover(); r != nil {
			reward = RewardFailure
			feedback = fmt.Sprintf("Error: Error processing JSON operation: %v", r)
		}
	}()

	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope == nil {
		return RewardFailure, "Error: Invalid JSON format"
	}

	nameValue, ok := envelope["name"]
	if !ok {
		return RewardFailure, "Error: JSON missing 'name' field"
	}
	name, _ := nameValue.(string)
	op, known := d.ops[name]
	if !known {
		return RewardFailure, fmt.Sprintf("Error: Unknown function: %v", nameValue)
	}
	params, _ := envelope["parameters"].(map[string]any)

	start := time.Now()
	d.observer.OnOperationStart(ctx, name)
	message, err := d.execute(ctx, name, op, params)
	d.observer.OnOperationEnd(ctx, name, time.Since(start), err)

	if err != nil {
		return RewardFailure, "Error: " + err.Error()
	}
	if strings.HasPrefix(message, "Success") {
		return RewardSuccess, message
	}
	return RewardSuccess, "Success: " + message
}

func (d *CommandDispatcher) execute(ctx context.Context, name string, op opSpec, params map[string]any) (string, error) {
	for _, key := range op.required {
		if _, present := params[key]; !present {
			return "", apperrors.ValidationError(fmt.Sprintf(
				"Missing required parameters for %s. Needs: %s", name, strings.Join(op.required, ", ")))
		}
	}
	return op.run(ctx, params)
}

func (d *CommandDispatcher) runClearSheet(ctx context.Context, params map[string]any) (string, error) {
	rows, cols, err := d.store.ClearSheet(ctx)
	if err != nil {
		return "", apperrors.ExecutionError("Error clearing sheet", err)
	}
	return fmt.Sprintf("Sheet '%s' cleared. Removed all data (%d rows by %d columns). A new empty sheet has been created.",
		d.store.Name(), rows, cols), nil
}

func (d *CommandDispatcher) runAddRow(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	row, err := d.store.ResolveRow(rawRow)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row_index: %s. Must be positive integer or 'next_available'", formatParam(rawRow)))
	}
	text := params["text"]
	if err := d.store.AddRow(ctx, row, text); err != nil {
		return "", apperrors.ExecutionError("Error adding row", err)
	}
	return fmt.Sprintf("New row inserted at position %d. Text '%s' added to %s",
		row, formatValue(text), cellRef(row, 1)), nil
}

func (d *CommandDispatcher) runWriteCell(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	rawCol := params["col_index"]

	row, ok := fixedRowIndex(rawRow)
	if !ok {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row_index: %s. Must be positive integer", formatParam(rawRow)))
	}
	if err := checkWriteCellColumn(rawCol); err != nil {
		return "", err
	}
	col, err := d.store.ResolveColumn(rawCol)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("Invalid column index: %s", formatParam(rawCol)))
	}

	text := params["text"]
	if err := d.store.WriteCell(ctx, row, col, text); err != nil {
		return "", apperrors.ExecutionError("Error writing to cell", err)
	}
	return fmt.Sprintf("Value '%s' written to %s", formatValue(text), cellRef(row, col)), nil
}

// checkWriteCellColumn applies write_cell's strict envelope-level column
// validation: strings must be digit strings or short alphabetic labels,
// anything else must be a positive integer.
func checkWriteCellColumn(rawCol any) error {
	ref, err := grid.ParseColumnRef(rawCol)
	if s, isString := rawCol.(string); isString {
		if err != nil || (ref.Kind == grid.RefLabel && len(s) > 3) {
			return apperrors.ValidationError(fmt.Sprintf(
				"Invalid col_index: %s. Must be a column letter (A-Z) or positive integer", s))
		}
		return nil
	}
	if err != nil || ref.Num < 1 {
		return apperrors.ValidationError(fmt.Sprintf(
			"Invalid col_index: %s. Must be positive integer or column letter", formatParam(rawCol)))
	}
	return nil
}

func (d *CommandDispatcher) runWriteRow(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	rawData := params["row_data"]

	switch rawData.(type) {
	case []any, string:
		// Sequences fall through to the store's own row data check.
	default:
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row_data: %s. Must be iterable (list, tuple, etc.)", formatParam(rawData)))
	}

	row, ok := fixedRowIndex(rawRow)
	if !ok {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row index: %s. Row index must be positive integer.", formatParam(rawRow)))
	}

	values, err := d.store.WriteRow(ctx, row, rawData)
	if err != nil {
		if errors.Is(err, ErrRowDataIsString) {
			return "", apperrors.ValidationError("Row data must be an iterable collection, not a string")
		}
		return "", apperrors.ExecutionError("Error writing row", err)
	}
	return fmt.Sprintf("Data written to row %d. Values: %s", row, rowSummary(values)), nil
}

func (d *CommandDispatcher) runClearCell(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	rawCol := params["col_index"]

	row, ok := fixedRowIndex(rawRow)
	if !ok {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row index: %s. Row index must be positive integer.", formatParam(rawRow)))
	}
	col, err := d.store.ResolveColumn(rawCol)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("Invalid column index: %s", formatParam(rawCol)))
	}

	if err := d.store.ClearCell(ctx, row, col); err != nil {
		return "", apperrors.ExecutionError("Error clearing cell", err)
	}
	return fmt.Sprintf("Content cleared from %s", cellRef(row, col)), nil
}

func (d *CommandDispatcher) runClearRow(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	row, ok := fixedRowIndex(rawRow)
	if !ok {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row index: %s. Row index must be positive integer.", formatParam(rawRow)))
	}

	removed, err := d.store.ClearRow(ctx, row)
	if err != nil {
		return "", apperrors.ExecutionError("Error clearing row", err)
	}
	return fmt.Sprintf("Row %d deleted. Original values: %s", row, quotedList(removed)), nil
}

func (d *CommandDispatcher) runClearColumn(ctx context.Context, params map[string]any) (string, error) {
	rawCol := params["col_index"]
	col, err := d.store.ResolveColumn(rawCol)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("Invalid column index: %s", formatParam(rawCol)))
	}

	removed, err := d.store.ClearColumn(ctx, col)
	if err != nil {
		return "", apperrors.ExecutionError("Error clearing column", err)
	}
	return fmt.Sprintf("Column %s (index %d) deleted. Original values: %s",
		grid.ColumnLabel(col), col, quotedList(removed)), nil
}

func (d *CommandDispatcher) runReadHeaderRow(ctx context.Context, params map[string]any) (string, error) {
	header, _ := d.store.HeaderRow()
	return fmt.Sprintf("Success: Header row read successfully. Headers found: %s", headerList(header)), nil
}

func (d *CommandDispatcher) runReadColumn(ctx context.Context, params map[string]any) (string, error) {
	rawCol := params["col_index"]
	col, err := d.store.ResolveColumn(rawCol)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("Invalid column index: %s", formatParam(rawCol)))
	}

	values := d.store.ReadColumn(col)
	return fmt.Sprintf("Success: %s read successfully. Values: %s", columnID(rawCol, col), columnSummary(values)), nil
}

func (d *CommandDispatcher) runReadCell(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	rawCol := params["col_index"]

	row, ok := fixedRowIndex(rawRow)
	if !ok {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row index: %s. Row index must be positive integer.", formatParam(rawRow)))
	}
	col, err := d.store.ResolveColumn(rawCol)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("Invalid column index: %s", formatParam(rawCol)))
	}

	value, _ := d.store.ReadCell(row, col)
	return fmt.Sprintf("Success: Read value '%s' from %s", formatValue(value), cellRef(row, col)), nil
}

func (d *CommandDispatcher) runReadRow(ctx context.Context, params map[string]any) (string, error) {
	rawRow := params["row_index"]
	row, ok := fixedRowIndex(rawRow)
	if !ok {
		return "", apperrors.ValidationError(fmt.Sprintf(
			"Invalid row index: %s. Row index must be positive integer.", formatParam(rawRow)))
	}

	values, _ := d.store.ReadRow(row)
	return fmt.Sprintf("Success: Row %d read successfully. Values: %s", row, rowSummary(values)), nil
}

func (d *CommandDispatcher) runGetColumnIndexByHeader(ctx context.Context, params map[string]any) (string, error) {
	rawHeader := params["header_name"]
	idx, err := d.store.ColumnIndexForHeader(headerLabel(rawHeader))
	if err != nil {
		if errors.Is(err, grid.ErrNoHeaderRow) {
			return "", apperrors.New(apperrors.CodeResolutionError, "No header row found")
		}
		return "", apperrors.New(apperrors.CodeResolutionError,
			fmt.Sprintf("Header '%s' not found", formatParam(rawHeader)))
	}
	return fmt.Sprintf("Success: Column index found by header. Result: %d", idx), nil
}

func (d *CommandDispatcher) runGetRowIndexByValue(ctx context.Context, params map[string]any) (string, error) {
	rawCol := params["col_index"]
	search := params["search_value"]

	col, err := d.store.ResolveColumn(rawCol)
	if err != nil {
		return "", apperrors.ValidationError(fmt.Sprintf("Invalid column index: %s", formatParam(rawCol)))
	}

	idx, err := d.store.RowIndexForValue(col, search)
	if err != nil {
		if errors.Is(err, grid.ErrColumnEmpty) {
			return "", apperrors.New(apperrors.CodeResolutionError,
				fmt.Sprintf("No data found in column %s", formatParam(rawCol)))
		}
		return "", apperrors.New(apperrors.CodeResolutionError,
			fmt.Sprintf("Value '%s' not found in column %s", formatValue(search), formatParam(rawCol)))
	}
	return fmt.Sprintf("Success: Row index found by value. Result: %d", idx), nil
}

// runUpdateCellByLookup implements the four-step composite lookup protocol:
// row key column by header, target column by header, row by key value, then
// the write. Each step short-circuits with a feedback string naming the
// step that failed, so a partial match is diagnosable from feedback alone.
func (d *CommandDispatcher) runUpdateCellByLookup(ctx context.Context, params map[string]any) (string, error) {
	rowHeader := params["row_header"]
	rowValue := params["row_value"]
	colHeader := params["col_header"]
	newValue := params["new_value"]

	rowColIdx, err := d.store.ColumnIndexForHeader(headerLabel(rowHeader))
	if err != nil {
		return "", apperrors.New(apperrors.CodeResolutionError, fmt.Sprintf(
			"Could not find column with header '%s': %s", formatParam(rowHeader), headerFailure(err, rowHeader)))
	}

	targetColIdx, err := d.store.ColumnIndexForHeader(headerLabel(colHeader))
	if err != nil {
		return "", apperrors.New(apperrors.CodeResolutionError, fmt.Sprintf(
			"Could not find column with header '%s': %s", formatParam(colHeader), headerFailure(err, colHeader)))
	}

	rowIdx, err := d.store.RowIndexForValue(rowColIdx, rowValue)
	if err != nil {
		return "", apperrors.New(apperrors.CodeResolutionError, fmt.Sprintf(
			"Could not find row with value '%s' in column '%s': %s",
			formatValue(rowValue), formatParam(rowHeader), valueFailure(err, rowValue, rowColIdx)))
	}

	if err := d.store.WriteCell(ctx, rowIdx, targetColIdx, newValue); err != nil {
		return "", apperrors.ExecutionError(fmt.Sprintf(
			"Failed to write to cell at row %d, column %d: Error writing to cell", rowIdx, targetColIdx), err)
	}

	return fmt.Sprintf("Success: Cell updated successfully. Successfully updated cell at row %d, column %s (identified by '%s=%s' and '%s') with value '%s'",
		rowIdx, grid.ColumnLabel(targetColIdx), formatParam(rowHeader), formatValue(rowValue),
		formatParam(colHeader), formatValue(newValue)), nil
}

// fixedRowIndex accepts only a positive integer or digit string; the
// next_available sentinel is rejected.
func fixedRowIndex(v any) (int, bool) {
	ref, err := grid.ParseRowRef(v)
	if err != nil || ref.Kind != grid.RefNumeric || ref.Num < 1 {
		return 0, false
	}
	return ref.Num, true
}

// headerLabel lowers a raw header parameter to the string label the store
// matches against.
func headerLabel(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return grid.KeyString(v)
}

// headerFailure renders a header lookup failure the way the store reports it.
func headerFailure(err error, rawHeader any) string {
	if errors.Is(err, grid.ErrNoHeaderRow) {
		return "No header row found"
	}
	return fmt.Sprintf("Header '%s' not found", formatParam(rawHeader))
}

// valueFailure renders a row lookup failure the way the store reports it.
func valueFailure(err error, search any, col int) string {
	if errors.Is(err, grid.ErrColumnEmpty) {
		return fmt.Sprintf("No data found in column %d", col)
	}
	return fmt.Sprintf("Value '%s' not found in column %d", formatValue(search), col)
}
