package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"sheetops/app"
	"sheetops/domain/grid"
	"sheetops/internal/testkit"
	"sheetops/models"
)

func newTestApp(t *testing.T, rows [][]grid.Value) *App {
	t.Helper()
	var codec *testkit.MemoryCodec
	if rows == nil {
		codec = testkit.NewMemoryCodec()
	} else {
		codec = testkit.NewSeededCodec(rows)
	}
	store, err := app.NewTableStore(context.Background(), codec, "Sheet1", nil)
	assert.NoError(t, err)
	return NewApp(app.NewCommandDispatcher(store, nil))
}

func postCommand(t *testing.T, a *App, payload string) (*httptest.ResponseRecorder, models.CommandResult) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/commands", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	var result models.CommandResult
	if rec.Code == http.StatusOK {
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	}
	return rec, result
}

func TestPostCommand(t *testing.T) {
	a := newTestApp(t, nil)

	rec, result := postCommand(t, a, `{"name": "write_cell", "parameters": {"row_index": 1, "col_index": 1, "text": "hello"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "write_cell", result.Name)
	assert.Equal(t, 1, result.Reward)
	assert.Equal(t, "Success: Value 'hello' written to cell at row 1, column A (1,A)", result.Feedback)
	assert.NotEqual(t, uuid.Nil, result.ID)
}

func TestPostCommandMalformedStillAnswers(t *testing.T) {
	a := newTestApp(t, nil)

	rec, result := postCommand(t, a, "this is not json")
	assert.Equal(t, http.StatusOK, rec.Code, "protocol errors ride the reward contract, not HTTP status")
	assert.Equal(t, -1, result.Reward)
	assert.Equal(t, "Error: Invalid JSON format", result.Feedback)
	assert.Empty(t, result.Name)
}

func TestPostCommandUnknownOperation(t *testing.T) {
	a := newTestApp(t, nil)

	rec, result := postCommand(t, a, `{"name": "excel_unknown_op"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, result.Reward)
	assert.Equal(t, "excel_unknown_op", result.Name)
	assert.Contains(t, result.Feedback, "Unknown function")
}

func TestGetTable(t *testing.T) {
	a := newTestApp(t, testkit.SampleRows())

	req := httptest.NewRequest(http.MethodGet, "/api/table", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var snapshot models.TableSnapshot
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, "Sheet1", snapshot.Name)
	assert.Equal(t, 3, snapshot.MaxRow)
	assert.Equal(t, 3, snapshot.MaxCol)
	assert.Equal(t, []interface{}{"Name", "Status", "Owner"}, snapshot.Headers)
}

func TestCommandThenSnapshot(t *testing.T) {
	a := newTestApp(t, testkit.SampleRows())

	rec, _ := postCommand(t, a, `{"name": "write_cell", "parameters": {"row_index": 2, "col_index": 2, "text": "Done"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/table", nil)
	snap := httptest.NewRecorder()
	a.Router().ServeHTTP(snap, req)

	var snapshot models.TableSnapshot
	assert.NoError(t, json.NewDecoder(snap.Body).Decode(&snapshot))
	assert.Equal(t, "Done", snapshot.Rows[1][1])
}

func TestGetTableHeader(t *testing.T) {
	a := newTestApp(t, testkit.SampleRows())

	req := httptest.NewRequest(http.MethodGet, "/api/table/header", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Headers []interface{} `json:"headers"`
		Present bool          `json:"present"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.True(t, payload.Present)
	assert.Equal(t, []interface{}{"Name", "Status", "Owner"}, payload.Headers)
}

func TestGetTableHeaderEmptyTable(t *testing.T) {
	a := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/table/header", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	var payload struct {
		Present bool `json:"present"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.False(t, payload.Present)
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
