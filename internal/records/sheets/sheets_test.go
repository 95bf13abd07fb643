package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

// fakeSpreadsheet serves the handful of Sheets v4 endpoints the client uses
// against an in-memory grid for a single tab.
type fakeSpreadsheet struct {
	mu    sync.Mutex
	title string
	grid  [][]any
	fail  int
}

func (f *fakeSpreadsheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if f.fail != 0 {
		w.WriteHeader(f.fail)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": f.fail, "message": "boom"}})
		return
	}
	path := r.URL.Path
	const prefix = "/v4/spreadsheets/sid"
	title := f.title
	if title == "" {
		title = "Records"
	}
	values := prefix + "/values/'" + strings.ReplaceAll(title, "'", "''") + "'!"
	switch {
	case r.Method == http.MethodGet && path == values+"A1:F1":
		var vals [][]any
		if len(f.grid) > 0 {
			vals = f.grid[:1]
		}
		_ = json.NewEncoder(w).Encode(gsheet.ValueRange{Values: vals})
	case r.Method == http.MethodPut && path == values+"A1:F1":
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		if len(f.grid) == 0 {
			f.grid = append(f.grid, vr.Values[0])
		} else {
			f.grid[0] = vr.Values[0]
		}
		_ = json.NewEncoder(w).Encode(gsheet.UpdateValuesResponse{})
	case r.Method == http.MethodGet && path == values+"A2:F":
		var vals [][]any
		if len(f.grid) > 1 {
			vals = f.grid[1:]
		}
		_ = json.NewEncoder(w).Encode(gsheet.ValueRange{Values: vals})
	case r.Method == http.MethodPost && path == values+"A:F:append":
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.grid = append(f.grid, vr.Values...)
		_ = json.NewEncoder(w).Encode(gsheet.AppendValuesResponse{})
	case r.Method == http.MethodGet && path == prefix:
		_ = json.NewEncoder(w).Encode(gsheet.Spreadsheet{Sheets: []*gsheet.Sheet{
			{Properties: &gsheet.SheetProperties{Title: "Other", SheetId: 1}},
			{Properties: &gsheet.SheetProperties{Title: title, SheetId: 42}},
		}})
	case r.Method == http.MethodPost && path == prefix+":batchUpdate":
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			dr := rq.DeleteDimension.Range
			if dr.SheetId != 42 || dr.Dimension != "ROWS" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.grid = append(f.grid[:dr.StartIndex], f.grid[dr.EndIndex:]...)
		}
		_ = json.NewEncoder(w).Encode(gsheet.BatchUpdateSpreadsheetResponse{})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": 404, "message": "no route " + r.Method + " " + path}})
	}
}

func newFakeClient(t *testing.T, fake *fakeSpreadsheet) *Client {
	t.Helper()
	return newNamedFakeClient(t, fake, "")
}

func newNamedFakeClient(t *testing.T, fake *fakeSpreadsheet, sheet string) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewWithService(svc, "sid", sheet)
}

func TestEnsureHeaderCreateListDelete(t *testing.T) {
	fake := &fakeSpreadsheet{}
	c := newFakeClient(t, fake)
	ctx := context.Background()

	require.NoError(t, c.EnsureHeader(ctx))
	require.NoError(t, c.EnsureHeader(ctx))
	require.Len(t, fake.grid, 1)

	first, err := c.Create(ctx, core.Record{Kind: core.KindIncome, Date: core.NewDate(2023, 12, 1), Note: "salary", Amount: "2700", Category: core.CategorySalary})
	require.NoError(t, err)
	second, err := c.Create(ctx, core.Record{Kind: core.KindExpense, Date: core.NewDate(2023, 12, 13), Note: "coffee", Amount: "35", Category: core.CategoryFood})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ID, "rec"))
	assert.Equal(t, "salary", fake.grid[1][5])

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, core.KindExpense, list[1].Kind)
	assert.Equal(t, core.CategoryFood, list[1].Category)

	require.NoError(t, c.Delete(ctx, first.ID))
	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	err = c.Delete(ctx, "recMissing")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestSheetNameIsQuoted(t *testing.T) {
	fake := &fakeSpreadsheet{title: "Home Budget! Joe's"}
	c := newNamedFakeClient(t, fake, "Home Budget! Joe's")
	ctx := context.Background()

	require.NoError(t, c.EnsureHeader(ctx))
	created, err := c.Create(ctx, core.Record{Kind: core.KindExpense, Date: core.NewDate(2023, 12, 13), Amount: "35", Category: core.CategoryFood})
	require.NoError(t, err)
	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, c.Delete(ctx, created.ID))

	assert.Equal(t, "'Home Budget! Joe''s'!A2:F", a1Range("Home Budget! Joe's", "A2:F"))
}

func TestListReadsLegacyGlyphRows(t *testing.T) {
	fake := &fakeSpreadsheet{grid: [][]any{
		Header,
		{"rec1", "Expense", "2023/12/13, Wed", "lunch", "12.5", "🍴"},
		{"", "Expense", "2023/12/13 Wed", "no id", "1", "food"},
		{"rec2", "Income"},
	}}
	list, err := newFakeClient(t, fake).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, core.CategoryFood, list[0].Category)
	assert.Equal(t, "12.5", list[0].Amount)
	assert.True(t, list[1].Date.IsZero())
}

func TestAPIErrorIsStoreError(t *testing.T) {
	c := newFakeClient(t, &fakeSpreadsheet{fail: http.StatusForbidden})
	_, err := c.List(context.Background())
	require.Error(t, err)
	var se *records.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list", se.Op)
	assert.ErrorIs(t, err, records.ErrBadResponse)
}

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.EqualError(t, err, "missing GOOGLE_SPREADSHEET_ID")
	_, err = New(context.Background(), Config{SpreadsheetID: "sid"})
	assert.ErrorContains(t, err, "missing service account credentials")
}
