// Package sheets stores records in one tab of a Google spreadsheet.
//
// The tab starts with a header row followed by one row per record:
//
//	id | expenseIncome | date | note | amount | category
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"moneynote/internal/core"
	"moneynote/internal/records"
)

const DefaultSheetName = "Records"

// Header is the expected first row of the tab.
var Header = []any{"id", "expenseIncome", "date", "note", "amount", "category"}

type Config struct {
	SpreadsheetID string
	SheetName     string
	// Service account credentials, inline JSON or a file path.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

// Ensure interface conformance
var _ records.Store = (*Client)(nil)

// New creates a Sheets client authenticated with a service account. Extra
// options are appended after the credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := loadCredentials(ctx, cfg)
	if err != nil {
		return nil, err
	}
	all := append([]goption.ClientOption{
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	}, opts...)
	svc, err := gsheet.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing service, mostly for tests.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheet string) *Client {
	if strings.TrimSpace(sheet) == "" {
		sheet = DefaultSheetName
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	slog.DebugContext(ctx, "Checking service account configuration",
		"has_json", inline != "",
		"file_path", file)
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// EnsureHeader writes the header row when the tab is empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	rng := a1Range(c.sheet, "A1:F1")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, classify(err))
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{Header}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", classify(err))
	}
	slog.InfoContext(ctx, "Wrote header row", "sheet", c.sheet)
	return nil
}

// List reads every data row below the header.
func (c *Client) List(ctx context.Context) ([]core.Record, error) {
	rows, err := c.readRows(ctx)
	if err != nil {
		return nil, records.Fail("list", err)
	}
	out := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		w := rowToWire(row)
		if w.ID == "" {
			continue
		}
		out = append(out, w.ToRecord())
	}
	return out, nil
}

// Create appends one row with a freshly generated id.
func (c *Client) Create(ctx context.Context, r core.Record) (core.Record, error) {
	if err := r.Validate(); err != nil {
		return core.Record{}, records.Fail("create", err)
	}
	r.ID = records.NewID()
	w := records.FromRecord(r)
	vr := &gsheet.ValueRange{Values: [][]any{{
		w.ID, w.Fields.ExpenseIncome, w.Fields.Date, w.Fields.Note, string(w.Fields.Amount), w.Fields.Category,
	}}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, a1Range(c.sheet, "A:F"), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return core.Record{}, records.Fail("create", classify(err))
	}
	return r, nil
}

// Delete finds the row holding id and removes it from the tab.
func (c *Client) Delete(ctx context.Context, id string) error {
	rows, err := c.readRows(ctx)
	if err != nil {
		return records.Fail("delete", err)
	}
	idx := -1
	for i, row := range rows {
		if rowToWire(row).ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return records.Fail("delete", fmt.Errorf("%w: %s", records.ErrNotFound, id))
	}
	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return records.Fail("delete", err)
	}
	// data rows start below the header, so sheet row index is idx+1
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: int64(idx + 1),
			EndIndex:   int64(idx + 2),
		}},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return records.Fail("delete", classify(err))
	}
	return nil
}

func (c *Client) readRows(ctx context.Context) ([][]any, error) {
	rng := a1Range(c.sheet, "A2:F")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, classify(err))
	}
	return resp.Values, nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", classify(err))
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheet {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheet)
}

func rowToWire(row []any) records.WireRecord {
	cols := toStrings(row)
	return records.WireRecord{
		ID: safeGet(cols, 0),
		Fields: records.Fields{
			ExpenseIncome: safeGet(cols, 1),
			Date:          safeGet(cols, 2),
			Note:          safeGet(cols, 3),
			Amount:        records.FlexString(safeGet(cols, 4)),
			Category:      safeGet(cols, 5),
		},
	}
}

// classify marks API status errors as bad responses.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("%w: %s", records.BadStatus(gerr.Code), gerr.Message)
	}
	return err
}

// a1Range quotes the sheet name, doubling embedded single quotes, so names
// with spaces or punctuation form a valid A1 range.
func a1Range(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
