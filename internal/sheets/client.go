package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/ruancarvalho/pedidosync-backend/pkg/config"
	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Table is a handle to one sheet (tab) inside the spreadsheet document.
type Table struct {
	Title   string
	SheetID int64
}

// Record is one data row keyed by the row-1 header.
type Record map[string]string

// Client wraps the Sheets API for a single spreadsheet document. It never
// retries and never caches; every read re-fetches from the backend.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	logg          *logger.Logger
}

// Open builds the Sheets service from the configured service-account JSON and
// verifies the document is reachable.
func Open(ctx context.Context, cfg config.SheetsConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "spreadsheet URL is not configured")
	}
	if strings.TrimSpace(cfg.CredentialsJSON) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "sheets credentials are not configured")
	}

	spreadsheetID, err := parseSpreadsheetID(cfg.URL)
	if err != nil {
		return nil, err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal([]byte(cfg.CredentialsJSON), &creds); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfig, err, "sheets credentials are not valid JSON")
	}
	if creds.ClientEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "sheets credentials are missing client_email")
	}

	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "building sheets service")
	}

	client := &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logg:          logg,
	}

	// Probe the document so misconfiguration surfaces at startup, not on the
	// first scan.
	if _, err := svc.Spreadsheets.Get(spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return nil, mapAPIError(err, "opening spreadsheet")
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "spreadsheet_id", spreadsheetID), "sheets client initialized")
	}
	return client, nil
}

func parseSpreadsheetID(url string) (string, error) {
	if m := spreadsheetIDPattern.FindStringSubmatch(url); len(m) == 2 {
		return m[1], nil
	}
	return "", pkgerrors.New(pkgerrors.CodeConfig, fmt.Sprintf("cannot extract spreadsheet id from URL %q", url))
}

// Ping verifies the document is still reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.svc == nil {
		return pkgerrors.New(pkgerrors.CodeConfig, "sheets client not initialized")
	}
	if _, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return mapAPIError(err, "pinging spreadsheet")
	}
	return nil
}

// GetOrCreateTable finds a sheet by title, creating it with the given minimum
// grid dimensions when absent.
func (c *Client) GetOrCreateTable(ctx context.Context, title string, minRows, minCols int64) (Table, error) {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return Table{}, mapAPIError(err, "listing sheets")
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return Table{Title: title, SheetID: sh.Properties.SheetId}, nil
		}
	}

	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{
					Title: title,
					GridProperties: &gsheets.GridProperties{
						RowCount:    minRows,
						ColumnCount: minCols,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return Table{}, mapAPIError(err, fmt.Sprintf("creating sheet %q", title))
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return Table{}, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("sheet %q created but no properties returned", title))
	}
	return Table{Title: title, SheetID: resp.Replies[0].AddSheet.Properties.SheetId}, nil
}

// ReadAllRecords returns every data row keyed by the row-1 header. The result
// is a fresh snapshot on every call.
func (c *Client) ReadAllRecords(ctx context.Context, t Table) ([]Record, error) {
	vals, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeAll(t)).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err, fmt.Sprintf("reading %q", t.Title))
	}
	if len(vals.Values) < 2 {
		return nil, nil
	}
	header := toStrings(vals.Values[0])
	records := make([]Record, 0, len(vals.Values)-1)
	for _, raw := range vals.Values[1:] {
		row := toStrings(raw)
		rec := make(Record, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// AppendRows appends after existing content; it never overwrites rows. Cells
// are already strings, which sidesteps the backend's type inference.
func (c *Client) AppendRows(ctx context.Context, t Table, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheets.ValueRange{Values: toInterfaceRows(rows)}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeAll(t), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return mapAPIError(err, fmt.Sprintf("appending to %q", t.Title))
	}
	return nil
}

// OverwriteTable clears all content then appends the given rows. Used only for
// whole-table catalog refreshes.
func (c *Client) OverwriteTable(ctx context.Context, t Table, rows [][]string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rangeAll(t), &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return mapAPIError(err, fmt.Sprintf("clearing %q", t.Title))
	}
	return c.AppendRows(ctx, t, rows)
}

// RowValues returns the cells of a single 1-based row.
func (c *Client) RowValues(ctx context.Context, t Table, row int64) ([]string, error) {
	rng := fmt.Sprintf("'%s'!%d:%d", t.Title, row, row)
	vals, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err, fmt.Sprintf("reading row %d of %q", row, t.Title))
	}
	if len(vals.Values) == 0 {
		return nil, nil
	}
	return toStrings(vals.Values[0]), nil
}

// ColumnValues returns the cells of a single 1-based column, top to bottom.
func (c *Client) ColumnValues(ctx context.Context, t Table, col int64) ([]string, error) {
	letter := columnLetter(col)
	rng := fmt.Sprintf("'%s'!%s:%s", t.Title, letter, letter)
	vals, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		MajorDimension("COLUMNS").
		Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err, fmt.Sprintf("reading column %s of %q", letter, t.Title))
	}
	if len(vals.Values) == 0 {
		return nil, nil
	}
	return toStrings(vals.Values[0]), nil
}

// UpdateCell writes a single cell addressed by 1-based row and column.
func (c *Client) UpdateCell(ctx context.Context, t Table, row, col int64, value string) error {
	rng := fmt.Sprintf("'%s'!%s%d", t.Title, columnLetter(col), row)
	vr := &gsheets.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return mapAPIError(err, fmt.Sprintf("updating cell %s of %q", rng, t.Title))
	}
	return nil
}

// UpdateRow rewrites a single 1-based row starting at column A.
func (c *Client) UpdateRow(ctx context.Context, t Table, row int64, values []string) error {
	rng := fmt.Sprintf("'%s'!A%d", t.Title, row)
	vr := &gsheets.ValueRange{Values: toInterfaceRows([][]string{values})}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return mapAPIError(err, fmt.Sprintf("updating row %d of %q", row, t.Title))
	}
	return nil
}

// FormatHeader applies the standard header styling (grey background, bold,
// centered) to row 1 and freezes it. Callers treat failures as cosmetic.
func (c *Client) FormatHeader(ctx context.Context, t Table) error {
	grey := 0.8
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{
			{
				RepeatCell: &gsheets.RepeatCellRequest{
					Range: &gsheets.GridRange{
						SheetId:       t.SheetID,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &gsheets.CellData{
						UserEnteredFormat: &gsheets.CellFormat{
							BackgroundColor:     &gsheets.Color{Red: grey, Green: grey, Blue: grey},
							HorizontalAlignment: "CENTER",
							TextFormat:          &gsheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat(backgroundColor,horizontalAlignment,textFormat)",
				},
			},
			{
				UpdateSheetProperties: &gsheets.UpdateSheetPropertiesRequest{
					Properties: &gsheets.SheetProperties{
						SheetId:        t.SheetID,
						GridProperties: &gsheets.GridProperties{FrozenRowCount: 1},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return mapAPIError(err, fmt.Sprintf("formatting header of %q", t.Title))
	}
	return nil
}

func rangeAll(t Table) string {
	return fmt.Sprintf("'%s'", t.Title)
}

func toStrings(raw []any) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toInterfaceRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}

// columnLetter converts a 1-based column index to its A1 letter form.
func columnLetter(col int64) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
