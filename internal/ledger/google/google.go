// Package google stores records in a Google spreadsheet, one sheet per
// year named "Expense_<year>" with Date, Amount, and Category columns.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetrack/internal/core"
	"expensetrack/internal/ledger"
)

const (
	sheetPrefix = "Expense_"
	headerRow   = 1
)

var headerValues = []any{"Date", "Amount", "Category"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var _ ledger.Ledger = (*Client)(nil)

// NewFromEnv creates a Sheets client from the environment.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return New(svc, spreadsheetID), nil
}

// New wraps an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID}
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// SheetName returns the sheet holding the given year's records.
func SheetName(year int) string {
	return fmt.Sprintf("%s%d", sheetPrefix, year)
}

// List reads every record row from the year's sheet. A year with no
// sheet yet yields an empty list, not an error.
func (c *Client) List(ctx context.Context, year int) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:C", SheetName(year))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []core.Record
	for i, row := range resp.Values {
		if i == 0 && isHeader(row) {
			continue
		}
		r, ok := rowToRecord(row)
		if !ok {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Append writes the record to its year's sheet, creating the sheet with
// a header row on first use. The returned reference is the written
// range, e.g. "Expense_2023!A5:C5".
func (c *Client) Append(ctx context.Context, r core.Record) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if !r.Date.Valid() {
		return "", errors.New("record date is required")
	}

	sheet := SheetName(r.Date.Year())
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	vr := &gsheet.ValueRange{Values: [][]any{recordToRow(r)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:C", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return sheet, nil
}

// Remove deletes the row identified by a reference previously returned
// from Append.
func (c *Client) Remove(ctx context.Context, ref string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheet, row, err := parseRef(ref)
	if err != nil {
		return err
	}
	sheetID, ok, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d from %s: %w", row, sheet, err)
	}
	return nil
}

// ensureSheet creates the named sheet with a header row when it does
// not exist yet.
func (c *Client) ensureSheet(ctx context.Context, sheet string) error {
	_, ok, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: sheet},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	header := &gsheet.ValueRange{Values: [][]any{headerValues}}
	rng := fmt.Sprintf("%s!A%d:C%d", sheet, headerRow, headerRow)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, header).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write header for %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, sheet string) (int64, bool, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.sheetId", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			return s.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

// parseRef splits "Expense_2023!A5:C5" into sheet name and row number.
func parseRef(ref string) (string, int, error) {
	sheet, cells, ok := strings.Cut(ref, "!")
	if !ok {
		return "", 0, fmt.Errorf("invalid row reference %q", ref)
	}
	first, _, _ := strings.Cut(cells, ":")
	digits := strings.TrimLeftFunc(first, func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("invalid row reference %q", ref)
	}
	return sheet, row, nil
}

// isMissingSheet reports whether a Values.Get failure means the year's
// sheet has not been created yet.
func isMissingSheet(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 400 && strings.Contains(gerr.Message, "Unable to parse range")
	}
	return false
}
