// ABOUTME: Google Sheets implementation of the Table interface
// ABOUTME: Builds the Sheets service lazily on first use and shares it for the process lifetime

package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client implements Table against one Google spreadsheet.
//
// The underlying Sheets service is constructed on first use from
// service-account JSON and then reused by every call. Construction is
// guarded by a singleflight group so concurrent first callers share one
// attempt; the handle is read-only shared state after that.
type Client struct {
	spreadsheetID string
	credentials   []byte
	logger        *slog.Logger

	initGroup singleflight.Group
	mu        sync.RWMutex
	svc       *sheets.Service
}

// NewClient creates a Sheets-backed Table for the given spreadsheet.
// credentials is service-account JSON; it is not validated until the first
// call needs the service.
func NewClient(spreadsheetID string, credentials []byte, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		spreadsheetID: spreadsheetID,
		credentials:   credentials,
		logger:        logger.With("component", "sheet"),
	}
}

// service returns the shared Sheets service, constructing it if needed.
func (c *Client) service() (*sheets.Service, error) {
	c.mu.RLock()
	svc := c.svc
	c.mu.RUnlock()
	if svc != nil {
		return svc, nil
	}

	v, err, _ := c.initGroup.Do("service", func() (interface{}, error) {
		// Detached context: the service outlives any single request.
		svc, err := sheets.NewService(context.Background(),
			option.WithCredentialsJSON(c.credentials),
			option.WithScopes(sheets.SpreadsheetsScope))
		if err != nil {
			return nil, fmt.Errorf("creating sheets service: %w", err)
		}
		c.mu.Lock()
		c.svc = svc
		c.mu.Unlock()
		c.logger.Info("sheets service initialized", "spreadsheet_id", c.spreadsheetID)
		return svc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sheets.Service), nil
}

// ReadRange returns the rows within the range.
func (c *Client) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", rangeSpec, err)
	}
	return fromValues(resp.Values), nil
}

// WriteRange overwrites the rows at the range with RAW input (no cell
// format interpretation, matching how rows are read back).
func (c *Client) WriteRange(ctx context.Context, rangeSpec string, rows [][]string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeSpec, &sheets.ValueRange{
		Values: toValues(rows),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing range %s: %w", rangeSpec, err)
	}
	return nil
}

// AppendRows appends rows after the last data row of the range's sheet.
func (c *Client) AppendRows(ctx context.Context, rangeSpec string, rows [][]string) error {
	svc, err := c.service()
	if err != nil {
		return err
	}
	_, err = svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeSpec, &sheets.ValueRange{
		Values: toValues(rows),
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to range %s: %w", rangeSpec, err)
	}
	return nil
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}

func fromValues(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if s, ok := cell.(string); ok {
				cells[j] = s
			} else {
				cells[j] = fmt.Sprint(cell)
			}
		}
		out[i] = cells
	}
	return out
}
