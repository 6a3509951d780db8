package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/payee-classifier/internal/export"
)

// fakeSheetsAPI records the calls made against a minimal Sheets v4 surface.
type fakeSheetsAPI struct {
	existingSheets string
	updates        []sheets.ValueRange
	calls          []string
	batchUpdates   int
	failUpdates    int
	mu             sync.Mutex
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && path == "/v4/spreadsheets":
		f.calls = append(f.calls, "create")
		_, _ = io.WriteString(w, `{"spreadsheetId":"new-sheet","spreadsheetUrl":"https://example.test/new-sheet",
			"sheets":[{"properties":{"sheetId":0,"title":"Classifications"}}]}`)
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get")
		_, _ = io.WriteString(w, `{"spreadsheetId":"existing","sheets":[`+f.existingSheets+`]}`)
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = io.WriteString(w, `{}`)
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "batchUpdate")
		f.batchUpdates++
		_, _ = io.WriteString(w, `{"replies":[{"addSheet":{"properties":{"sheetId":42,"title":"Classifications"}}}]}`)
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		if f.failUpdates > 0 {
			f.failUpdates--
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"unavailable"}}`)
			return
		}
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.updates = append(f.updates, vr)
		_, _ = io.WriteString(w, `{}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestWriter(t *testing.T, api *fakeSheetsAPI, mutate func(*Config)) *Writer {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ServiceAccountPath = "/unused.json"
	cfg.RetryDelay = time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	return newWriter(srv, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testTable(rows int) export.Table {
	table := export.Table{Headers: []string{"Payee_Name", "Classification"}}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{"=Acme LLC", "Business"})
	}
	return table
}

func TestWriteTable_CreatesSpreadsheet(t *testing.T) {
	api := &fakeSheetsAPI{}
	w := newTestWriter(t, api, nil)

	id, err := w.WriteTable(context.Background(), testTable(2))
	require.NoError(t, err)
	assert.Equal(t, "new-sheet", id)

	assert.Equal(t, []string{"create", "clear", "update", "batchUpdate"}, api.calls)
	require.Len(t, api.updates, 1)
	require.Len(t, api.updates[0].Values, 3)
	assert.Equal(t, []any{"Payee_Name", "Classification"}, api.updates[0].Values[0])
	assert.Equal(t, []any{"=Acme LLC", "Business"}, api.updates[0].Values[1])
}

func TestWriteTable_ExistingSpreadsheet(t *testing.T) {
	t.Run("sheet present", func(t *testing.T) {
		api := &fakeSheetsAPI{existingSheets: `{"properties":{"sheetId":7,"title":"Classifications"}}`}
		w := newTestWriter(t, api, func(c *Config) {
			c.SpreadsheetID = "existing"
			c.EnableFormatting = false
		})

		id, err := w.WriteTable(context.Background(), testTable(1))
		require.NoError(t, err)
		assert.Equal(t, "existing", id)
		assert.Equal(t, []string{"get", "clear", "update"}, api.calls)
	})

	t.Run("sheet added", func(t *testing.T) {
		api := &fakeSheetsAPI{existingSheets: `{"properties":{"sheetId":0,"title":"Sheet1"}}`}
		w := newTestWriter(t, api, func(c *Config) {
			c.SpreadsheetID = "existing"
			c.EnableFormatting = false
		})

		_, err := w.WriteTable(context.Background(), testTable(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"get", "batchUpdate", "clear", "update"}, api.calls)
	})
}

func TestWriteTable_Batches(t *testing.T) {
	api := &fakeSheetsAPI{}
	w := newTestWriter(t, api, func(c *Config) {
		c.BatchSize = 2
		c.EnableFormatting = false
	})

	_, err := w.WriteTable(context.Background(), testTable(4))
	require.NoError(t, err)

	// Header plus four rows in batches of two.
	require.Len(t, api.updates, 3)
	assert.Len(t, api.updates[0].Values, 2)
	assert.Len(t, api.updates[2].Values, 1)
}

func TestWriteTable_RetriesServerErrors(t *testing.T) {
	api := &fakeSheetsAPI{failUpdates: 1}
	w := newTestWriter(t, api, func(c *Config) { c.EnableFormatting = false })

	_, err := w.WriteTable(context.Background(), testTable(1))
	require.NoError(t, err)
	assert.Len(t, api.updates, 1)
}

func TestTableValues(t *testing.T) {
	values := tableValues(export.Table{Headers: []string{"A"}})
	require.Len(t, values, 1)
	assert.Equal(t, []any{"A"}, values[0])
}
