package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/payee-classifier/internal/engine"
	"github.com/Veraticus/payee-classifier/internal/export"
	"github.com/Veraticus/payee-classifier/internal/keyword"
	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/storage"
	"github.com/Veraticus/payee-classifier/internal/testutil"
)

type testServer struct {
	store *storage.Store
	http  *httptest.Server
}

func newTestServer(t *testing.T, apiKey string) *testServer {
	t.Helper()
	return newSeededTestServer(t, apiKey, testutil.TestDBOptions{})
}

func newSeededTestServer(t *testing.T, apiKey string, opts testutil.TestDBOptions) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := testutil.SetupTestDBWithOptions(t, opts).Store

	keywords := keyword.NewCache(store, 0, logger)
	decision, err := engine.NewDecisionEngine(keywords, nil, engine.Config{Logger: logger, Offline: true})
	require.NoError(t, err)

	srv, err := New(Config{
		Classifier: decision,
		Batch:      engine.NewBatchProcessor(decision, engine.BatchConfig{Store: store, Logger: logger}),
		Exporter:   export.New(store, logger),
		Store:      store,
		Keywords:   keywords,
		Logger:     logger,
		APIKey:     apiKey,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{store: store, http: ts}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.http.URL+path, reader)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.http.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	resp := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClassify(t *testing.T) {
	s := newTestServer(t, "")

	resp := s.do(t, http.MethodPost, "/api/classify", classifyRequest{Name: "Acme Widgets LLC"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[model.ClassificationResult](t, resp)
	assert.Equal(t, model.Business, result.Classification)
	assert.NotEmpty(t, result.ProcessingTier)

	resp = s.do(t, http.MethodPost, "/api/classify", classifyRequest{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/classify", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/classify", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, "secret")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/batch"},
		{http.MethodGet, "/api/export"},
		{http.MethodDelete, "/api/classifications"},
		{http.MethodPut, "/api/keywords"},
		{http.MethodGet, "/api/keywords/zorblax"},
		{http.MethodPost, "/healthz"},
	}
	for _, tt := range tests {
		resp := s.do(t, tt.method, tt.path, nil, "X-API-Key", "secret")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "%s %s", tt.method, tt.path)
	}
}

func TestBatch_EmptyKeywordList(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := testutil.SetupTestDB(t).Store

	decision, err := engine.NewDecisionEngine(keyword.Static([]string{}), nil, engine.Config{Logger: logger, Offline: true})
	require.NoError(t, err)

	srv, err := New(Config{
		Classifier: decision,
		Batch:      engine.NewBatchProcessor(decision, engine.BatchConfig{Store: store, Logger: logger}),
		Exporter:   export.New(store, logger),
		Store:      store,
		Logger:     logger,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	s := &testServer{store: store, http: ts}

	resp := s.do(t, http.MethodPost, "/api/batch", batchRequest{Names: []string{"Acme Widgets LLC"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatch(t *testing.T) {
	s := newTestServer(t, "")

	resp := s.do(t, http.MethodPost, "/api/batch", batchRequest{Names: []string{"Acme Widgets LLC", "John Smith", ""}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[model.BatchProcessingResult](t, resp)

	require.Len(t, result.Results, 3)
	assert.NotEmpty(t, result.BatchID)
	for i, rec := range result.Results {
		assert.Equal(t, i, rec.RowIndex)
	}
	assert.Equal(t, "John Smith", result.Results[1].PayeeName)

	// Results were persisted under the batch ID.
	resp = s.do(t, http.MethodGet, "/api/classifications?batch="+result.BatchID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decodeBody[[]model.PayeeClassification](t, resp)
	assert.Len(t, stored, 3)

	resp = s.do(t, http.MethodGet, "/api/classifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]model.PayeeClassification](t, resp), 3)
}

func TestBatch_BadRequests(t *testing.T) {
	s := newTestServer(t, "")

	resp := s.do(t, http.MethodPost, "/api/batch", batchRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/batch", batchRequest{
		Names: []string{"Acme", "Globex"},
		Rows:  []model.Row{model.NewRow([]string{"Vendor"}, []string{"Acme"})},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, "")

	req := batchRequest{
		Names: []string{"Acme Widgets LLC", "Jane Doe"},
		Rows: []model.Row{
			model.NewRow([]string{"Vendor", "Amount"}, []string{"Acme Widgets LLC", "10"}),
			model.NewRow([]string{"Vendor", "Amount"}, []string{"Jane Doe", "5"}),
		},
	}

	t.Run("csv", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/export", req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

		records, err := csv.NewReader(resp.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"Vendor", "Amount", export.ColumnClassification}, records[0][:3])
		assert.Equal(t, "Jane Doe", records[2][0])
	})

	t.Run("xlsx", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/export?format=xlsx", req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		f, err := excelize.OpenReader(resp.Body)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows(export.DefaultSheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("unknown format", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/export?format=pdf", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExport_StoredBatch(t *testing.T) {
	s := newTestServer(t, "")

	resp := s.do(t, http.MethodPost, "/api/batch", batchRequest{Names: []string{"Acme Widgets LLC"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	batchID := decodeBody[model.BatchProcessingResult](t, resp).BatchID

	resp = s.do(t, http.MethodPost, "/api/export", batchRequest{BatchID: batchID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, export.ColumnPayeeName, records[0][0])

	resp = s.do(t, http.MethodPost, "/api/export", batchRequest{BatchID: "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestKeywords(t *testing.T) {
	s := newTestServer(t, "")

	resp := s.do(t, http.MethodPost, "/api/classify", classifyRequest{Name: "Zorblax Holdings"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, model.TierExcluded, decodeBody[model.ClassificationResult](t, resp).ProcessingTier)

	resp = s.do(t, http.MethodPost, "/api/keywords", keywordRequest{Keyword: " zorblax "})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ZORBLAX", decodeBody[keywordRequest](t, resp).Keyword)

	resp = s.do(t, http.MethodGet, "/api/keywords", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"ZORBLAX"}, decodeBody[map[string][]string](t, resp)["keywords"])

	// The cache was invalidated, so the new keyword applies immediately.
	resp = s.do(t, http.MethodPost, "/api/classify", classifyRequest{Name: "Zorblax Holdings"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.TierExcluded, decodeBody[model.ClassificationResult](t, resp).ProcessingTier)

	resp = s.do(t, http.MethodDelete, "/api/keywords/zorblax", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/keywords/zorblax", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/keywords", keywordRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIKey(t *testing.T) {
	s := newTestServer(t, "secret")

	resp := s.do(t, http.MethodGet, "/api/keywords", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/keywords", nil, "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/keywords", nil, "X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClassifications_SeededHistory(t *testing.T) {
	s := newSeededTestServer(t, "", testutil.TestDBOptions{
		Records: append(testutil.Batch("old", "Jane Doe"),
			testutil.NewRecord("Acme LLC").InBatch("new").Business(95).
				WithOriginal([]string{"Vendor", "Amount"}, []string{"Acme LLC", "7.50"}).Build()),
	})

	resp := s.do(t, http.MethodGet, "/api/classifications?batch=new", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decodeBody[[]model.PayeeClassification](t, resp)
	require.Len(t, records, 1)
	assert.Equal(t, model.Business, records[0].Result.Classification)

	resp = s.do(t, http.MethodGet, "/api/classifications", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]model.PayeeClassification](t, resp), 2)

	resp = s.do(t, http.MethodPost, "/api/export", batchRequest{BatchID: "new"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Vendor", "Amount"}, rows[0][:2])
	assert.Equal(t, "7.50", rows[1][1])
}
