package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Veraticus/payee-classifier/internal/common"
	"github.com/Veraticus/payee-classifier/internal/engine"
	"github.com/Veraticus/payee-classifier/internal/export"
	"github.com/Veraticus/payee-classifier/internal/model"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 32 << 20

type classifyRequest struct {
	Name string `json:"name"`
}

type batchRequest struct {
	BatchID string      `json:"batchId,omitempty"`
	Names   []string    `json:"names"`
	Rows    []model.Row `json:"rows,omitempty"`
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	writeJSON(w, http.StatusOK, s.cfg.Classifier.Classify(r.Context(), req.Name))
}

// runBatch classifies the request's names, synthesizing single-column rows
// when none were uploaded.
func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, req batchRequest) (*model.BatchProcessingResult, bool) {
	if len(req.Names) == 0 {
		writeError(w, http.StatusBadRequest, "names are required")
		return nil, false
	}
	if len(req.Names) > s.cfg.MaxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d names per request", s.cfg.MaxBatchSize))
		return nil, false
	}

	rows := req.Rows
	if rows == nil {
		rows = make([]model.Row, len(req.Names))
		for i, name := range req.Names {
			rows[i] = model.NewRow([]string{export.ColumnPayeeName}, []string{name})
		}
	}

	result, err := s.cfg.Batch.Process(r.Context(), req.Names, rows, nil)
	if err != nil {
		s.logger.Error("batch failed", "error", err, "names", len(req.Names))
		switch {
		case errors.Is(err, engine.ErrRowCountMismatch), errors.Is(err, engine.ErrEmptyKeywordList):
			writeError(w, http.StatusBadRequest, err.Error())
		case r.Context().Err() != nil:
			writeError(w, http.StatusServiceUnavailable, "request cancelled")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return result, true
}

func (s *Server) batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decode(w, r, &req) {
		return
	}

	result, ok := s.runBatch(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// export returns a CSV or XLSX file for either a fresh batch of names or a
// stored batch ID.
func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decode(w, r, &req) {
		return
	}

	var result *model.BatchProcessingResult
	if req.BatchID != "" && len(req.Names) == 0 {
		stored, err := s.cfg.Store.LoadBatch(r.Context(), req.BatchID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(stored) == 0 {
			writeError(w, http.StatusNotFound, "batch not found")
			return
		}
		result = export.FromRecords(req.BatchID, stored)
	} else {
		var ok bool
		if result, ok = s.runBatch(w, r, req); !ok {
			return
		}
	}

	table, err := s.cfg.Exporter.Table(r.Context(), result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "csv":
		err = export.WriteCSV(&buf, table)
		w.Header().Set("Content-Type", "text/csv")
		format = "csv"
	case "xlsx":
		err = export.WriteXLSX(&buf, table, export.DefaultSheetName)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="classifications.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) listClassifications(w http.ResponseWriter, r *http.Request) {
	var (
		results []model.PayeeClassification
		err     error
	)
	if batchID := r.URL.Query().Get("batch"); batchID != "" {
		results, err = s.cfg.Store.LoadBatch(r.Context(), batchID)
	} else {
		results, err = s.cfg.Store.LoadAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []model.PayeeClassification{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) listKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := s.cfg.Store.LoadCustomKeywords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"keywords": keywords})
}

func (s *Server) addKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Keyword) == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	if err := s.cfg.Store.AddCustomKeyword(r.Context(), req.Keyword); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.invalidateKeywords()
	writeJSON(w, http.StatusCreated, keywordRequest{Keyword: strings.ToUpper(strings.TrimSpace(req.Keyword))})
}

func (s *Server) removeKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := mux.Vars(r)["keyword"]

	if err := s.cfg.Store.RemoveCustomKeyword(r.Context(), keyword); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.invalidateKeywords()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) invalidateKeywords() {
	if s.cfg.Keywords != nil {
		s.cfg.Keywords.Invalidate()
	}
}
