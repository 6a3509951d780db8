// Package export merges batch results back onto the uploaded rows and writes
// them out as CSV, XLSX or a header/rows table.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/service"
)

// Derived column names. They are set after the original columns, so a
// same-named original column is overwritten in place.
const (
	ColumnPayeeName        = "Payee_Name"
	ColumnClassification   = "Classification"
	ColumnConfidence       = "Confidence"
	ColumnProcessingTier   = "Processing_Tier"
	ColumnReasoning        = "Reasoning"
	ColumnProcessingMethod = "Processing_Method"
	ColumnSICCode          = "SIC_Code"
	ColumnSICDescription   = "SIC_Description"
	ColumnKeywordExcluded  = "Keyword_Excluded"
	ColumnMatchedKeywords  = "Matched_Keywords"
	ColumnKeywordReasoning = "Keyword_Reasoning"
	ColumnLevenshtein      = "Similarity_Levenshtein"
	ColumnJaro             = "Similarity_Jaro"
	ColumnJaroWinkler      = "Similarity_Jaro_Winkler"
	ColumnDice             = "Similarity_Dice"
	ColumnTokenSort        = "Similarity_Token_Sort"
	ColumnCombined         = "Similarity_Combined"
	ColumnTimestamp        = "Timestamp"
)

// ErrMisaligned indicates original rows that do not line up with results.
var ErrMisaligned = errors.New("original rows do not align with results")

// Table is a header row plus data rows, all cells rendered as strings.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Exporter builds export rows. The SIC lookup is optional.
type Exporter struct {
	sic    service.SICLookup
	logger *slog.Logger
}

// New creates an exporter that backfills missing SIC codes from sic.
func New(sic service.SICLookup, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{sic: sic, logger: logger}
}

// Rows returns one record per result in input order. Each record starts with
// the original row, or a Payee_Name column when the batch carries no
// original data, followed by the derived columns.
func (e *Exporter) Rows(ctx context.Context, batch *model.BatchProcessingResult) ([]model.Row, error) {
	n := len(batch.Results)
	if len(batch.OriginalFileData) != 0 && len(batch.OriginalFileData) != n {
		return nil, fmt.Errorf("%w: %d original rows for %d results", ErrMisaligned, len(batch.OriginalFileData), n)
	}

	backfill := e.lookupMissingSIC(ctx, batch.Results)

	rows := make([]model.Row, n)
	for i, rec := range batch.Results {
		var row model.Row
		if len(batch.OriginalFileData) != 0 {
			row = batch.OriginalFileData[i].Clone()
		} else {
			row = model.NewRow([]string{ColumnPayeeName}, []string{rec.PayeeName})
		}

		r := rec.Result
		sicCode, sicDescription := r.SICCode, r.SICDescription
		if sicCode == "" && r.Classification == model.Business {
			if info, ok := backfill[rec.PayeeName]; ok {
				sicCode, sicDescription = info.Code, info.Description
			}
		}

		row.Set(ColumnClassification, string(r.Classification))
		row.Set(ColumnConfidence, strconv.Itoa(r.Confidence))
		row.Set(ColumnProcessingTier, string(r.ProcessingTier))
		row.Set(ColumnReasoning, r.Reasoning)
		row.Set(ColumnProcessingMethod, r.ProcessingMethod)
		row.Set(ColumnSICCode, sicCode)
		row.Set(ColumnSICDescription, sicDescription)

		exclusion := model.EmptyKeywordExclusion()
		if r.KeywordExclusion != nil {
			exclusion = *r.KeywordExclusion
		}
		row.Set(ColumnKeywordExcluded, yesNo(exclusion.IsExcluded))
		row.Set(ColumnMatchedKeywords, strings.Join(exclusion.MatchedKeywords, "; "))
		row.Set(ColumnKeywordReasoning, exclusion.Reasoning)

		if s := r.SimilarityScores; s != nil {
			row.Set(ColumnLevenshtein, formatScore(s.Levenshtein))
			row.Set(ColumnJaro, formatScore(s.Jaro))
			row.Set(ColumnJaroWinkler, formatScore(s.JaroWinkler))
			row.Set(ColumnDice, formatScore(s.Dice))
			row.Set(ColumnTokenSort, formatScore(s.TokenSort))
			row.Set(ColumnCombined, formatScore(s.Combined))
		}

		row.Set(ColumnTimestamp, formatTimestamp(rec.Timestamp))
		rows[i] = row
	}

	return rows, nil
}

// Table renders Rows as a table. Headers are the union of all row keys in
// first-seen order; absent cells are empty.
func (e *Exporter) Table(ctx context.Context, batch *model.BatchProcessingResult) (Table, error) {
	rows, err := e.Rows(ctx, batch)
	if err != nil {
		return Table{}, err
	}
	return NewTable(rows), nil
}

// NewTable flattens rows into a Table.
func NewTable(rows []model.Row) Table {
	index := make(map[string]int)
	var headers []string
	for _, row := range rows {
		for _, key := range row.Keys() {
			if _, ok := index[key]; !ok {
				index[key] = len(headers)
				headers = append(headers, key)
			}
		}
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(headers))
		for _, f := range row.Fields {
			cells[index[f.Key]] = f.Value
		}
		out[i] = cells
	}

	return Table{Headers: headers, Rows: out}
}

func (e *Exporter) lookupMissingSIC(ctx context.Context, results []model.PayeeClassification) map[string]service.SICInfo {
	if e.sic == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var names []string
	for _, rec := range results {
		if rec.Result.Classification != model.Business || rec.Result.SICCode != "" {
			continue
		}
		if _, ok := seen[rec.PayeeName]; ok {
			continue
		}
		seen[rec.PayeeName] = struct{}{}
		names = append(names, rec.PayeeName)
	}
	if len(names) == 0 {
		return nil
	}

	found, err := e.sic.LookupSIC(ctx, names)
	if err != nil {
		e.logger.Warn("SIC backfill failed, exporting without it", "names", len(names), "error", err)
		return nil
	}
	return found
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FromRecords rebuilds an exportable batch from stored records. Original rows
// are restored only when every record carries one.
func FromRecords(batchID string, records []model.PayeeClassification) *model.BatchProcessingResult {
	batch := &model.BatchProcessingResult{BatchID: batchID, Results: records}

	originals := make([]model.Row, 0, len(records))
	for _, rec := range records {
		if rec.OriginalData == nil {
			return batch
		}
		originals = append(originals, *rec.OriginalData)
	}
	batch.OriginalFileData = originals
	return batch
}
