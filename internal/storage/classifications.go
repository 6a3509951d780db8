package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/service"
)

// sicLookupChunk bounds the number of bound parameters per IN query.
const sicLookupChunk = 500

type classificationRow struct {
	ClassifiedAt     time.Time      `db:"classified_at"`
	OriginalData     sql.NullString `db:"original_data"`
	ID               string         `db:"id"`
	PayeeName        string         `db:"payee_name"`
	BatchID          string         `db:"batch_id"`
	Classification   string         `db:"classification"`
	ProcessingTier   string         `db:"processing_tier"`
	ProcessingMethod string         `db:"processing_method"`
	Reasoning        string         `db:"reasoning"`
	SICCode          string         `db:"sic_code"`
	SICDescription   string         `db:"sic_description"`
	ResultJSON       string         `db:"result_json"`
	RowIndex         int            `db:"row_index"`
	Confidence       int            `db:"confidence"`
}

const classificationColumns = `id, payee_name, row_index, batch_id, classification, confidence,
	processing_tier, processing_method, reasoning, sic_code, sic_description,
	result_json, original_data, classified_at`

const upsertClassification = `
	INSERT INTO payee_classifications (` + classificationColumns + `)
	VALUES (:id, :payee_name, :row_index, :batch_id, :classification, :confidence,
		:processing_tier, :processing_method, :reasoning, :sic_code, :sic_description,
		:result_json, :original_data, :classified_at)
	ON CONFLICT (payee_name, row_index, batch_id) DO UPDATE SET
		id = excluded.id,
		classification = excluded.classification,
		confidence = excluded.confidence,
		processing_tier = excluded.processing_tier,
		processing_method = excluded.processing_method,
		reasoning = excluded.reasoning,
		sic_code = excluded.sic_code,
		sic_description = excluded.sic_description,
		result_json = excluded.result_json,
		original_data = excluded.original_data,
		classified_at = excluded.classified_at`

// Save upserts classification results. An empty batchID keeps each record's own BatchID.
func (s *Store) Save(ctx context.Context, results []model.PayeeClassification, batchID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}
	if err := validateClassifications(results); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range results {
		row, err := toRow(&results[i], batchID)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, upsertClassification, row); err != nil {
			return fmt.Errorf("failed to save classification for %q: %w", results[i].PayeeName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadAll returns every stored classification ordered by batch and row.
func (s *Store) LoadAll(ctx context.Context) ([]model.PayeeClassification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var rows []classificationRow
	query := `SELECT ` + classificationColumns + ` FROM payee_classifications ORDER BY batch_id, row_index`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	return fromRows(rows)
}

// LoadBatch returns one batch's classifications in row order.
func (s *Store) LoadBatch(ctx context.Context, batchID string) ([]model.PayeeClassification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(batchID, "batchID"); err != nil {
		return nil, err
	}

	var rows []classificationRow
	query := s.db.Rebind(`SELECT ` + classificationColumns + ` FROM payee_classifications WHERE batch_id = ? ORDER BY row_index`)
	if err := s.db.SelectContext(ctx, &rows, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to query batch %s: %w", batchID, err)
	}
	return fromRows(rows)
}

// LookupSIC returns the most recent non-empty SIC code stored for each name.
// Names without one are absent from the map.
func (s *Store) LookupSIC(ctx context.Context, names []string) (map[string]service.SICInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	found := make(map[string]service.SICInfo)
	latest := make(map[string]time.Time)

	for start := 0; start < len(names); start += sicLookupChunk {
		chunk := names[start:min(start+sicLookupChunk, len(names))]

		query, args, err := sqlx.In(`SELECT payee_name, sic_code, sic_description, classified_at
			FROM payee_classifications
			WHERE sic_code <> '' AND payee_name IN (?)`, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to build SIC lookup: %w", err)
		}

		var rows []classificationRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to look up SIC codes: %w", err)
		}

		for _, r := range rows {
			if seen, ok := latest[r.PayeeName]; ok && !r.ClassifiedAt.After(seen) {
				continue
			}
			latest[r.PayeeName] = r.ClassifiedAt
			found[r.PayeeName] = service.SICInfo{Code: r.SICCode, Description: r.SICDescription}
		}
	}

	return found, nil
}

// BatchSummary describes one stored batch.
type BatchSummary struct {
	FirstClassified time.Time
	LastClassified  time.Time
	BatchID         string
	Total           int
	Businesses      int
	Individuals     int
}

// ListBatches summarizes stored batches, most recent first.
func (s *Store) ListBatches(ctx context.Context) ([]BatchSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var rows []classificationRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT batch_id, classification, classified_at FROM payee_classifications`); err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}

	byID := make(map[string]*BatchSummary)
	for _, r := range rows {
		summary, ok := byID[r.BatchID]
		if !ok {
			summary = &BatchSummary{
				BatchID:         r.BatchID,
				FirstClassified: r.ClassifiedAt,
				LastClassified:  r.ClassifiedAt,
			}
			byID[r.BatchID] = summary
		}

		summary.Total++
		switch model.Classification(r.Classification) {
		case model.Business:
			summary.Businesses++
		case model.Individual:
			summary.Individuals++
		}
		if r.ClassifiedAt.Before(summary.FirstClassified) {
			summary.FirstClassified = r.ClassifiedAt
		}
		if r.ClassifiedAt.After(summary.LastClassified) {
			summary.LastClassified = r.ClassifiedAt
		}
	}

	summaries := make([]BatchSummary, 0, len(byID))
	for _, summary := range byID {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LastClassified.Equal(summaries[j].LastClassified) {
			return summaries[i].BatchID < summaries[j].BatchID
		}
		return summaries[i].LastClassified.After(summaries[j].LastClassified)
	})
	return summaries, nil
}

func toRow(pc *model.PayeeClassification, batchID string) (classificationRow, error) {
	if batchID == "" {
		batchID = pc.BatchID
	}

	resultJSON, err := json.Marshal(pc.Result)
	if err != nil {
		return classificationRow{}, fmt.Errorf("failed to marshal result for %q: %w", pc.PayeeName, err)
	}

	var original sql.NullString
	if pc.OriginalData != nil {
		data, err := json.Marshal(pc.OriginalData)
		if err != nil {
			return classificationRow{}, fmt.Errorf("failed to marshal original data for %q: %w", pc.PayeeName, err)
		}
		original = sql.NullString{String: string(data), Valid: true}
	}

	classifiedAt := pc.Timestamp
	if classifiedAt.IsZero() {
		classifiedAt = time.Now()
	}

	return classificationRow{
		ID:               pc.ID,
		PayeeName:        pc.PayeeName,
		RowIndex:         pc.RowIndex,
		BatchID:          batchID,
		Classification:   string(pc.Result.Classification),
		Confidence:       pc.Result.Confidence,
		ProcessingTier:   string(pc.Result.ProcessingTier),
		ProcessingMethod: pc.Result.ProcessingMethod,
		Reasoning:        pc.Result.Reasoning,
		SICCode:          pc.Result.SICCode,
		SICDescription:   pc.Result.SICDescription,
		ResultJSON:       string(resultJSON),
		OriginalData:     original,
		ClassifiedAt:     classifiedAt.UTC(),
	}, nil
}

func fromRows(rows []classificationRow) ([]model.PayeeClassification, error) {
	out := make([]model.PayeeClassification, 0, len(rows))
	for _, r := range rows {
		pc := model.PayeeClassification{
			ID:        r.ID,
			PayeeName: r.PayeeName,
			RowIndex:  r.RowIndex,
			BatchID:   r.BatchID,
			Timestamp: r.ClassifiedAt,
		}

		if err := json.Unmarshal([]byte(r.ResultJSON), &pc.Result); err != nil {
			return nil, fmt.Errorf("%w: result for %q: %w", ErrCorruptRecord, r.PayeeName, err)
		}

		if r.OriginalData.Valid {
			var original model.Row
			if err := json.Unmarshal([]byte(r.OriginalData.String), &original); err != nil {
				return nil, fmt.Errorf("%w: original data for %q: %w", ErrCorruptRecord, r.PayeeName, err)
			}
			pc.OriginalData = &original
		}

		out = append(out, pc)
	}
	return out, nil
}
