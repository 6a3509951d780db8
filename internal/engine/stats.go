package engine

import (
	"math"
	"time"

	"github.com/Veraticus/payee-classifier/internal/model"
)

func computeStats(results []model.PayeeClassification, hits []bool, elapsed time.Duration) model.EnhancedStats {
	stats := model.EnhancedStats{
		ByClassification: make(map[model.Classification]int),
		ByTier:           make(map[model.ProcessingTier]int),
		ElapsedTime:      elapsed,
	}

	total := 0
	for i, rec := range results {
		r := rec.Result
		stats.ByClassification[r.Classification]++
		stats.ByTier[r.ProcessingTier]++

		switch {
		case r.Confidence >= model.ConfidenceMedium:
			stats.HighConfidence++
		case r.Confidence >= model.ConfidenceReviewRequired:
			stats.MediumConfidence++
		default:
			stats.LowConfidence++
		}

		if r.KeywordExclusion != nil && r.KeywordExclusion.IsExcluded {
			stats.ExcludedCount++
		}
		if i < len(hits) && hits[i] {
			stats.CacheHits++
		}
		total += r.Confidence
	}

	if len(results) > 0 {
		stats.AverageConfidence = math.Round(float64(total)/float64(len(results))*100) / 100
	}

	return stats
}
