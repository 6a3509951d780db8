package model

import "time"

// BatchProcessingResult is the output of one batch run. Results[i] always
// corresponds to input position i.
type BatchProcessingResult struct {
	BatchID          string                `json:"batchId,omitempty"`
	Results          []PayeeClassification `json:"results"`
	OriginalFileData []Row                 `json:"originalFileData,omitempty"`
	EnhancedStats    EnhancedStats         `json:"enhancedStats"`
	SuccessCount     int                   `json:"successCount"`
	FailureCount     int                   `json:"failureCount"`
	ProcessingTime   time.Duration         `json:"processingTime"`
}

// EnhancedStats aggregates a batch run.
type EnhancedStats struct {
	ByClassification  map[Classification]int `json:"byClassification"`
	ByTier            map[ProcessingTier]int `json:"byTier"`
	HighConfidence    int                    `json:"highConfidence"`
	MediumConfidence  int                    `json:"mediumConfidence"`
	LowConfidence     int                    `json:"lowConfidence"`
	CacheHits         int                    `json:"cacheHits"`
	ExcludedCount     int                    `json:"excludedCount"`
	AverageConfidence float64                `json:"averageConfidence"`
	ElapsedTime       time.Duration          `json:"elapsedTime"`
}
