package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/videre/internal/interfaces"
	"github.com/ternarybob/videre/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ErrNotFound is returned when no analysis record exists for a cache key
var ErrNotFound = badgerhold.ErrNotFound

// AnalysisStorage implements the AnalysisStorage interface on Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves an analysis record by cache key
func (s *AnalysisStorage) Get(cacheKey string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := s.db.Store().Get(cacheKey, &record)
	if err == badgerhold.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}
	return &record, nil
}

// Save upserts an analysis record, preserving CreatedAt on updates
func (s *AnalysisStorage) Save(record *models.AnalysisRecord) error {
	if record.CacheKey == "" {
		return fmt.Errorf("analysis record requires a cache key")
	}

	now := time.Now()
	record.UpdatedAt = now

	var existing models.AnalysisRecord
	err := s.db.Store().Get(record.CacheKey, &existing)
	if err == nil {
		record.CreatedAt = existing.CreatedAt
	} else {
		record.CreatedAt = now
	}

	if err := s.db.Store().Upsert(record.CacheKey, record); err != nil {
		return fmt.Errorf("failed to save analysis record: %w", err)
	}

	s.logger.Debug().
		Str("cache_key", record.CacheKey).
		Str("analysis_type", string(record.AnalysisType)).
		Msg("Analysis record saved")

	return nil
}

// Delete removes an analysis record. Missing keys are not an error.
func (s *AnalysisStorage) Delete(cacheKey string) error {
	err := s.db.Store().Delete(cacheKey, &models.AnalysisRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete analysis record: %w", err)
	}
	return nil
}

// List returns stored records ordered by most recently updated
func (s *AnalysisStorage) List(limit int) ([]*models.AnalysisRecord, error) {
	var records []*models.AnalysisRecord

	query := badgerhold.Where("CacheKey").Ne("").SortBy("UpdatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}
	return records, nil
}

// DeleteOlderThan removes records not updated since the cutoff
func (s *AnalysisStorage) DeleteOlderThan(cutoff time.Time) (int, error) {
	var stale []*models.AnalysisRecord
	if err := s.db.Store().Find(&stale, badgerhold.Where("UpdatedAt").Lt(cutoff)); err != nil {
		return 0, fmt.Errorf("failed to find stale analysis records: %w", err)
	}

	deleted := 0
	for _, record := range stale {
		if err := s.db.Store().Delete(record.CacheKey, &models.AnalysisRecord{}); err != nil {
			s.logger.Warn().Err(err).Str("cache_key", record.CacheKey).Msg("Failed to delete stale record")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info().Int("deleted", deleted).Str("cutoff", cutoff.Format(time.RFC3339)).Msg("Stale analysis records removed")
	}

	return deleted, nil
}
