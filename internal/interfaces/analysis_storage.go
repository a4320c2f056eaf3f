package interfaces

import (
	"time"

	"github.com/ternarybob/videre/internal/models"
)

// AnalysisStorage persists completed analyses keyed by cache key.
// Implementations back the cache short-circuit on repeat analysis
// requests and the report download endpoints.
type AnalysisStorage interface {
	// Get returns the record for the given cache key, or ErrNotFound
	// from the underlying store when no record exists.
	Get(cacheKey string) (*models.AnalysisRecord, error)

	// Save upserts the record, stamping UpdatedAt (and CreatedAt on
	// first write).
	Save(record *models.AnalysisRecord) error

	// Delete removes the record for the cache key. Deleting a missing
	// key is not an error.
	Delete(cacheKey string) error

	// List returns stored records ordered by most recently updated.
	List(limit int) ([]*models.AnalysisRecord, error)

	// DeleteOlderThan removes records not updated since the cutoff and
	// returns how many were removed.
	DeleteOlderThan(cutoff time.Time) (int, error)
}
