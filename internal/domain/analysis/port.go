package analysis

import (
	"context"
	"io"
)

// Repository port (interface for persistence)
type Repository interface {
	// Create persists a result for the owner, assigns the server timestamp
	// and trims the owner's history to MaxRecordsPerUser in the same
	// transaction. Returns the stored record including its timestamp.
	Create(ctx context.Context, owner int64, data Result) (*Record, error)
	// List returns the owner's records newest-first. Empty slice, not an
	// error, when the owner has none.
	List(ctx context.Context, owner int64) ([]*Record, error)
}

// ReportArchive port (interface for report object storage)
type ReportArchive interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// InsightGenerator port (interface for the optional AI summary)
type InsightGenerator interface {
	Summarize(ctx context.Context, res Result) (string, error)
}
